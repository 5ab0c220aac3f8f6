package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
)

func newSheetsCmd(a *app) *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "sheets INPUT",
		Short: "List the sheets of a workbook and their columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := sheetsql.Load(cmd.Context(), args[0], sheetsql.Options{Logger: a.logger})
			if err != nil {
				return err
			}

			if sheet == "" {
				renderSheets(cmd.OutOrStdout(), ds)
				return nil
			}
			tbl, ok := ds.Table(sheet)
			if !ok {
				return fmt.Errorf("sheet %q not found", sheet)
			}
			renderColumns(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "show the columns of one sheet")
	return cmd
}

func renderSheets(w io.Writer, ds *models.Dataset) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Sheet", "Columns", "Rows"})

	for i, tbl := range ds.Tables() {
		t.AppendRow(table.Row{i + 1, tbl.Name, len(tbl.Columns), len(tbl.Rows)})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d sheets)\n", ds.Len())
}

func renderColumns(w io.Writer, tbl *models.SheetTable) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(tbl.Name)
	t.AppendHeader(table.Row{"#", "Column", "Type"})

	for i, col := range tbl.Columns {
		t.AppendRow(table.Row{i + 1, col, tbl.ColumnKind(i).String()})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(tbl.Rows))
}
