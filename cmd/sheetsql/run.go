package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/controller"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/engine"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/export"
	"golang.org/x/sync/errgroup"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		query     string
		queryFile string
		output    string
		saveQuery string
	)

	cmd := &cobra.Command{
		Use:   "run INPUT (-q SQL | -f FILE)",
		Short: "Run a query over a workbook and export the result",
		Long: `Run loads every sheet of INPUT, executes the query and writes the result
to OUTPUT (default: <input>_output.xlsx). Press Ctrl-C to cancel; the query
stops at the next checkpoint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			text := query
			if queryFile != "" {
				var err error
				if text, err = sheetsql.LoadQuery(queryFile); err != nil {
					return err
				}
			}
			if saveQuery != "" {
				if err := sheetsql.SaveQuery(saveQuery, text); err != nil {
					return err
				}
			}
			if output == "" {
				output = sheetsql.DefaultOutputPath(input)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, newPrinter(cmd.OutOrStdout()), input, text, output)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "SQL query text")
	cmd.Flags().StringVarP(&queryFile, "file", "f", "", "read the SQL query from a file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output workbook path")
	cmd.Flags().StringVar(&saveQuery, "save-query", "", "save the query text to a file")
	cmd.MarkFlagsMutuallyExclusive("query", "file")
	cmd.MarkFlagsOneRequired("query", "file")

	return cmd
}

// run drives one load and execution cycle. Cancelling ctx requests
// cancellation of the running query.
func (a *app) run(ctx context.Context, p *printer, input, query, output string) error {
	runner, err := engine.New(a.cfg.Engine, a.logger)
	if err != nil {
		return err
	}

	exp := export.New(a.logger)
	exp.SheetName = a.cfg.SheetName
	exp.TableName = a.cfg.TableName
	exp.TableStyle = a.cfg.TableStyle
	exp.Padding = a.cfg.WidthPadding

	ctrl := controller.New(controller.Config{
		Loader:       sheetsql.Loader{Logger: a.logger},
		Runner:       runner,
		Exporter:     exp,
		TickInterval: a.cfg.TickInterval,
		Logger:       a.logger,
	})
	defer ctrl.Wait()

	if err := ctrl.Load(input); err != nil {
		return err
	}

	done := make(chan struct{})
	var g errgroup.Group

	g.Go(func() error {
		defer close(done)
		return consume(ctx, ctrl, p, query, output)
	})

	g.Go(func() error {
		select {
		case <-ctx.Done():
			if err := ctrl.Cancel(); err != nil && !errors.Is(err, controller.ErrNotRunning) {
				return err
			}
			p.warn("Cancelling...")
			return nil
		case <-done:
			return nil
		}
	})

	return g.Wait()
}

// consume prints controller events until the cycle ends.
func consume(ctx context.Context, ctrl *controller.Controller, p *printer, query, output string) error {
	for ev := range ctrl.Events() {
		switch ev.Kind {
		case controller.SheetCount:
			p.info(fmt.Sprintf("Sheets: %d", ev.Count))
		case controller.SheetsReady:
			if ctx.Err() != nil {
				return sheetsql.ErrCancelled
			}
			if err := ctrl.Execute(query, output); err != nil {
				return err
			}
		case controller.LoadFailed:
			return ev.Err
		case controller.ExecutionStarted:
			p.muted(fmt.Sprintf("Running query (run %s)", ev.RunID))
		case controller.Tick:
			p.progress(fmt.Sprintf("Running: %ds", ev.Elapsed))
		case controller.ExecutionDone:
			if ev.CancelIgnored {
				p.warn("Query finished before it could be cancelled.")
			}
			p.success(fmt.Sprintf("Done! Took: %ds", ev.Elapsed))
			p.info(fmt.Sprintf("Output: %s", ev.Path))
			return nil
		case controller.ExecutionCancelled:
			p.warn(fmt.Sprintf("Query cancelled after %ds", ev.Elapsed))
			return sheetsql.ErrCancelled
		case controller.ExecutionFailed:
			return ev.Err
		}
	}
	return nil
}
