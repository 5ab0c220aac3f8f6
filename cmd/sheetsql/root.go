package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetsql-go/internal/config"
)

// app carries the state shared by all subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: slog.New(slog.DiscardHandler)}

	rootCmd := &cobra.Command{
		Use:   "sheetsql",
		Short: "Run SQL across the sheets of an Excel workbook",
		Long: `sheetsql loads every sheet of an .xlsx workbook as a table named after
the sheet, runs one SQL query across them and writes the result to a new
workbook as a styled table with sized columns.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, used, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.NewLogger(cmd.ErrOrStderr())
			if used != "" {
				a.logger.Debug("using config file", "path", used)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./sheetsql.yaml)")
	pf.String("engine", "", "query engine (sqlite|duckdb)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (text|json)")
	pf.BoolP("verbose", "v", false, "verbose logging")

	_ = rootCmd.RegisterFlagCompletionFunc("engine", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "duckdb"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newSheetsCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "sheetsql %s\n", Version)
			return err
		},
	}
}
