package main

import (
	"errors"
	"fmt"
	"io"

	_ "github.com/darianmavgo/megasena/converters/all"

	"github.com/darianmavgo/megasena/config"
	"github.com/darianmavgo/megasena/export"
	"github.com/darianmavgo/megasena/pipeline"
	"github.com/darianmavgo/megasena/stats"
	"github.com/darianmavgo/megasena/store"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	verbose    bool
	logFormat  string
	cfg        *config.Config
	logger     *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: log.New()}

	root := &cobra.Command{
		Use:           "megasena",
		Short:         "Load Mega-Sena draw results into a database or flat files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "HCL or YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(a.importCmd(), a.exportCmd(), a.statsCmd(), a.configCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	a.cfg = config.DefaultConfig()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if cmd.Flags().Changed("log-format") {
		a.cfg.LogFormat = a.logFormat
	}
	if a.verbose {
		a.cfg.LogLevel = "debug"
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, _ := log.ParseLevel(a.cfg.LogLevel)
	a.logger.SetLevel(level)
	a.logger.SetOutput(cmd.ErrOrStderr())
	if a.cfg.LogFormat == "json" {
		a.logger.SetFormatter(&log.JSONFormatter{})
	} else {
		a.logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func (a *app) options(args []string) pipeline.Options {
	var source string
	if len(args) > 0 {
		source = args[0]
	}
	return pipeline.Options{
		Source:      source,
		Conversion:  a.cfg.Conversion(),
		GroupSize:   a.cfg.BatchSize,
		CreateTable: a.cfg.CreateTable,
		RunID:       uuid.NewString(),
		Logger:      a.logger,
	}
}

func report(w io.Writer, res *pipeline.Result) error {
	if res == nil || res.Source == "" {
		return nil
	}
	if err := res.Summary.Render(w); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [spreadsheet]",
		Short: "Validate draws and insert them into DATABASE_URL",
		Long: `Reads the spreadsheet (or the first one found in the current directory),
validates every row and appends the accepted draws to the draws table in
groups of batch_size, one transaction per group.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := config.DatabaseDSN()
			if err != nil {
				return err
			}

			opts := a.options(args)
			ctx := cmd.Context()
			st, err := store.Open(ctx, dsn, a.cfg.Table)
			if err != nil {
				return err
			}
			defer st.Close()
			a.logger.WithFields(log.Fields{
				"run_id":   opts.RunID,
				"database": dsn.Redacted(),
				"table":    st.Table(),
			}).Debug("Connected")

			res, err := pipeline.Import(ctx, st, opts)
			return errors.Join(err, report(cmd.OutOrStdout(), res))
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [spreadsheet]",
		Short: "Validate draws and write JSON, CSV and TXT files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("out") {
				out = a.cfg.OutputDir
			}
			files := export.DefaultFiles(out, a.cfg.FilePrefix)

			res, err := pipeline.Export(cmd.Context(), files, a.options(args))
			return errors.Join(err, report(cmd.OutOrStdout(), res))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Output directory")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	var (
		out       string
		statsOpts stats.Options
	)
	cmd := &cobra.Command{
		Use:   "stats [spreadsheet]",
		Short: "Write number frequency, gap, hot/cold, pair and trio analyses",
		Long: `Validates the spreadsheet like export does, then writes five CSV files
to the output directory: frequencia-numeros.csv, analise-gaps.csv,
numeros-quentes-frios.csv, duplas-frequentes.csv and trios-frequentes.csv.
The average draw shape is printed after the row summary.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("out") {
				out = a.cfg.OutputDir
			}

			res, err := pipeline.Stats(cmd.Context(), export.DefaultStatsFiles(out), statsOpts, a.options(args))
			if rerr := report(cmd.OutOrStdout(), res); rerr != nil || err != nil {
				return errors.Join(err, rerr)
			}
			if err := res.Stats.History.Render(cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to write distribution: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Output directory")
	cmd.Flags().IntVar(&statsOpts.Recent, "recent", stats.DefaultRecent, "Latest draws counted as recent")
	cmd.Flags().IntVar(&statsOpts.MinPairs, "min-pairs", stats.DefaultMinPairs, "Minimum count for a listed pair")
	cmd.Flags().IntVar(&statsOpts.MinTrios, "min-trios", stats.DefaultMinTrios, "Minimum count for a listed trio")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export PATH",
		Short: "Write the current configuration to PATH (.hcl, .yaml or .yml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Export(args[0], a.cfg); err != nil {
				return err
			}
			a.logger.WithField("path", args[0]).Info("Config written")
			return nil
		},
	})
	return cmd
}
