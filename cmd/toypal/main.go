package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toypal/adapters/report"
	"toypal/app"
	"toypal/internal/config"
	"toypal/internal/testkit"
	"toypal/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "toypal",
		Short: "ToyPal study analytics pipeline and dashboard API",
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newCleanCmd(),
		newStatsCmd(),
		newNLPCmd(),
		newReportCmd(),
		newRunCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newGenerateCmd() *cobra.Command {
	var participants, sessions int
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic bronze cohort",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			gc := testkit.CohortConfig{Participants: participants, Sessions: sessions, Seed: seed}
			rows, err := testkit.NewCohortGenerator(gc).WriteBronze(cfg.Paths.BronzeFile)
			if err != nil {
				return err
			}
			fmt.Printf("generated %d rows -> %s\n", rows, cfg.Paths.BronzeFile)
			return nil
		},
	}

	defaults := testkit.DefaultCohortConfig()
	cmd.Flags().IntVar(&participants, "participants", defaults.Participants, "Number of participants")
	cmd.Flags().IntVar(&sessions, "sessions", defaults.Sessions, "Sessions per participant")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Random seed for deterministic output")

	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Normalize the bronze export into the silver table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			res, err := app.NewPipeline(cfg).Clean(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("cleaned %d raw rows: %d kept, %d duplicates, %d dropped (%s schema)\n",
				res.RawRows, res.Dataset.Len(), res.Duplicates, res.Dropped, res.Schema)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run the statistical battery over the silver table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			table, err := app.NewPipeline(cfg).Stats(cmd.Context())
			if err != nil {
				return err
			}
			for _, row := range table.Rows {
				fmt.Println(report.FormatStatLine(row))
			}
			fmt.Printf("answered %d queries -> %s\n", len(table.Rows), cfg.Paths.StatsFile)
			return nil
		},
	}
}

func newNLPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nlp",
		Short: "Score session notes and extract keyword trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			analysis, err := app.NewPipeline(cfg).NLP(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("scored %d sessions -> %s\n", len(analysis.Sessions), cfg.Paths.NLPFile)
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Render the clinical summary report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := app.NewPipeline(cfg).Report(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("report written -> %s\n", cfg.Paths.ReportFile)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: clean, stats and nlp, report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := app.NewPipeline(cfg).RunAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("pipeline complete")
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard data API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return ui.NewApp(cfg).Start()
		},
	}
}
