package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"loandash/internal"
	"loandash/internal/config"
	"loandash/internal/dashboard"
	"loandash/internal/source"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataFile    string
	databaseURL string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "loanstat",
		Short:         "Print the loan dashboard aggregates in a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.dataFile, "data", "", "Loan CSV/XLSX export (overrides LOAN_DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&flags.databaseURL, "database-url", "", "Read loans from Postgres (overrides DATABASE_URL)")

	rootCmd.AddCommand(
		newSummaryCmd(flags),
		newConditionCmd(flags),
	)
	return rootCmd
}

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show overview metrics and weekday/condition/grade counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := loadBuilder(cmd, flags, 0)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), builder)
		},
	}
}

func newConditionCmd(flags *globalFlags) *cobra.Command {
	var bins int

	cmd := &cobra.Command{
		Use:   "condition [Good Loan|Bad Loan]",
		Short: "Show the amount distribution of one loan condition",
		Long: `Filter the loans by condition and print the subset size, the amount
histogram per term and box statistics per purpose and term.

Example: loanstat condition "Bad Loan" --bins 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := loadBuilder(cmd, flags, bins)
			if err != nil {
				return err
			}
			condition, err := builder.ParseCondition(args[0])
			if err != nil {
				return err
			}
			view, err := builder.Condition(condition)
			if err != nil {
				return err
			}
			return printCondition(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 0, "Histogram bin count (default HISTOGRAM_BINS)")
	return cmd
}

func loadBuilder(cmd *cobra.Command, flags *globalFlags, bins int) (*dashboard.Builder, error) {
	cfg, err := config.LoadWithOverrides(config.Overrides{
		LoanFile:      flags.dataFile,
		DatabaseURL:   flags.databaseURL,
		HistogramBins: bins,
	})
	if err != nil {
		return nil, err
	}

	ds, err := source.Load(cmd.Context(), cfg, internal.NewLogger(internal.LogLevelWarn))
	if err != nil {
		return nil, err
	}

	return dashboard.NewBuilder(ds, dashboard.Options{
		HistogramBins:    cfg.Dashboard.HistogramBins,
		DefaultCondition: cfg.Dashboard.DefaultCondition,
	})
}

func printSummary(w io.Writer, b *dashboard.Builder) error {
	fmt.Fprintf(w, "📊 %s\n", dashboard.Title)
	fmt.Fprintf(w, "Dataset: %s (%s)\n\n", b.Dataset().ID(), b.Dataset().Source())

	for _, m := range b.Metrics() {
		fmt.Fprintf(w, "%-24s %s\n", m.Label+":", m.Value)
	}

	for _, tab := range b.Trends() {
		if tab.Chart.ChartType != dashboard.ChartBar {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", tab.Chart.Title)
		printPoints(w, tab.Chart.Series)
	}
	for _, chart := range b.Performance() {
		fmt.Fprintf(w, "\n%s\n", chart.Title)
		printPoints(w, chart.Series)
	}
	return nil
}

func printPoints(w io.Writer, series []dashboard.ChartSeries) {
	for _, s := range series {
		for _, p := range s.Data {
			fmt.Fprintf(w, "  %-20s %s\n", p.Label, dashboard.FormatCount(p.Value))
		}
	}
}

func printCondition(w io.Writer, view *dashboard.ConditionView) error {
	fmt.Fprintf(w, "Condition: %s\n", view.Condition)
	fmt.Fprintf(w, "Loans: %d (fingerprint %s)\n", view.Loans, view.Fingerprint)

	for _, tab := range view.Tabs {
		fmt.Fprintf(w, "\n%s\n", tab.Chart.Title)
		switch tab.Chart.ChartType {
		case dashboard.ChartHistogram:
			for _, s := range tab.Chart.Series {
				fmt.Fprintf(w, " %s\n", s.Name)
				for _, p := range s.Data {
					if p.Value == 0 {
						continue
					}
					fmt.Fprintf(w, "  %-20s %s\n", p.Label, dashboard.FormatCount(p.Value))
				}
			}
		case dashboard.ChartBox:
			for _, s := range tab.Chart.Boxes {
				fmt.Fprintf(w, " %s\n", s.Name)
				for _, b := range s.Boxes {
					fmt.Fprintf(w, "  %-20s n=%-5d q1=%s median=%s q3=%s outliers=%d\n",
						b.Purpose, b.N,
						dashboard.FormatCurrency(b.Q1), dashboard.FormatCurrency(b.Median), dashboard.FormatCurrency(b.Q3),
						len(b.Outliers))
				}
			}
		}
	}
	return nil
}
