package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"azure-cost-reconciler/cmd/costrecon/config"
	"azure-cost-reconciler/internal/aggregator"
	"azure-cost-reconciler/internal/locator"
	"azure-cost-reconciler/internal/reconciler"
	"azure-cost-reconciler/internal/reporter"
	"azure-cost-reconciler/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultRoot is the well-known drop location for downloaded cost exports.
const defaultRoot = "~/Downloads/finops"

// defaultOutputFile is the report artifact written on success.
const defaultOutputFile = "total_amortized_costs_summary.txt"

// Flags for the aggregate command
var (
	rootDir       string
	outputFile    string
	outputFormat  string
	currency      string
	marker        string
	namingProfile string
	showProgress  bool
)

// aggregateCmd represents the aggregate command
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Reconcile cost exports and write the summary report",
	Long: `Aggregate recursively scans the input directory for diff reports,
reconciles per-subscription costs across the two billing periods, and writes
a consolidated month-over-month report.

For each subscription, the total of a period is taken from the structured
JSON cost export when one exists next to the diff report; the figures in the
diff report's TOTAL COSTS row are used as a fallback, and a period with
neither source stays at zero.

Examples:
  # Scan the default directory and write the default report
  costrecon aggregate

  # Custom input directory and output file
  costrecon aggregate --root ./finops --output november-december.txt

  # Machine-readable output
  costrecon aggregate --format json --output costs.json

  # Print the report to the terminal instead of a file
  costrecon aggregate --format console

  # Exports named for other months
  costrecon aggregate --naming-profile profile.yaml`,

	PreRunE: validateAggregateFlags,
	RunE:    runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVarP(&rootDir, "root", "r", defaultRoot, "directory to scan recursively for diff reports")
	aggregateCmd.Flags().StringVarP(&outputFile, "output", "o", defaultOutputFile, "report output file path")
	aggregateCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, console, json")
	aggregateCmd.Flags().StringVar(&currency, "currency", "", "currency code expected in diff reports (default from naming profile)")
	aggregateCmd.Flags().StringVar(&marker, "marker", "", "filename substring identifying diff reports (default from naming profile)")
	aggregateCmd.Flags().StringVar(&namingProfile, "naming-profile", "", "YAML naming profile for period filename prefixes")
	aggregateCmd.Flags().BoolVar(&showProgress, "progress", false, "log scan progress at intervals")

	viper.BindPFlag("root", aggregateCmd.Flags().Lookup("root"))
	viper.BindPFlag("output", aggregateCmd.Flags().Lookup("output"))
	viper.BindPFlag("format", aggregateCmd.Flags().Lookup("format"))
	viper.BindPFlag("currency", aggregateCmd.Flags().Lookup("currency"))
	viper.BindPFlag("marker", aggregateCmd.Flags().Lookup("marker"))
	viper.BindPFlag("naming-profile", aggregateCmd.Flags().Lookup("naming-profile"))
	viper.BindPFlag("progress", aggregateCmd.Flags().Lookup("progress"))
}

func validateAggregateFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file and env)
	rootDir = viper.GetString("root")
	outputFile = viper.GetString("output")
	outputFormat = viper.GetString("format")
	currency = viper.GetString("currency")
	marker = viper.GetString("marker")
	namingProfile = viper.GetString("naming-profile")
	showProgress = viper.GetBool("progress")

	if rootDir == "" {
		return errors.ConfigurationError("root", rootDir, nil)
	}

	validFormats := map[string]bool{"text": true, "console": true, "json": true}
	if !validFormats[outputFormat] {
		return errors.ConfigurationError("format", outputFormat,
			fmt.Errorf("valid formats: text, console, json"))
	}

	if namingProfile != "" {
		if _, err := os.Stat(namingProfile); err != nil {
			return errors.ConfigurationError("naming-profile", namingProfile, err)
		}
	}

	// The console format writes to stdout and needs no output file.
	if outputFormat != string(reporter.FormatConsole) {
		if outputFile == "" {
			return errors.ConfigurationError("output", outputFile, nil)
		}
		if dir := filepath.Dir(outputFile); dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return errors.ConfigurationError("output", outputFile,
					fmt.Errorf("output directory does not exist: %s", dir))
			}
		}
	}

	return nil
}

func runAggregate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := expandHome(rootDir)
	if err != nil {
		return errors.ConfigurationError("root", rootDir, err)
	}

	// A missing input root is fatal: no report is produced.
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		return errors.RunError(errors.CodeRootMissing,
			fmt.Sprintf("input directory not found: %s", root))
	}

	profile, err := config.CreateNamingProfile(namingProfile, marker, currency)
	if err != nil {
		return errors.ConfigurationError("naming-profile", namingProfile, err)
	}

	loc, err := locator.NewLocator(profile)
	if err != nil {
		return errors.ConfigurationError("naming-profile", namingProfile, err)
	}

	service, err := reconciler.NewService(loc, config.CreateReconcilerConfig(profile, showProgress))
	if err != nil {
		return fmt.Errorf("failed to create reconciliation service: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Scanning directory: %s\n", root)
	}

	result, err := service.Reconcile(ctx, &reconciler.Request{Root: root})
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	// Zero subscriptions is a whole-run failure, distinct from succeeding
	// with all-zero totals. No report is written.
	if len(result.Records) == 0 {
		return errors.RunError(errors.CodeNoSubscriptions,
			fmt.Sprintf("no subscription data found under %s", root))
	}

	summary := aggregator.Aggregate(result.Records)

	generator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat, root, profile))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	// Render into memory first so a failed run never leaves a partial
	// report file behind.
	var rendered bytes.Buffer
	if err := generator.GenerateReport(result, summary, &rendered); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if outputFormat == string(reporter.FormatConsole) {
		if _, err := rendered.WriteTo(os.Stdout); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		if err := os.WriteFile(outputFile, rendered.Bytes(), 0644); err != nil {
			return errors.FileError(errors.CodeFileUnreadable, outputFile, err)
		}
		fmt.Fprintf(os.Stderr, "Report generated: %s\n", outputFile)
	}

	fmt.Fprintf(os.Stderr, "  Total subscriptions: %d\n", summary.SubscriptionCount)
	fmt.Fprintf(os.Stderr, "  %s total: %s %s\n", profile.PeriodALabel, summary.PeriodATotal.StringFixed(2), profile.Currency)
	fmt.Fprintf(os.Stderr, "  %s total: %s %s\n", profile.PeriodBLabel, summary.PeriodBTotal.StringFixed(2), profile.Currency)
	fmt.Fprintf(os.Stderr, "  Change: %s (%s)\n",
		reporter.FormatSignedAmount(summary.Change, profile.Currency),
		reporter.FormatSignedPercent(summary.PercentChange))

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Processed %d diff reports, skipped %d.\n",
			result.FilesDiscovered, result.FilesSkipped)
	}

	return nil
}

// expandHome resolves a leading ~ in a path against the user's home directory.
func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
