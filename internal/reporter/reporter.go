// Package reporter renders reconciliation results into the consolidated
// month-over-month cost report.
//
// The report contains a header block, a grand-totals table, a
// per-subscription breakdown sorted by descending second-period cost,
// summary statistics, and a final month-over-month comparison with a
// directional indicator. Text output is the canonical artifact; a JSON
// format is available for programmatic consumption.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"azure-cost-reconciler/internal/aggregator"
	"azure-cost-reconciler/internal/models"
	"azure-cost-reconciler/internal/reconciler"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format       OutputFormat
	Currency     string
	PeriodALabel string
	PeriodBLabel string

	// SourceDirectory is echoed in the report header.
	SourceDirectory string
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:       FormatText,
		Currency:     models.DefaultCurrency,
		PeriodALabel: "November",
		PeriodBLabel: "December",
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.Currency == "" {
		return fmt.Errorf("currency cannot be empty")
	}
	if c.PeriodALabel == "" || c.PeriodBLabel == "" {
		return fmt.Errorf("period labels cannot be empty")
	}
	return nil
}

// ReportGenerator renders reconciliation results in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the report for a reconciliation result and its
// aggregate summary to the provided writer.
func (rg *ReportGenerator) GenerateReport(result *reconciler.Result, summary *aggregator.Summary, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("reconciliation result cannot be nil")
	}
	if summary == nil {
		return fmt.Errorf("aggregate summary cannot be nil")
	}

	switch rg.config.Format {
	case FormatText, FormatConsole:
		// The console format carries the same content as text; the caller
		// chooses the destination.
		return rg.generateTextReport(result, summary, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, summary, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// sortedRecords returns records ordered by descending period B total, with
// the identifier as a deterministic tie-break.
func sortedRecords(result *reconciler.Result) []*models.SubscriptionRecord {
	records := make([]*models.SubscriptionRecord, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		cmp := records[i].PeriodB.Total.Cmp(records[j].PeriodB.Total)
		if cmp != 0 {
			return cmp > 0
		}
		return records[i].SubscriptionID < records[j].SubscriptionID
	})
	return records
}

func (rg *ReportGenerator) generateTextReport(result *reconciler.Result, summary *aggregator.Summary, writer io.Writer) error {
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(writer, rule)
	fmt.Fprintln(writer, "AZURE AMORTIZED COSTS SUMMARY REPORT")
	fmt.Fprintln(writer, rule)
	fmt.Fprintf(writer, "Generated: %s\n", result.ProcessedAt.Format("2006-01-02 15:04:05"))
	if rg.config.SourceDirectory != "" {
		fmt.Fprintf(writer, "Source Directory: %s\n", rg.config.SourceDirectory)
	}
	fmt.Fprintf(writer, "Total Subscriptions Analyzed: %d\n", summary.SubscriptionCount)
	fmt.Fprintln(writer, rule)
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "GRAND TOTALS - ALL SUBSCRIPTIONS")
	rg.renderGrandTotals(summary, writer)
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "PER-SUBSCRIPTION BREAKDOWN")
	rg.renderBreakdown(result, writer)
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "SUMMARY STATISTICS")
	fmt.Fprintf(writer, "Subscriptions with cost increases:  %d\n", summary.Increased)
	fmt.Fprintf(writer, "Subscriptions with cost decreases:  %d\n", summary.Decreased)
	fmt.Fprintf(writer, "Subscriptions with no change:       %d\n", summary.Unchanged)
	fmt.Fprintf(writer, "Average cost per subscription (%s): %s\n", rg.config.PeriodALabel, rg.formatMoney(summary.PeriodAMean))
	fmt.Fprintf(writer, "Average cost per subscription (%s): %s\n", rg.config.PeriodBLabel, rg.formatMoney(summary.PeriodBMean))
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, rule)
	fmt.Fprintf(writer, "MONTH-OVER-MONTH COMPARISON (%s vs %s)\n", rg.config.PeriodALabel, rg.config.PeriodBLabel)
	fmt.Fprintln(writer, rule)
	fmt.Fprintf(writer, "Total %s Cost:     %s\n", rg.config.PeriodALabel, rg.formatMoney(summary.PeriodATotal))
	fmt.Fprintf(writer, "Total %s Cost:     %s\n", rg.config.PeriodBLabel, rg.formatMoney(summary.PeriodBTotal))
	fmt.Fprintf(writer, "Absolute Change:         %s\n", rg.formatChange(summary.Change))
	fmt.Fprintf(writer, "Percentage Change:       %s\n", FormatSignedPercent(summary.PercentChange))
	fmt.Fprintln(writer)

	switch summary.Direction() {
	case aggregator.DirectionIncreased:
		fmt.Fprintf(writer, "ALERT: Overall costs INCREASED by %s\n", rg.formatMoney(summary.Change.Abs()))
	case aggregator.DirectionDecreased:
		fmt.Fprintf(writer, "Overall costs DECREASED by %s\n", rg.formatMoney(summary.Change.Abs()))
	default:
		fmt.Fprintln(writer, "Overall costs remained UNCHANGED")
	}

	fmt.Fprintln(writer)
	fmt.Fprintln(writer, rule)
	fmt.Fprintln(writer, "END OF REPORT")
	fmt.Fprintln(writer, rule)

	return nil
}

func (rg *ReportGenerator) renderGrandTotals(summary *aggregator.Summary, writer io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.AppendHeader(table.Row{"Period", "Total Cost", "Change", "% Change"})
	t.AppendRow(table.Row{rg.config.PeriodALabel, rg.formatMoney(summary.PeriodATotal), "", ""})
	t.AppendRow(table.Row{
		rg.config.PeriodBLabel,
		rg.formatMoney(summary.PeriodBTotal),
		rg.formatChange(summary.Change),
		FormatSignedPercent(summary.PercentChange),
	})
	t.Render()
}

func (rg *ReportGenerator) renderBreakdown(result *reconciler.Result, writer io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.AppendHeader(table.Row{
		"#", "Subscription",
		rg.config.PeriodALabel, rg.config.PeriodBLabel,
		"Change", "% Change", "Sources",
	})

	for idx, record := range sortedRecords(result) {
		t.AppendRow(table.Row{
			idx + 1,
			record.SubscriptionID,
			rg.formatMoney(record.PeriodA.Total),
			rg.formatMoney(record.PeriodB.Total),
			rg.formatChange(record.Change()),
			FormatSignedPercent(record.PercentChange()),
			describeSources(record),
		})
	}
	t.Render()
}

// describeSources names the files each period total came from.
func describeSources(record *models.SubscriptionRecord) string {
	var parts []string
	if record.PeriodA.SourceFile != "" {
		parts = append(parts, "A: "+filepath.Base(record.PeriodA.SourceFile))
	}
	if record.PeriodB.SourceFile != "" {
		parts = append(parts, "B: "+filepath.Base(record.PeriodB.SourceFile))
	}
	if record.ComparisonFile != "" {
		parts = append(parts, "diff: "+filepath.Base(record.ComparisonFile))
	}
	return strings.Join(parts, ", ")
}

// JSON output

type jsonSubscription struct {
	SubscriptionID string `json:"subscription_id"`
	PeriodA        string `json:"period_a"`
	PeriodB        string `json:"period_b"`
	Change         string `json:"change"`
	PercentChange  string `json:"percent_change"`
	PeriodAFile    string `json:"period_a_file,omitempty"`
	PeriodBFile    string `json:"period_b_file,omitempty"`
	ComparisonFile string `json:"comparison_file,omitempty"`
}

type jsonReport struct {
	GeneratedAt     string              `json:"generated_at"`
	SourceDirectory string              `json:"source_directory,omitempty"`
	Currency        string              `json:"currency"`
	Summary         *aggregator.Summary `json:"summary"`
	Subscriptions   []jsonSubscription  `json:"subscriptions"`
}

func (rg *ReportGenerator) generateJSONReport(result *reconciler.Result, summary *aggregator.Summary, writer io.Writer) error {
	report := jsonReport{
		GeneratedAt:     result.ProcessedAt.Format(time.RFC3339),
		SourceDirectory: rg.config.SourceDirectory,
		Currency:        rg.config.Currency,
		Summary:         summary,
		Subscriptions:   make([]jsonSubscription, 0, len(result.Records)),
	}

	for _, record := range sortedRecords(result) {
		report.Subscriptions = append(report.Subscriptions, jsonSubscription{
			SubscriptionID: record.SubscriptionID,
			PeriodA:        record.PeriodA.Total.StringFixed(2),
			PeriodB:        record.PeriodB.Total.StringFixed(2),
			Change:         record.Change().StringFixed(2),
			PercentChange:  record.PercentChange().StringFixed(2),
			PeriodAFile:    record.PeriodA.SourceFile,
			PeriodBFile:    record.PeriodB.SourceFile,
			ComparisonFile: record.ComparisonFile,
		})
	}

	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Formatting helpers

// formatMoney renders an amount with thousands separators, two decimal
// places and the currency suffix, e.g. "9,499.42 EUR".
func (rg *ReportGenerator) formatMoney(amount decimal.Decimal) string {
	return groupThousands(amount) + " " + rg.config.Currency
}

// formatChange renders a change amount with an explicit sign.
func (rg *ReportGenerator) formatChange(amount decimal.Decimal) string {
	return FormatSignedAmount(amount, rg.config.Currency)
}

// FormatSignedAmount renders an amount with an explicit sign, thousands
// separators and the currency suffix, e.g. "+200.00 EUR".
func FormatSignedAmount(amount decimal.Decimal, currency string) string {
	if amount.IsNegative() {
		return groupThousands(amount) + " " + currency
	}
	return "+" + groupThousands(amount) + " " + currency
}

// FormatSignedPercent renders a percentage with an explicit sign and two
// decimals.
func FormatSignedPercent(percent decimal.Decimal) string {
	if percent.IsNegative() {
		return percent.StringFixed(2) + "%"
	}
	return "+" + percent.StringFixed(2) + "%"
}

// groupThousands formats a decimal to two places with comma separators in
// the integer part.
func groupThousands(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-3:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
