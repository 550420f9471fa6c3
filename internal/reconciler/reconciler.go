// Package reconciler orchestrates the reconciliation pipeline: it walks the
// discovered diff reports in order, extracts subscription identity and cost
// totals, applies fallback precedence, and accumulates per-subscription
// records keyed by identifier.
package reconciler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"azure-cost-reconciler/internal/extract"
	"azure-cost-reconciler/internal/locator"
	"azure-cost-reconciler/internal/models"
	"azure-cost-reconciler/pkg/logger"

	"github.com/shopspring/decimal"
)

// Config holds configuration options for the reconciliation service
type Config struct {
	// Currency is the presentation currency stamped on every record.
	Currency string

	// ProgressReporting enables interval progress logging during the scan.
	ProgressReporting bool
}

// DefaultConfig returns a default configuration for the reconciliation service
func DefaultConfig() *Config {
	return &Config{
		Currency:          models.DefaultCurrency,
		ProgressReporting: false,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("currency cannot be empty")
	}
	return nil
}

// Request represents a reconciliation request
type Request struct {
	// Root is the directory to scan recursively for diff reports.
	Root string
}

// Validate validates the reconciliation request
func (r *Request) Validate() error {
	if r.Root == "" {
		return fmt.Errorf("root directory is required")
	}
	return nil
}

// Result contains the outcome of a reconciliation run. Records maps
// subscription identifier to its reconciled record; iteration order is not
// meaningful, consumers sort for presentation.
type Result struct {
	Records         map[string]*models.SubscriptionRecord `json:"records"`
	FilesDiscovered int                                   `json:"files_discovered"`
	FilesSkipped    int                                   `json:"files_skipped"`
	ProcessedAt     time.Time                             `json:"processed_at"`
}

// Service reconciles cost exports across two billing periods.
type Service struct {
	locator    *locator.Locator
	structured *extract.StructuredExtractor
	comparison *extract.ComparisonExtractor
	config     *Config
	logger     logger.Logger
}

// NewService creates a reconciliation service. A nil config selects defaults.
func NewService(loc *locator.Locator, config *Config) (*Service, error) {
	if loc == nil {
		return nil, fmt.Errorf("locator is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reconciler configuration: %w", err)
	}

	return &Service{
		locator:    loc,
		structured: extract.NewStructuredExtractor(),
		comparison: extract.NewComparisonExtractor(config.Currency),
		config:     config,
		logger:     logger.GetGlobalLogger().WithComponent("reconciler"),
	}, nil
}

// Reconcile runs the full pipeline over the request's root directory. Every
// discovered diff report is attempted; per-file failures are diagnostics and
// never abort the run. The returned error covers only discovery itself and
// context cancellation.
func (s *Service) Reconcile(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reconciliation request: %w", err)
	}

	files, err := s.locator.Discover(req.Root)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	s.logger.Infof("Found %d files containing %q in filename", len(files), s.locator.Profile().Marker)

	result := &Result{
		Records:         make(map[string]*models.SubscriptionRecord),
		FilesDiscovered: len(files),
		ProcessedAt:     time.Now(),
	}

	var progress *logger.ProgressTracker
	if s.config.ProgressReporting {
		progress = logger.NewProgressTracker(logger.ProgressConfig{
			Operation: "reconcile",
			Total:     int64(len(files)),
			Logger:    s.logger,
		})
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.processComparisonFile(file, result)

		if progress != nil {
			progress.Increment()
		}
	}

	if progress != nil {
		progress.Complete()
	}

	return result, nil
}

// processComparisonFile reconciles a single diff report into the record map.
func (s *Service) processComparisonFile(file string, result *Result) {
	subID, ok := extract.SubscriptionID(filepath.Base(file))
	if !ok {
		s.logger.Warnf("Skipping %s: no subscription ID found", filepath.Base(file))
		result.FilesSkipped++
		return
	}

	log := s.logger.WithFields(logger.Fields{
		"subscription": subID,
		"diff_file":    filepath.Base(file),
	})
	log.Debug("Processing subscription")

	record := s.recordFor(result, subID)
	record.ComparisonFile = file

	// The fallback pair is extracted unconditionally; whether it is used is
	// decided per period below.
	source, target, fallbackOK := s.comparison.TotalsPair(file)

	periodAFile, periodBFile := s.locator.FindPeriodFiles(filepath.Dir(file), subID)

	s.resolvePeriod(&record.PeriodA, periodAFile, source, fallbackOK, log.WithField("period", "A"))
	s.resolvePeriod(&record.PeriodB, periodBFile, target, fallbackOK, log.WithField("period", "B"))
}

// recordFor returns the record for an identifier, creating it on first
// observation. Lookups never create records; only this factory path does.
func (s *Service) recordFor(result *Result, subID string) *models.SubscriptionRecord {
	if record, exists := result.Records[subID]; exists {
		return record
	}
	record := models.NewSubscriptionRecord(subID, s.config.Currency)
	result.Records[subID] = record
	return record
}

// resolvePeriod applies extraction precedence for one period: a structured
// export always outranks the fallback value, and the fallback outranks the
// zero default. The source path is recorded only for structured hits.
func (s *Service) resolvePeriod(period *models.PeriodCost, structuredFile string, fallback decimal.Decimal, fallbackOK bool, log logger.Logger) {
	if structuredFile != "" {
		if total, ok := s.structured.TotalCost(structuredFile); ok {
			period.Total = total
			period.SourceFile = structuredFile
			log.Debugf("Resolved from export %s: %s", filepath.Base(structuredFile), total.StringFixed(2))
			return
		}
	}

	if fallbackOK {
		period.Total = fallback
		period.SourceFile = ""
		log.Debugf("Resolved from diff report: %s", fallback.StringFixed(2))
		return
	}

	log.Debug("No usable value, total stays at zero")
}
