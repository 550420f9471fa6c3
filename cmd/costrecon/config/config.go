// Package config builds component configurations from CLI flag values.
package config

import (
	"azure-cost-reconciler/internal/locator"
	"azure-cost-reconciler/internal/reconciler"
	"azure-cost-reconciler/internal/reporter"
)

// CreateNamingProfile builds the naming profile for a run. A profile file,
// when given, is loaded first; explicit --marker and --currency flags then
// override whatever the file (or the defaults) specified.
func CreateNamingProfile(profilePath, marker, currency string) (*locator.NamingProfile, error) {
	profile := locator.DefaultNamingProfile()

	if profilePath != "" {
		loaded, err := locator.LoadNamingProfile(profilePath)
		if err != nil {
			return nil, err
		}
		profile = loaded
	}

	if marker != "" {
		profile.Marker = marker
	}
	if currency != "" {
		profile.Currency = currency
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// CreateReconcilerConfig creates a reconciler configuration
func CreateReconcilerConfig(profile *locator.NamingProfile, showProgress bool) *reconciler.Config {
	config := reconciler.DefaultConfig()

	config.Currency = profile.Currency
	config.ProgressReporting = showProgress

	return config
}

// CreateReportConfig creates a report configuration
func CreateReportConfig(format, sourceDir string, profile *locator.NamingProfile) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	config.Format = reporter.OutputFormat(format)
	config.Currency = profile.Currency
	config.PeriodALabel = profile.PeriodALabel
	config.PeriodBLabel = profile.PeriodBLabel
	config.SourceDirectory = sourceDir

	return config
}
