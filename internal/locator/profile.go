package locator

import (
	"fmt"
	"os"

	"azure-cost-reconciler/internal/models"

	"gopkg.in/yaml.v3"
)

// NamingProfile describes how input files are named. The prefix lists encode
// historical naming drift across exports: each period's structured export may
// be named with any of the listed prefixes, and the first existing candidate
// in list order wins. New aliases are added here, not in lookup code.
type NamingProfile struct {
	// Marker is the case-insensitive substring identifying diff reports.
	Marker string `yaml:"marker"`

	// PeriodAPrefixes and PeriodBPrefixes are probed in order when looking
	// for the structured export of each period.
	PeriodAPrefixes []string `yaml:"period_a_prefixes"`
	PeriodBPrefixes []string `yaml:"period_b_prefixes"`

	// PeriodALabel and PeriodBLabel name the periods in rendered reports.
	PeriodALabel string `yaml:"period_a_label"`
	PeriodBLabel string `yaml:"period_b_label"`

	// Currency is the literal code expected after amounts in diff reports.
	Currency string `yaml:"currency"`
}

// DefaultNamingProfile returns the profile matching current exports.
func DefaultNamingProfile() *NamingProfile {
	return &NamingProfile{
		Marker:          "diff",
		PeriodAPrefixes: []string{"november", "nov", "september", "sept"},
		PeriodBPrefixes: []string{"december", "dec", "october", "oct"},
		PeriodALabel:    "November",
		PeriodBLabel:    "December",
		Currency:        models.DefaultCurrency,
	}
}

// LoadNamingProfile reads a naming profile from a YAML file. Fields left
// empty in the file keep their default values.
func LoadNamingProfile(path string) (*NamingProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read naming profile: %w", err)
	}

	profile := DefaultNamingProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse naming profile: %w", err)
	}

	applyProfileDefaults(profile)

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid naming profile: %w", err)
	}

	return profile, nil
}

func applyProfileDefaults(profile *NamingProfile) {
	defaults := DefaultNamingProfile()
	if profile.Marker == "" {
		profile.Marker = defaults.Marker
	}
	if len(profile.PeriodAPrefixes) == 0 {
		profile.PeriodAPrefixes = defaults.PeriodAPrefixes
	}
	if len(profile.PeriodBPrefixes) == 0 {
		profile.PeriodBPrefixes = defaults.PeriodBPrefixes
	}
	if profile.PeriodALabel == "" {
		profile.PeriodALabel = defaults.PeriodALabel
	}
	if profile.PeriodBLabel == "" {
		profile.PeriodBLabel = defaults.PeriodBLabel
	}
	if profile.Currency == "" {
		profile.Currency = defaults.Currency
	}
}

// Validate validates the naming profile
func (p *NamingProfile) Validate() error {
	if p.Marker == "" {
		return fmt.Errorf("marker cannot be empty")
	}
	if len(p.PeriodAPrefixes) == 0 {
		return fmt.Errorf("at least one period A prefix is required")
	}
	if len(p.PeriodBPrefixes) == 0 {
		return fmt.Errorf("at least one period B prefix is required")
	}
	if p.Currency == "" {
		return fmt.Errorf("currency cannot be empty")
	}
	for _, prefix := range append(append([]string{}, p.PeriodAPrefixes...), p.PeriodBPrefixes...) {
		if prefix == "" {
			return fmt.Errorf("filename prefixes cannot be empty")
		}
	}
	return nil
}
