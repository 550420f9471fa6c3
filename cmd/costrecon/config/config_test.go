package config

import (
	"os"
	"path/filepath"
	"testing"

	"azure-cost-reconciler/internal/reporter"
)

func TestCreateNamingProfile_Defaults(t *testing.T) {
	profile, err := CreateNamingProfile("", "", "")
	if err != nil {
		t.Fatalf("CreateNamingProfile() error: %v", err)
	}

	if profile.Marker != "diff" {
		t.Errorf("marker = %q, want diff", profile.Marker)
	}
	if profile.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", profile.Currency)
	}
}

func TestCreateNamingProfile_FlagOverrides(t *testing.T) {
	profile, err := CreateNamingProfile("", "compare", "USD")
	if err != nil {
		t.Fatalf("CreateNamingProfile() error: %v", err)
	}

	if profile.Marker != "compare" {
		t.Errorf("marker = %q, want compare", profile.Marker)
	}
	if profile.Currency != "USD" {
		t.Errorf("currency = %q, want USD", profile.Currency)
	}
	// Prefix lists keep their defaults.
	if len(profile.PeriodAPrefixes) != 4 {
		t.Errorf("period A prefixes = %v, want defaults", profile.PeriodAPrefixes)
	}
}

func TestCreateNamingProfile_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "marker: report\ncurrency: GBP\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	profile, err := CreateNamingProfile(path, "", "SEK")
	if err != nil {
		t.Fatalf("CreateNamingProfile() error: %v", err)
	}

	if profile.Marker != "report" {
		t.Errorf("marker = %q, want report from file", profile.Marker)
	}
	if profile.Currency != "SEK" {
		t.Errorf("currency = %q, want SEK flag to override file", profile.Currency)
	}
}

func TestCreateNamingProfile_MissingFile(t *testing.T) {
	if _, err := CreateNamingProfile(filepath.Join(t.TempDir(), "absent.yaml"), "", ""); err == nil {
		t.Error("expected error for missing profile file")
	}
}

func TestCreateReconcilerConfig(t *testing.T) {
	profile, err := CreateNamingProfile("", "", "USD")
	if err != nil {
		t.Fatalf("CreateNamingProfile() error: %v", err)
	}

	config := CreateReconcilerConfig(profile, true)
	if config.Currency != "USD" {
		t.Errorf("currency = %q, want USD", config.Currency)
	}
	if !config.ProgressReporting {
		t.Error("expected progress reporting to be enabled")
	}
}

func TestCreateReportConfig(t *testing.T) {
	profile, err := CreateNamingProfile("", "", "")
	if err != nil {
		t.Fatalf("CreateNamingProfile() error: %v", err)
	}

	config := CreateReportConfig("json", "/data/finops", profile)
	if config.Format != reporter.FormatJSON {
		t.Errorf("format = %q, want json", config.Format)
	}
	if config.SourceDirectory != "/data/finops" {
		t.Errorf("source directory = %q", config.SourceDirectory)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("generated config must validate: %v", err)
	}
}
