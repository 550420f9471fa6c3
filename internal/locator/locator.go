// Package locator discovers the input artifacts of a reconciliation run: the
// free-text diff reports scattered under a root directory and, per
// subscription, the structured JSON exports sitting next to them.
package locator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"azure-cost-reconciler/pkg/logger"
)

// Locator finds comparison documents and their structured siblings.
type Locator struct {
	profile *NamingProfile
	logger  logger.Logger
}

// NewLocator creates a Locator for the given naming profile. A nil profile
// selects the defaults.
func NewLocator(profile *NamingProfile) (*Locator, error) {
	if profile == nil {
		profile = DefaultNamingProfile()
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid naming profile: %w", err)
	}

	return &Locator{
		profile: profile,
		logger:  logger.GetGlobalLogger().WithComponent("locator"),
	}, nil
}

// Profile returns the naming profile in use.
func (l *Locator) Profile() *NamingProfile {
	return l.profile
}

// Discover recursively walks root and collects every file whose name
// contains the marker substring, case-insensitively. Results are full paths
// in lexicographic order so processing (and any reporting tie-break) is
// deterministic. Unreadable subtrees are logged and skipped.
func (l *Locator) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	marker := strings.ToLower(l.profile.Marker)
	var found []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			l.logger.WithError(walkErr).Warnf("Skipping unreadable path: %s", path)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), marker) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)

	l.logger.WithFields(logger.Fields{
		"root":  root,
		"count": len(found),
	}).Debug("Discovered comparison documents")

	return found, nil
}

// FindPeriodFiles probes dir for the structured exports of both periods for
// the given subscription identifier. Candidates are checked in profile
// priority order and the first existing path wins per period; an empty
// string means no candidate exists. Multiple candidates are never merged.
func (l *Locator) FindPeriodFiles(dir, subscriptionID string) (periodA, periodB string) {
	periodA = l.firstExisting(dir, l.profile.PeriodAPrefixes, subscriptionID)
	periodB = l.firstExisting(dir, l.profile.PeriodBPrefixes, subscriptionID)
	return periodA, periodB
}

func (l *Locator) firstExisting(dir string, prefixes []string, subscriptionID string) string {
	for _, prefix := range prefixes {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, subscriptionID))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
