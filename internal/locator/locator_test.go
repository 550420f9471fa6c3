package locator

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testSubID = "1111aaaa-2222-bbbb-3333-ccccdddd4444"

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestLocator_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	mustWrite(t, filepath.Join(tmpDir, "b-diff.txt"))
	mustWrite(t, filepath.Join(tmpDir, "sub1", "a-DIFF-report.md"))
	mustWrite(t, filepath.Join(tmpDir, "sub1", "november-"+testSubID+".json"))
	mustWrite(t, filepath.Join(tmpDir, "sub2", "nested", "cost-Diff.txt"))
	mustWrite(t, filepath.Join(tmpDir, "sub2", "readme.txt"))

	loc, err := NewLocator(nil)
	if err != nil {
		t.Fatalf("NewLocator() error: %v", err)
	}

	files, err := loc.Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{
		filepath.Join(tmpDir, "b-diff.txt"),
		filepath.Join(tmpDir, "sub1", "a-DIFF-report.md"),
		filepath.Join(tmpDir, "sub2", "nested", "cost-Diff.txt"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Discover() = %v, want %v", files, want)
	}
}

func TestLocator_DiscoverDeterministic(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"z-diff.txt", "a-diff.txt", "m-diff.txt"} {
		mustWrite(t, filepath.Join(tmpDir, name))
	}

	loc, err := NewLocator(nil)
	if err != nil {
		t.Fatalf("NewLocator() error: %v", err)
	}

	first, err := loc.Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	second, err := loc.Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated discovery differs: %v vs %v", first, second)
	}
	if !sortedAscending(first) {
		t.Errorf("discovery result is not sorted: %v", first)
	}
}

func sortedAscending(paths []string) bool {
	for i := 1; i < len(paths); i++ {
		if paths[i-1] > paths[i] {
			return false
		}
	}
	return true
}

func TestLocator_DiscoverMissingRoot(t *testing.T) {
	loc, err := NewLocator(nil)
	if err != nil {
		t.Fatalf("NewLocator() error: %v", err)
	}

	if _, err := loc.Discover(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestLocator_FindPeriodFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		periodA string
		periodB string
	}{
		{
			name:    "primary names",
			files:   []string{"november-" + testSubID + ".json", "december-" + testSubID + ".json"},
			periodA: "november-" + testSubID + ".json",
			periodB: "december-" + testSubID + ".json",
		},
		{
			name:    "alias names",
			files:   []string{"sept-" + testSubID + ".json", "oct-" + testSubID + ".json"},
			periodA: "sept-" + testSubID + ".json",
			periodB: "oct-" + testSubID + ".json",
		},
		{
			name: "primary outranks alias",
			files: []string{
				"november-" + testSubID + ".json",
				"nov-" + testSubID + ".json",
				"september-" + testSubID + ".json",
			},
			periodA: "november-" + testSubID + ".json",
		},
		{
			name:    "alias order respected",
			files:   []string{"nov-" + testSubID + ".json", "september-" + testSubID + ".json"},
			periodA: "nov-" + testSubID + ".json",
		},
		{
			name:  "other subscription does not match",
			files: []string{"november-99999999-8888-7777-6666-555555555555.json"},
		},
		{
			name: "no candidates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for _, name := range tt.files {
				mustWrite(t, filepath.Join(tmpDir, name))
			}

			loc, err := NewLocator(nil)
			if err != nil {
				t.Fatalf("NewLocator() error: %v", err)
			}

			gotA, gotB := loc.FindPeriodFiles(tmpDir, testSubID)

			wantA, wantB := "", ""
			if tt.periodA != "" {
				wantA = filepath.Join(tmpDir, tt.periodA)
			}
			if tt.periodB != "" {
				wantB = filepath.Join(tmpDir, tt.periodB)
			}

			if gotA != wantA {
				t.Errorf("period A = %q, want %q", gotA, wantA)
			}
			if gotB != wantB {
				t.Errorf("period B = %q, want %q", gotB, wantB)
			}
		})
	}
}
