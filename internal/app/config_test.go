package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeThresholdsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write thresholds file: %v", err)
	}
	return path
}

func TestLoadThresholdsFile(t *testing.T) {
	path := writeThresholdsFile(t, "approaching_percent: 80\noverrun_percent: 110\n")
	got, err := loadThresholdsFile(path)
	if err != nil {
		t.Fatalf("loadThresholdsFile: %v", err)
	}
	if got.ApproachingPercent != 80 || got.OverrunPercent != 110 {
		t.Fatalf("thresholds = %+v, want 80/110", got)
	}
}

func TestLoadThresholdsFilePartial(t *testing.T) {
	// Missing or non-positive values keep the built-in defaults.
	path := writeThresholdsFile(t, "approaching_percent: 85\noverrun_percent: -5\n")
	got, err := loadThresholdsFile(path)
	if err != nil {
		t.Fatalf("loadThresholdsFile: %v", err)
	}
	if got.ApproachingPercent != 85 || got.OverrunPercent != 100 {
		t.Fatalf("thresholds = %+v, want 85/100", got)
	}
}

func TestLoadThresholdsFileErrors(t *testing.T) {
	if _, err := loadThresholdsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeThresholdsFile(t, "approaching_percent: [not a number\n")
	if _, err := loadThresholdsFile(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
