package analyzer

import (
	"testing"

	"github.com/jenian/envlint/internal/config"
)

func TestAnalyze_GroupsByKey(t *testing.T) {
	findings := []Finding{
		{Key: "STRIPE_KEY", File: "apps/web/payments.js", Line: 10},
		{Key: "DATABASE_URL", File: "apps/api/db.ts", Line: 20},
		{Key: "STRIPE_KEY", File: "apps/web/checkout.js", Line: 3},
	}

	result := Analyze(findings, 3, &config.Config{})

	if len(result.Undeclared) != 2 {
		t.Errorf("Expected 2 undeclared keys, got %d", len(result.Undeclared))
	}
	if got := len(result.Undeclared["STRIPE_KEY"]); got != 2 {
		t.Errorf("Expected 2 STRIPE_KEY findings, got %d", got)
	}
	if len(result.Findings) != 3 {
		t.Errorf("Expected 3 findings, got %d", len(result.Findings))
	}
	if result.FilesChecked != 3 {
		t.Errorf("Expected 3 files checked, got %d", result.FilesChecked)
	}
}

func TestAnalyze_KeepsScanOrder(t *testing.T) {
	findings := []Finding{
		{Key: "B", File: "a.js", Line: 1},
		{Key: "A", File: "a.js", Line: 2},
		{Key: "B", File: "b.js", Line: 1},
	}

	result := Analyze(findings, 2, nil)

	want := []string{"B", "A", "B"}
	for i, f := range result.Findings {
		if f.Key != want[i] {
			t.Errorf("Findings[%d].Key = %s, want %s", i, f.Key, want[i])
		}
	}
	if result.Undeclared["B"][1].File != "b.js" {
		t.Errorf("Expected second B finding from b.js, got %s", result.Undeclared["B"][1].File)
	}
}

func TestAnalyze_NoIssues(t *testing.T) {
	result := Analyze(nil, 5, &config.Config{})

	if len(result.Undeclared) != 0 {
		t.Errorf("Expected no undeclared keys, got %d", len(result.Undeclared))
	}
	if result.Findings == nil {
		t.Error("Findings should be an empty slice, not nil")
	}
}

func TestAnalyze_IgnoredMissing(t *testing.T) {
	findings := []Finding{
		{Key: "STRIPE_KEY", File: "payments.js", Line: 10},
		{Key: "CUSTOM_VAR", File: "custom.js", Line: 5},
		{Key: "CUSTOM_VAR", File: "other.js", Line: 7},
	}

	cfg := &config.Config{
		Ignores: config.IgnoresConfig{
			Missing: []string{"CUSTOM_VAR"},
		},
	}

	result := Analyze(findings, 3, cfg)

	if len(result.Undeclared) != 1 {
		t.Errorf("Expected 1 undeclared key, got %d", len(result.Undeclared))
	}
	if _, ok := result.Undeclared["CUSTOM_VAR"]; ok {
		t.Error("CUSTOM_VAR should be ignored, not reported")
	}
	if result.IgnoredMissing != 2 {
		t.Errorf("Expected 2 ignored findings, got %d", result.IgnoredMissing)
	}
}

func TestAnalyze_IgnoredFolders(t *testing.T) {
	findings := []Finding{
		{Key: "API_KEY", File: "scripts/seed.js", Line: 1, InIgnoredPath: true},
		{Key: "API_KEY", File: "apps/web/index.js", Line: 4},
	}

	result := Analyze(findings, 2, &config.Config{})

	if result.IgnoredFromFolders != 1 {
		t.Errorf("Expected 1 finding from ignored folders, got %d", result.IgnoredFromFolders)
	}
	if got := len(result.Undeclared["API_KEY"]); got != 1 {
		t.Errorf("Expected 1 reported API_KEY finding, got %d", got)
	}
}
