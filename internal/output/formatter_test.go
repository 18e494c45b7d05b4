package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/jenian/envlint/internal/analyzer"
)

var snapshotter = cupaloy.New(cupaloy.FailOnUpdate(false))

func sampleResult() analyzer.ScanResult {
	findings := []analyzer.Finding{
		{
			Key: "STRIPE_KEY", File: "apps/web/pay.js", Line: 3, Column: 15, Workspace: "web",
			Message:     "STRIPE_KEY is not listed as a dependency in the root turbo.json or workspace (apps/web) turbo.json",
			CodeSnippet: "const key = process.env.STRIPE_KEY;",
		},
		{
			Key: "API_URL", File: "packages/ui/client.ts", Line: 1, Column: 1, Workspace: "ui",
			Message: "API_URL is not listed as a dependency in the project turbo.json files",
		},
		{
			Key: "STRIPE_KEY", File: "apps/web/checkout.js", Line: 8, Column: 9, Workspace: "web",
			Message:     "STRIPE_KEY is not listed as a dependency in the root turbo.json or workspace (apps/web) turbo.json",
			CodeSnippet: "const { STRIPE_KEY } = process.env;",
		},
	}
	result := analyzer.Analyze(findings, 4, nil)
	result.IgnoredMissing = 1
	return result
}

func TestFormat_HumanReadable(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, sampleResult(), Options{}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Error("Expected no color codes when writing to a buffer")
	}
	if strings.Index(out, "API_URL") > strings.Index(out, "STRIPE_KEY") {
		t.Error("Expected keys in alphabetical order")
	}
	if strings.Index(out, "apps/web/pay.js") > strings.Index(out, "apps/web/checkout.js") {
		t.Error("Expected locations in scan order")
	}
	snapshotter.SnapshotT(t, out)
}

func TestFormat_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, sampleResult(), Options{NoHeader: true}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(buf.String(), "checked 4 file(s)") {
		t.Error("Header should be suppressed")
	}
}

func TestFormat_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, analyzer.Analyze(nil, 2, nil), Options{NoHeader: true}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found.") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestFormat_NoIssuesWithIgnored(t *testing.T) {
	result := analyzer.Analyze(nil, 2, nil)
	result.IgnoredFromFolders = 3

	var buf bytes.Buffer
	if err := Format(&buf, result, Options{NoHeader: true}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), "excluding 3 from ignored folders") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestFormat_Silent(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, sampleResult(), Options{Silent: true}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output in silent mode, got %q", buf.String())
	}
}

func TestFormat_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, sampleResult(), Options{JSON: true}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(out.Undeclared) != 2 {
		t.Fatalf("Expected 2 keys, got %d", len(out.Undeclared))
	}
	if out.Undeclared[0].Key != "API_URL" || out.Undeclared[1].Key != "STRIPE_KEY" {
		t.Errorf("Unexpected key order: %+v", out.Undeclared)
	}
	if got := out.Undeclared[1].Locations[1]; got.File != "apps/web/checkout.js" || got.Line != 8 || got.Column != 9 {
		t.Errorf("Unexpected location: %+v", got)
	}
	if out.FilesChecked != 4 || out.IgnoredMissing != 1 {
		t.Errorf("Unexpected counters: %+v", out)
	}
}

func TestHasIssues(t *testing.T) {
	if HasIssues(analyzer.Analyze(nil, 1, nil)) {
		t.Error("Empty result should have no issues")
	}
	if !HasIssues(sampleResult()) {
		t.Error("Expected issues")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 100)
	if got := truncate(long); len(got) != maxSnippet || !strings.HasSuffix(got, "...") {
		t.Errorf("Unexpected truncation: %q", got)
	}
	if got := truncate("short"); got != "short" {
		t.Errorf("Short snippets should be unchanged, got %q", got)
	}
}

func TestFormatError(t *testing.T) {
	if got := FormatError(errors.New("boom")); got != "Error: boom\n" {
		t.Errorf("Unexpected error format: %q", got)
	}
}
