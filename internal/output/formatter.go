package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jenian/envlint/internal/analyzer"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

const maxSnippet = 80

// Options controls how results are rendered.
type Options struct {
	JSON     bool
	Silent   bool
	NoHeader bool
}

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Undeclared         []UndeclaredVar `json:"undeclared"`
	FilesChecked       int             `json:"files_checked"`
	IgnoredMissing     int             `json:"ignored_missing"`
	IgnoredFromFolders int             `json:"ignored_from_folders"`
}

// UndeclaredVar is one key with every place it is read
type UndeclaredVar struct {
	Key       string     `json:"key"`
	Locations []Location `json:"locations"`
}

// Location is a single undeclared read
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Workspace string `json:"workspace,omitempty"`
	Message   string `json:"message"`
	Snippet   string `json:"snippet,omitempty"`
}

// Format writes the scan results to w according to opts
func Format(w io.Writer, result analyzer.ScanResult, opts Options) error {
	if opts.Silent {
		// In silent mode, only the exit code matters (handled by caller)
		return nil
	}
	if opts.JSON {
		return formatJSON(w, result)
	}
	return formatHumanReadable(w, result, opts, colorSupported(w))
}

// colorSupported reports whether w is a terminal that understands ANSI codes
func colorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return enableANSI(f)
}

// sortedKeys returns the undeclared keys in alphabetical order
func sortedKeys(result analyzer.ScanResult) []string {
	keys := make([]string, 0, len(result.Undeclared))
	for key := range result.Undeclared {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatJSON(w io.Writer, result analyzer.ScanResult) error {
	out := JSONOutput{
		Undeclared:         []UndeclaredVar{},
		FilesChecked:       result.FilesChecked,
		IgnoredMissing:     result.IgnoredMissing,
		IgnoredFromFolders: result.IgnoredFromFolders,
	}

	for _, key := range sortedKeys(result) {
		findings := result.Undeclared[key]
		locations := make([]Location, 0, len(findings))
		for _, f := range findings {
			locations = append(locations, Location{
				File:      f.File,
				Line:      f.Line,
				Column:    f.Column,
				Workspace: f.Workspace,
				Message:   f.Message,
				Snippet:   f.CodeSnippet,
			})
		}
		out.Undeclared = append(out.Undeclared, UndeclaredVar{Key: key, Locations: locations})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

type printer struct {
	w     io.Writer
	color bool
	err   error
}

func (p *printer) c(code string) string {
	if p.color {
		return code
	}
	return ""
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func formatHumanReadable(w io.Writer, result analyzer.ScanResult, opts Options, color bool) error {
	p := &printer{w: w, color: color}

	if !opts.NoHeader {
		p.printf("%senvlint%s checked %d file(s)\n\n", p.c(colorBold), p.c(colorReset), result.FilesChecked)
	}

	if len(result.Undeclared) > 0 {
		p.printf("%s%sUndeclared environment variables:%s\n\n", p.c(colorBold), p.c(colorRed), p.c(colorReset))

		for _, key := range sortedKeys(result) {
			p.printf("  %s%s%s\n", p.c(colorRed), key, p.c(colorReset))
			for _, f := range result.Undeclared[key] {
				filePath := f.File
				if filePath == "" {
					filePath = "<unknown>"
				}
				p.printf("    %sused in:%s %s%s%s:%s%d:%d%s",
					p.c(colorGray), p.c(colorReset),
					p.c(colorCyan), filePath, p.c(colorReset),
					p.c(colorYellow), f.Line, f.Column, p.c(colorReset))
				if f.CodeSnippet != "" {
					p.printf(" %s%s%s", p.c(colorGray), truncate(f.CodeSnippet), p.c(colorReset))
				}
				p.printf("\n")
				if f.Message != "" {
					p.printf("      %s%s%s\n", p.c(colorGray), f.Message, p.c(colorReset))
				}
			}
			p.printf("\n")
		}
	}

	if result.IgnoredMissing > 0 {
		p.printf("%s%sNote:%s %d undeclared read(s) were ignored (configured in .envlint.yaml)\n",
			p.c(colorGray), p.c(colorBold), p.c(colorReset), result.IgnoredMissing)
	}
	if result.IgnoredFromFolders > 0 {
		p.printf("%s%sNote:%s %d undeclared read(s) in ignored folders were excluded (configured in .envlint.yaml)\n",
			p.c(colorGray), p.c(colorBold), p.c(colorReset), result.IgnoredFromFolders)
	}
	if result.IgnoredMissing > 0 || result.IgnoredFromFolders > 0 {
		p.printf("\n")
	}

	if !HasIssues(result) {
		ignored := ignoredSummary(result)
		if ignored != "" {
			p.printf("%s%s✓ No issues found (excluding %s).%s\n", p.c(colorGreen), p.c(colorBold), ignored, p.c(colorReset))
		} else {
			p.printf("%s%s✓ No issues found. Every environment read is declared in turbo.json.%s\n", p.c(colorGreen), p.c(colorBold), p.c(colorReset))
		}
	}

	return p.err
}

func ignoredSummary(result analyzer.ScanResult) string {
	var parts []string
	if result.IgnoredMissing > 0 {
		parts = append(parts, fmt.Sprintf("%d ignored via config", result.IgnoredMissing))
	}
	if result.IgnoredFromFolders > 0 {
		parts = append(parts, fmt.Sprintf("%d from ignored folders", result.IgnoredFromFolders))
	}
	return strings.Join(parts, ", ")
}

func truncate(snippet string) string {
	if len(snippet) > maxSnippet {
		return snippet[:maxSnippet-3] + "..."
	}
	return snippet
}

// HasIssues returns true if any undeclared read survived the ignore rules
func HasIssues(result analyzer.ScanResult) bool {
	return len(result.Undeclared) > 0
}

// FormatError formats an error message
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err)
}
