package analyzer

import (
	"github.com/jenian/envlint/internal/config"
)

// Analyze groups findings by key and applies the ignore rules from cfg.
// findings must already be in scan order; that order is kept.
func Analyze(findings []Finding, filesChecked int, cfg *config.Config) ScanResult {
	result := ScanResult{
		Findings:     []Finding{},
		Undeclared:   make(map[string][]Finding),
		FilesChecked: filesChecked,
	}

	for _, f := range findings {
		// Findings in ignored folders are counted but not reported
		if f.InIgnoredPath {
			result.IgnoredFromFolders++
			continue
		}

		// Check if this variable should be ignored via config
		if cfg != nil && cfg.ShouldIgnoreMissing(f.Key) {
			result.IgnoredMissing++
			continue
		}

		result.Findings = append(result.Findings, f)
		result.Undeclared[f.Key] = append(result.Undeclared[f.Key], f)
	}

	return result
}
