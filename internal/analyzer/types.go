package analyzer

// Finding is one undeclared environment variable read
type Finding struct {
	Key           string // The environment variable key
	File          string // File path relative to the scan root
	Line          int    // Line number where it's used (1-based)
	Column        int    // Column where the read starts (1-based)
	Message       string // Rendered diagnostic message
	CodeSnippet   string // Code snippet from the line where it's used
	Workspace     string // Owning workspace, empty for the root
	InIgnoredPath bool   // True if this finding is in a folder that should be ignored
}

// ScanResult contains the complete analysis results
type ScanResult struct {
	Findings           []Finding            // Reported findings in scan order
	Undeclared         map[string][]Finding // Reported findings grouped by key
	FilesChecked       int                  // Number of files analysed
	IgnoredMissing     int                  // Findings dropped because the key is ignored via config
	IgnoredFromFolders int                  // Findings dropped because they are in ignored folders
}
