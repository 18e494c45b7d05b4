package scanner

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Language represents a programming language
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageUnknown    Language = "unknown"
)

// FileInfo contains information about a file to be scanned
type FileInfo struct {
	Path     string
	Language Language
	// InIgnoredPath marks files under a configured ignored folder. They are
	// still checked, and their findings are counted instead of reported.
	InIgnoredPath bool
}

// Build output, dependencies and tool caches. These are never walked below
// the scan root.
var defaultSkipDirs = []string{
	"node_modules", "vendor", ".git", ".turbo", ".next", ".cache",
	"build", "dist", "out", "bin", "coverage",
}

// Scanner finds the source files of a repository
type Scanner struct {
	skipDirs       map[string]bool
	ignoredFolders []string
	excludeGlobs   []string
	includeGlobs   []string
}

// NewScanner creates a scanner that skips the default directories
func NewScanner() *Scanner {
	s := &Scanner{skipDirs: make(map[string]bool, len(defaultSkipDirs))}
	for _, dir := range defaultSkipDirs {
		s.skipDirs[dir] = true
	}
	return s
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// SetIncludeGlobs sets glob patterns to include (overrides excludes)
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// AddIgnoredFolders registers folders whose files are checked but marked.
// A bare name ("scripts") matches a directory of that name at any depth.
// A path ("tools/dev", "apps/*/scripts") is matched from the scan root.
func (s *Scanner) AddIgnoredFolders(folders []string) {
	for _, folder := range folders {
		folder = strings.Trim(filepath.ToSlash(strings.TrimSpace(folder)), "/")
		folder = strings.TrimSuffix(folder, "/*")
		if folder == "" || folder == "." {
			continue
		}
		s.ignoredFolders = append(s.ignoredFolders, folder)
	}
}

// detectLanguage determines the language from file extension
func detectLanguage(name string) Language {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".rs":
		return LanguageRust
	case ".java":
		return LanguageJava
	default:
		return LanguageUnknown
	}
}

// matchesGlob tries each pattern against the base name and the
// slash-separated path relative to the scan root, so "**/*.test.ts" works.
func matchesGlob(rel string, globs []string) bool {
	base := path.Base(rel)
	for _, glob := range globs {
		if matched, _ := doublestar.Match(glob, base); matched {
			return true
		}
		if matched, _ := doublestar.Match(glob, rel); matched {
			return true
		}
	}
	return false
}

// shouldInclude applies include globs first, then exclude globs
func (s *Scanner) shouldInclude(rel string) bool {
	if len(s.includeGlobs) > 0 {
		return matchesGlob(rel, s.includeGlobs)
	}
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(rel, s.excludeGlobs)
	}
	return true
}

// inIgnoredFolder reports whether the file at rel (relative to the scan
// root, slash-separated) sits below one of the ignored folders.
func (s *Scanner) inIgnoredFolder(rel string) bool {
	dir := path.Dir(rel)
	if dir == "." || len(s.ignoredFolders) == 0 {
		return false
	}
	segments := strings.Split(dir, "/")

	for _, folder := range s.ignoredFolders {
		if !strings.Contains(folder, "/") {
			for _, seg := range segments {
				if matched, _ := doublestar.Match(folder, seg); matched {
					return true
				}
			}
			continue
		}
		for i := 1; i <= len(segments); i++ {
			if matched, _ := doublestar.Match(folder, strings.Join(segments[:i], "/")); matched {
				return true
			}
		}
	}
	return false
}

// Scan recursively walks rootPath and returns the files to check in walk
// order. rootPath itself is always walked, even when its name is one of the
// skipped directories.
func (s *Scanner) Scan(rootPath string) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(rootPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(rootPath, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && s.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		lang := detectLanguage(p)
		if lang == LanguageUnknown || !s.shouldInclude(rel) {
			return nil
		}

		files = append(files, FileInfo{
			Path:          p,
			Language:      lang,
			InIgnoredPath: s.inIgnoredFolder(rel),
		})
		return nil
	})

	return files, err
}
