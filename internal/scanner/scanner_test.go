package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path     string
		expected Language
	}{
		{"test.js", LanguageJavaScript},
		{"test.jsx", LanguageJavaScript},
		{"test.mjs", LanguageJavaScript},
		{"test.cjs", LanguageJavaScript},
		{"test.ts", LanguageTypeScript},
		{"test.mts", LanguageTypeScript},
		{"test.tsx", LanguageTSX},
		{"test.go", LanguageGo},
		{"test.py", LanguagePython},
		{"test.txt", LanguageUnknown},
		{"test", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := detectLanguage(tt.path)
			if result != tt.expected {
				t.Errorf("detectLanguage(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	// Create test files
	if err := os.MkdirAll(filepath.Join(tmpDir, "src"), 0755); err != nil {
		t.Fatalf("Failed to create src directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "node_modules"), 0755); err != nil {
		t.Fatalf("Failed to create node_modules directory: %v", err)
	}

	// Create files that should be scanned
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "app.js"), []byte("console.log('test');"), 0644); err != nil {
		t.Fatalf("Failed to write app.js: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "app.go"), []byte("package main"), 0644); err != nil {
		t.Fatalf("Failed to write app.go: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "app.py"), []byte("print('test')"), 0644); err != nil {
		t.Fatalf("Failed to write app.py: %v", err)
	}

	// Create file in excluded directory
	if err := os.WriteFile(filepath.Join(tmpDir, "node_modules", "lib.js"), []byte("module.exports = {};"), 0644); err != nil {
		t.Fatalf("Failed to write lib.js: %v", err)
	}

	// Create file with unsupported extension (should be excluded by whitelist)
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "readme.txt"), []byte("readme content"), 0644); err != nil {
		t.Fatalf("Failed to write readme.txt: %v", err)
	}

	scanner := NewScanner()
	files, err := scanner.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// Should find 3 source files (js, go, py) but not the one in node_modules or unsupported extensions
	if len(files) != 3 {
		t.Errorf("Expected 3 files, got %d", len(files))
	}

	// Check that node_modules is excluded
	for _, file := range files {
		if filepath.Base(filepath.Dir(file.Path)) == "node_modules" {
			t.Error("Files in node_modules should be excluded")
		}
	}
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "test.js"), []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to write test.js: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "test.go"), []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to write test.go: %v", err)
	}

	scanner := NewScanner()
	scanner.SetExcludeGlobs([]string{"*.go"})

	files, err := scanner.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// Should only find .js file
	if len(files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(files))
	}

	if files[0].Language != LanguageJavaScript {
		t.Errorf("Expected JavaScript file, got %v", files[0].Language)
	}
}

func TestScanner_IgnoredFoldersAreMarked(t *testing.T) {
	tmpDir := t.TempDir()

	for _, dir := range []string{"tools/scripts", "apps/web", ".turbo"} {
		if err := os.MkdirAll(filepath.Join(tmpDir, dir), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "tools", "scripts", "seed.js"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write seed.js: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "apps", "web", "index.tsx"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write index.tsx: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".turbo", "cache.js"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write cache.js: %v", err)
	}

	scanner := NewScanner()
	scanner.AddIgnoredFolders([]string{"tools/scripts"})

	files, err := scanner.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}

	for _, file := range files {
		rel, _ := filepath.Rel(tmpDir, file.Path)
		switch filepath.ToSlash(rel) {
		case "tools/scripts/seed.js":
			if !file.InIgnoredPath {
				t.Error("tools/scripts/seed.js should be marked as ignored")
			}
		case "apps/web/index.tsx":
			if file.InIgnoredPath {
				t.Error("apps/web/index.tsx should not be marked as ignored")
			}
			if file.Language != LanguageTSX {
				t.Errorf("Expected tsx, got %v", file.Language)
			}
		default:
			t.Errorf("Unexpected file %s", rel)
		}
	}
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func relPaths(t *testing.T, root string, files []FileInfo) map[string]bool {
	t.Helper()
	out := map[string]bool{}
	for _, file := range files {
		rel, err := filepath.Rel(root, file.Path)
		if err != nil {
			t.Fatalf("Rel failed: %v", err)
		}
		out[filepath.ToSlash(rel)] = file.InIgnoredPath
	}
	return out
}

func TestScanner_RootNamedLikeSkippedDir(t *testing.T) {
	for _, name := range []string{"build", "dist", "out", "bin", "coverage"} {
		t.Run(name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), name)
			writeTree(t, root, "src/a.js", name+"/nested.js")

			files, err := NewScanner().Scan(root)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			got := relPaths(t, root, files)
			if len(got) != 1 {
				t.Fatalf("Expected only src/a.js, got %v", got)
			}
			if _, ok := got["src/a.js"]; !ok {
				t.Errorf("Expected src/a.js to be found, got %v", got)
			}
		})
	}
}

func TestScanner_IgnoredFolderForms(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"config/setup.js",
		"apps/web/config/env.ts",
		"apps/web/src/configs/app.ts",
		"apps/api/scripts/seed.py",
		"apps/web/scripts/seed.js",
		"tools/dev/run.go",
		"tools/prod/run.go",
		"scripts.js",
	)

	s := NewScanner()
	s.AddIgnoredFolders([]string{"config", "apps/*/scripts/", " tools/dev/* "})

	files, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := map[string]bool{
		"config/setup.js":             true,
		"apps/web/config/env.ts":      true,
		"apps/web/src/configs/app.ts": false,
		"apps/api/scripts/seed.py":    true,
		"apps/web/scripts/seed.js":    true,
		"tools/dev/run.go":            true,
		"tools/prod/run.go":           false,
		"scripts.js":                  false,
	}
	if got := relPaths(t, root, files); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestScanner_RelativeGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "apps/web/a.ts", "apps/web/a.test.ts", "packages/ui/b.ts")

	s := NewScanner()
	s.SetExcludeGlobs([]string{"**/*.test.ts", "packages/**"})
	files, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got := relPaths(t, root, files); !reflect.DeepEqual(got, map[string]bool{"apps/web/a.ts": false}) {
		t.Errorf("Unexpected files: %v", got)
	}

	s = NewScanner()
	s.SetIncludeGlobs([]string{"packages/**"})
	files, err = s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got := relPaths(t, root, files); !reflect.DeepEqual(got, map[string]bool{"packages/ui/b.ts": false}) {
		t.Errorf("Unexpected files: %v", got)
	}
}
