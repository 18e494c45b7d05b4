package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

type packageJSON struct {
	Name            string            `json:"name"`
	Workspaces      json.RawMessage   `json:"workspaces"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (p *packageJSON) hasDependency(name string) bool {
	if _, ok := p.Dependencies[name]; ok {
		return true
	}
	_, ok := p.DevDependencies[name]
	return ok
}

// workspaceGlobs handles both the array form and the yarn {packages: []} form.
func (p *packageJSON) workspaceGlobs() []string {
	if len(p.Workspaces) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(p.Workspaces, &list); err == nil {
		return list
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(p.Workspaces, &obj); err == nil {
		return obj.Packages
	}
	return nil
}

type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

func readPackageJSON(dir string) (*packageJSON, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Join(dir, "package.json"), err)
	}
	return &pkg, nil
}

// workspacePatterns returns the workspace globs declared at root, preferring
// pnpm-workspace.yaml over package.json.
func workspacePatterns(root string, rootPkg *packageJSON) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, "pnpm-workspace.yaml"))
	if err == nil {
		var ws pnpmWorkspace
		if err := yaml.Unmarshal(data, &ws); err != nil {
			return nil, fmt.Errorf("failed to parse pnpm-workspace.yaml: %w", err)
		}
		return ws.Packages, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read pnpm-workspace.yaml: %w", err)
	}
	if rootPkg == nil {
		return nil, nil
	}
	return rootPkg.workspaceGlobs(), nil
}

// expandWorkspaces resolves globs to workspace directories (relative,
// slash-separated, sorted). Only directories holding a package.json count.
func expandWorkspaces(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	var include, exclude []string
	for _, p := range patterns {
		p = strings.TrimPrefix(strings.TrimSpace(p), "./")
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			exclude = append(exclude, strings.TrimPrefix(strings.TrimPrefix(p, "!"), "./"))
			continue
		}
		include = append(include, strings.TrimSuffix(p, "/"))
	}

	seen := map[string]bool{}
	var dirs []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || strings.Contains("/"+m+"/", "/node_modules/") {
				continue
			}
			if excluded(m, exclude) {
				continue
			}
			if info, err := os.Stat(filepath.Join(root, m, "package.json")); err != nil || info.IsDir() {
				continue
			}
			seen[m] = true
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func excluded(dir string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/"), dir); ok {
			return true
		}
		if ok, _ := doublestar.Match(path.Join(p, "**"), dir); ok {
			return true
		}
	}
	return false
}

// findRoot walks up from start to the nearest turbo.json that does not
// extend another one. Failing that, the topmost turbo.json seen is used.
func findRoot(start string) (string, bool) {
	dir := start
	var candidate string
	for {
		if fileExists(filepath.Join(dir, ConfigFileName)) {
			candidate = dir
			// A workspace turbo.json extends the root one; keep looking.
			if cfg, err := ReadTurboConfig(filepath.Join(dir, ConfigFileName)); err == nil && len(cfg.Extends) == 0 {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return candidate, candidate != ""
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
