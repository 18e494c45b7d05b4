// Package workspace loads a turborepo's turbo.json files and answers which
// environment variables each workspace declares.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jenian/envlint/internal/detector"
	"github.com/jenian/envlint/internal/envfile"
)

// Workspace is one package of the monorepo.
type Workspace struct {
	Name       string
	Dir        string // absolute
	RelDir     string // relative to the project root, slash-separated
	ConfigPath string // empty when the workspace has no turbo.json
	Config     *TurboConfig

	pkg *packageJSON
}

// Project is the resolved configuration of one repository. It implements
// detector.Resolver and detector.MembershipTester.
type Project struct {
	Root       string
	RootConfig *TurboConfig
	Workspaces []*Workspace

	logger *log.Logger

	global        []*envMatcher
	shared        []*envMatcher            // root tasks that apply to every workspace
	rootTasks     []*envMatcher            // every root task, used for files outside workspaces
	scoped        map[string][]*envMatcher // workspace name -> its own declarations
	rootFramework *envMatcher
}

// Option configures Load.
type Option func(*Project)

// WithLogger sets the logger used for recoverable problems.
func WithLogger(logger *log.Logger) Option {
	return func(p *Project) {
		p.logger = logger
	}
}

// Load finds the repository root above cwd and reads its configuration.
// A missing root turbo.json is not an error: the project is simply not Valid.
func Load(cwd string, opts ...Option) (*Project, error) {
	p := &Project{scoped: map[string][]*envMatcher{}}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "workspace"})
	}

	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", cwd, err)
	}

	root, ok := findRoot(abs)
	if !ok {
		p.logger.Debug("no turbo.json found", "cwd", abs)
		return p, nil
	}

	rootConfig, err := ReadTurboConfig(filepath.Join(root, ConfigFileName))
	if err != nil {
		return nil, err
	}
	p.Root = root
	p.RootConfig = rootConfig

	rootPkg, err := readPackageJSON(root)
	if err != nil && !os.IsNotExist(err) {
		p.logger.Warn("ignoring root package.json", "err", err)
	}

	patterns, err := workspacePatterns(root, rootPkg)
	if err != nil {
		return nil, err
	}
	dirs, err := expandWorkspaces(root, patterns)
	if err != nil {
		return nil, err
	}
	for _, rel := range dirs {
		p.Workspaces = append(p.Workspaces, p.loadWorkspace(root, rel))
	}

	p.build(rootPkg)
	return p, nil
}

func (p *Project) loadWorkspace(root, rel string) *Workspace {
	dir := filepath.Join(root, filepath.FromSlash(rel))
	ws := &Workspace{Name: filepath.Base(dir), Dir: dir, RelDir: rel}

	pkg, err := readPackageJSON(dir)
	if err != nil {
		p.logger.Warn("ignoring workspace package.json", "workspace", rel, "err", err)
	} else {
		ws.pkg = pkg
		if pkg.Name != "" {
			ws.Name = pkg.Name
		}
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if fileExists(configPath) {
		cfg, err := ReadTurboConfig(configPath)
		if err != nil {
			p.logger.Warn("ignoring workspace turbo.json", "workspace", ws.Name, "err", err)
		} else {
			ws.Config = cfg
			ws.ConfigPath = configPath
		}
	}
	return ws
}

// build precomputes the matchers used by Declared.
func (p *Project) build(rootPkg *packageJSON) {
	cfg := p.RootConfig
	p.global = append(p.global, newEnvMatcher(
		cfg.GlobalEnv,
		cfg.GlobalPassThroughEnv,
		legacyEnv(cfg.GlobalDependencies),
		p.dotEnvKeys(p.Root, cfg.GlobalDotEnv),
	))

	for name, task := range cfg.AllTasks() {
		m := p.taskMatcher(p.Root, task)
		p.rootTasks = append(p.rootTasks, m)

		workspace, _, scoped := strings.Cut(name, "#")
		if !scoped {
			p.shared = append(p.shared, m)
			continue
		}
		// "//#task" is a root-only task
		if workspace != "//" {
			p.scoped[workspace] = append(p.scoped[workspace], m)
		}
	}

	for _, ws := range p.Workspaces {
		if ws.Config != nil {
			for _, task := range ws.Config.AllTasks() {
				p.scoped[ws.Name] = append(p.scoped[ws.Name], p.taskMatcher(ws.Dir, task))
			}
		}
		if fw := inferFrameworkEnv(ws.pkg); len(fw) > 0 {
			p.scoped[ws.Name] = append(p.scoped[ws.Name], newEnvMatcher(fw))
		}
	}

	p.rootFramework = newEnvMatcher(inferFrameworkEnv(rootPkg))
}

func (p *Project) taskMatcher(dir string, task TaskDefinition) *envMatcher {
	return newEnvMatcher(
		task.Env,
		task.PassThroughEnv,
		legacyEnv(task.DependsOn),
		p.dotEnvKeys(dir, task.DotEnv),
	)
}

func (p *Project) dotEnvKeys(dir string, files []string) []string {
	var keys []string
	for _, f := range files {
		path := f
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, filepath.FromSlash(f))
		}
		found, err := envfile.Keys(path)
		if err != nil {
			p.logger.Warn("ignoring dotEnv file", "path", path, "err", err)
			continue
		}
		keys = append(keys, found...)
	}
	return keys
}

// Valid reports whether a root turbo.json was found.
func (p *Project) Valid() bool {
	return p.RootConfig != nil
}

// HasAnyWorkspaceConfig reports whether any workspace has its own turbo.json.
func (p *Project) HasAnyWorkspaceConfig() bool {
	for _, ws := range p.Workspaces {
		if ws.Config != nil {
			return true
		}
	}
	return false
}

// Resolve returns the scope of the deepest workspace containing filePath,
// or nil when the file is outside every workspace.
func (p *Project) Resolve(filePath string) *detector.Scope {
	ws := p.WorkspaceFor(filePath)
	if ws == nil {
		return nil
	}
	return &detector.Scope{
		Workspace:    ws.Name,
		Dir:          ws.Dir,
		ConfigPath:   ws.ConfigPath,
		HasOwnConfig: ws.Config != nil,
	}
}

// WorkspaceFor returns the workspace owning filePath.
func (p *Project) WorkspaceFor(filePath string) *Workspace {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil
	}
	var best *Workspace
	for _, ws := range p.Workspaces {
		rel, err := filepath.Rel(ws.Dir, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if best == nil || len(ws.Dir) > len(best.Dir) {
			best = ws
		}
	}
	return best
}

// Declared reports whether key is a declared input for scope. Global
// declarations apply everywhere; files outside any workspace see every root
// task.
func (p *Project) Declared(scope *detector.Scope, key string) bool {
	if !p.Valid() {
		return false
	}
	if anyDeclares(p.global, key) {
		return true
	}
	if scope == nil {
		return anyDeclares(p.rootTasks, key) || p.rootFramework.match(key)
	}
	return anyDeclares(p.shared, key) || anyDeclares(p.scoped[scope.Workspace], key)
}

func anyDeclares(matchers []*envMatcher, key string) bool {
	for _, m := range matchers {
		if m.match(key) {
			return true
		}
	}
	return false
}
