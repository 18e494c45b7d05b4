// Package detector finds reads of process.env in a JavaScript or TypeScript
// syntax tree and reports every key that is not declared in turbo.json.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// KeyPlaceholder is replaced with the offending key when a message is rendered.
const KeyPlaceholder = "{{ envKey }}"

const (
	messageRoot          = KeyPlaceholder + " is not listed as a dependency in the root turbo.json"
	messageProject       = KeyPlaceholder + " is not listed as a dependency in the project turbo.json files"
	messageWorkspace     = KeyPlaceholder + " is not listed as a dependency in the root turbo.json or workspace (%s) turbo.json"
	messageWorkspaceBare = KeyPlaceholder + " is not listed as a dependency in the root turbo.json or workspace turbo.json"
)

// Scope is the workspace that governs a file. A nil *Scope means the root.
type Scope struct {
	Workspace    string // package name
	Dir          string // absolute workspace directory
	ConfigPath   string // workspace turbo.json, empty if it has none
	HasOwnConfig bool
}

// Resolver maps files to scopes.
type Resolver interface {
	// Valid is false when no root configuration exists.
	Valid() bool
	HasAnyWorkspaceConfig() bool
	Resolve(filePath string) *Scope
}

// MembershipTester decides whether a key is declared for a scope. A nil
// scope, or one without its own config, falls back to root declarations.
type MembershipTester interface {
	Declared(scope *Scope, key string) bool
}

// Host bundles what the detector needs from its environment.
type Host struct {
	Resolver Resolver
	Tester   MembershipTester
	Reporter Reporter
	// Cwd is the host's working directory, used when Options.Cwd is empty.
	Cwd string
	// Getwd is the ambient fallback, typically os.Getwd.
	Getwd func() (string, error)
	// Allow, when set, is used instead of compiling Options.AllowList.
	Allow *AllowSet
}

// Diagnostic is one undeclared key at one site.
type Diagnostic struct {
	Node    *sitter.Node
	Key     string
	Message string // template containing KeyPlaceholder
	Line    int    // 1-based
	Column  int    // 1-based
}

// Text renders the message with the key substituted.
func (d Diagnostic) Text() string {
	return strings.ReplaceAll(d.Message, KeyPlaceholder, d.Key)
}

// Reporter receives diagnostics in the order they are found.
type Reporter interface {
	Report(Diagnostic)
}

// ReportFunc adapts a function to Reporter.
type ReportFunc func(Diagnostic)

func (f ReportFunc) Report(d Diagnostic) { f(d) }

// Detector checks one file. Everything it needs is resolved up front.
type Detector struct {
	enabled  bool
	allow    *AllowSet
	scope    *Scope
	message  string
	tester   MembershipTester
	reporter Reporter
}

// New prepares a detector for filePath. Without a precompiled Host.Allow the
// allow list is compiled here, and the returned pattern errors are the
// entries that were dropped; the host decides whether to log them.
// If the resolver has no usable configuration the detector is disabled and
// every visit is a no-op.
func New(filePath string, opts Options, host Host) (*Detector, []PatternError) {
	allow := host.Allow
	var failed []PatternError
	if allow == nil {
		allow, failed = CompileAllowList(opts.AllowList)
	}

	d := &Detector{allow: allow, tester: host.Tester, reporter: host.Reporter}
	if host.Resolver == nil || host.Tester == nil || !host.Resolver.Valid() {
		return d, failed
	}

	cwd := NormalizeCwd(opts.Cwd, host.Cwd, host.Getwd)
	d.scope = host.Resolver.Resolve(filePath)
	d.message = selectMessage(d.scope, host.Resolver.HasAnyWorkspaceConfig(), cwd)
	d.enabled = true
	return d, failed
}

// Enabled reports whether the detector will check anything.
func (d *Detector) Enabled() bool {
	return d.enabled
}

// Scope returns the resolved scope, nil for the root.
func (d *Detector) Scope() *Scope {
	return d.scope
}

// Visit handles one member expression encountered by the tree walk.
func (d *Detector) Visit(node *sitter.Node, source []byte) {
	if !d.enabled {
		return
	}
	for _, c := range Classify(node, source).candidates() {
		d.CheckKey(c.node, c.key)
	}
}

// CheckKey reports key at node unless it is empty, allow-listed or declared.
func (d *Detector) CheckKey(node *sitter.Node, key string) {
	if !d.enabled || key == "" {
		return
	}
	if d.allow.Allowed(key) {
		return
	}
	if d.tester.Declared(d.scope, key) {
		return
	}

	diag := Diagnostic{Node: node, Key: key, Message: d.message}
	if node != nil {
		pos := node.StartPosition()
		diag.Line = int(pos.Row) + 1
		diag.Column = int(pos.Column) + 1
	}
	if d.reporter != nil {
		d.reporter.Report(diag)
	}
}

// Walk visits every member expression under root in document order.
func (d *Detector) Walk(root *sitter.Node, source []byte) {
	if !d.enabled || root == nil {
		return
	}

	cursor := root.Walk()
	defer cursor.Close()

	for {
		node := cursor.Node()
		if node.Kind() == "member_expression" {
			d.Visit(node, source)
		}

		if cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return
			}
		}
	}
}

func selectMessage(scope *Scope, anyWorkspaceConfig bool, cwd string) string {
	if scope != nil && scope.HasOwnConfig {
		if cwd == "" {
			return messageWorkspaceBare
		}
		rel, err := filepath.Rel(cwd, scope.Dir)
		if err != nil {
			return messageWorkspaceBare
		}
		return fmt.Sprintf(messageWorkspace, filepath.ToSlash(rel))
	}
	if anyWorkspaceConfig {
		return messageProject
	}
	return messageRoot
}
