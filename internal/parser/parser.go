package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jenian/envlint/internal/analyzer"
	"github.com/jenian/envlint/internal/detector"
	"github.com/jenian/envlint/internal/languages"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser handles Tree-Sitter parsing of source files
type Parser struct {
	languages map[string]*sitter.Language
	mu        sync.RWMutex
	loader    LanguageLoader
	logger    *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLanguageLoader replaces the grammar loader.
func WithLanguageLoader(loader LanguageLoader) Option {
	return func(p *Parser) {
		p.loader = loader
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new parser instance
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		languages: make(map[string]*sitter.Language),
		loader:    &DefaultLanguageLoader{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "parser", Level: log.WarnLevel})
	}
	return p
}

// getLanguage returns a language grammar for the given language, loading it if needed
func (p *Parser) getLanguage(lang string) (*sitter.Language, error) {
	p.mu.RLock()
	if language, ok := p.languages[lang]; ok {
		p.mu.RUnlock()
		return language, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if language, ok := p.languages[lang]; ok {
		return language, nil
	}

	language, err := loadLanguage(p.loader, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
	}

	p.languages[lang] = language
	return language, nil
}

// CheckFile parses one file and reports every undeclared environment read.
// scanRoot is used to make reported paths relative. Hosts should pass a
// precompiled host.Allow; compile errors are theirs to log.
func (p *Parser) CheckFile(filePath string, lang string, scanRoot string, opts detector.Options, host detector.Host) ([]analyzer.Finding, error) {
	var diags []detector.Diagnostic
	host.Reporter = detector.ReportFunc(func(d detector.Diagnostic) {
		diags = append(diags, d)
	})

	d, _ := detector.New(filePath, opts, host)
	if !d.Enabled() {
		return nil, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	language, err := p.getLanguage(lang)
	if err != nil {
		p.logger.Debug("failed to load language", "file", filePath, "lang", lang, "err", err)
		return nil, err
	}

	// Create a new parser for each file to avoid CGO concurrency issues
	// Tree-sitter parsers are not thread-safe when used concurrently
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	if err := tsParser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	tree := tsParser.Parse(content, nil)
	if tree == nil {
		p.logger.Debug("parse returned nil tree", "file", filePath, "lang", lang)
		return nil, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	if structural(lang) {
		d.Walk(root, content)
	} else if err := p.runQuery(d, language, lang, root, content); err != nil {
		return nil, err
	}

	relPath := relativePath(scanRoot, filePath)
	workspace := ""
	if scope := d.Scope(); scope != nil {
		workspace = scope.Workspace
	}

	findings := make([]analyzer.Finding, 0, len(diags))
	for _, diag := range diags {
		p.logger.Debug("undeclared", "file", relPath, "line", diag.Line, "key", diag.Key)
		findings = append(findings, analyzer.Finding{
			Key:         diag.Key,
			File:        relPath,
			Line:        diag.Line,
			Column:      diag.Column,
			Message:     diag.Text(),
			CodeSnippet: lineAt(content, diag.Line),
			Workspace:   workspace,
		})
	}
	return findings, nil
}

// runQuery finds literal env reads with the language's query and hands each
// key to the detector in document order.
func (p *Parser) runQuery(d *detector.Detector, language *sitter.Language, lang string, root *sitter.Node, content []byte) error {
	langInfo := languages.GetLanguageInfo(lang)
	if langInfo == nil {
		return fmt.Errorf("unsupported language: %s", lang)
	}

	query, queryErr := sitter.NewQuery(language, strings.TrimSpace(langInfo.Query))
	if queryErr != nil {
		// A grammar/query mismatch should not abort the whole scan
		p.logger.Debug("query creation failed", "lang", lang, "err", queryErr.Error())
		return nil
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, root, content)
	captureNames := query.CaptureNames()

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		texts := make(map[string]string, len(match.Captures))
		var keyNode *sitter.Node
		for i := range match.Captures {
			capture := match.Captures[i]
			if int(capture.Index) >= len(captureNames) {
				continue
			}
			name := captureNames[capture.Index]
			texts[name] = capture.Node.Utf8Text(content)
			if name == langInfo.KeyCapture {
				node := capture.Node
				keyNode = &node
			}
		}

		if key, ok := langInfo.Extract(texts); ok {
			d.CheckKey(keyNode, key)
		}
	}
	return nil
}

func relativePath(scanRoot, filePath string) string {
	if scanRoot == "" {
		return filePath
	}
	absScanRoot, err1 := filepath.Abs(scanRoot)
	absFilePath, err2 := filepath.Abs(filePath)
	if err1 != nil || err2 != nil {
		return filePath
	}
	rel, err := filepath.Rel(absScanRoot, absFilePath)
	if err != nil || rel == "" {
		return filePath
	}
	return filepath.ToSlash(rel)
}

// lineAt returns the trimmed text of a 1-based line
func lineAt(content []byte, line int) string {
	if line < 1 {
		return ""
	}
	start := 0
	for i := 0; i < len(content) && line > 1; i++ {
		if content[i] == '\n' {
			line--
			start = i + 1
		}
	}
	if line > 1 {
		return ""
	}
	end := start
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return strings.TrimSpace(string(content[start:end]))
}
