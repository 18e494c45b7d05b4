package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jenian/envlint/internal/analyzer"
	"github.com/jenian/envlint/internal/config"
	"github.com/jenian/envlint/internal/detector"
	"github.com/jenian/envlint/internal/output"
	"github.com/jenian/envlint/internal/parser"
	"github.com/jenian/envlint/internal/scanner"
	"github.com/jenian/envlint/internal/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrIssuesFound is returned by check when undeclared reads were reported.
// main turns it into exit status 1 without printing it.
var ErrIssuesFound = errors.New("undeclared environment variables found")

type checkFlags struct {
	cwd          string
	allow        []string
	includeGlobs []string
	excludeGlobs []string
	jsonOutput   bool
	silent       bool
	debug        bool
	noHeader     bool
	workers      int
}

// NewRootCommand builds the envlint command tree. Results go to stdout,
// logs to stderr.
func NewRootCommand(version string, stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "envlint",
		Short:         "Find environment variable reads missing from turbo.json",
		Long:          "A CLI tool that scans a Turborepo monorepo for process.env reads and reports keys that are not declared as task or global dependencies in turbo.json.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(newCheckCommand(stdout, stderr))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "init-config",
		Short: "Create a " + config.FileName + " file in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteTemplate(".")
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Created %s\n", path)
			return nil
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, version)
		},
	})
	return rootCmd
}

func newCheckCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check a repository for undeclared environment variable reads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return runCheck(cmd, path, flags, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.cwd, "cwd", "", "Directory used to locate the root turbo.json (default: the checked path)")
	f.StringSliceVar(&flags.allow, "allow", []string{}, "Regular expressions for keys that never need declaring")
	f.StringSliceVar(&flags.includeGlobs, "include", []string{}, "Glob patterns to include")
	f.StringSliceVar(&flags.excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")
	f.BoolVar(&flags.jsonOutput, "json", false, "Output results in JSON format")
	f.BoolVar(&flags.silent, "silent", false, "Silent mode (exit code only)")
	f.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	f.BoolVar(&flags.noHeader, "no-header", false, "Skip printing the header")
	f.IntVar(&flags.workers, "workers", runtime.NumCPU(), "Number of files analysed concurrently")
	return cmd
}

func newLogger(w io.Writer, flags *checkFlags) *log.Logger {
	level := log.InfoLevel
	switch {
	case flags.debug:
		level = log.DebugLevel
	case flags.silent || flags.jsonOutput:
		level = log.ErrorLevel
	}
	return log.NewWithOptions(w, log.Options{Level: level, Prefix: "envlint"})
}

func runCheck(cmd *cobra.Command, path string, flags *checkFlags, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, flags)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", absPath)
	}

	cfg, err := config.Load(absPath)
	if err != nil {
		logger.Warn("failed to load "+config.FileName+", using defaults", "err", err)
		cfg = config.Default()
	}

	opts := detector.Options{
		Cwd:       cfg.Cwd,
		AllowList: append(append([]string{}, cfg.AllowList...), flags.allow...),
	}
	if flags.cwd != "" {
		opts.Cwd = flags.cwd
	}
	if opts.Cwd != "" && !filepath.IsAbs(opts.Cwd) {
		opts.Cwd = filepath.Join(absPath, opts.Cwd)
	}

	// Compiled once and shared by every file
	allow, failed := detector.CompileAllowList(opts.AllowList)
	for _, pe := range failed {
		logger.Warn(pe.Error())
	}
	logger.Debug("compiled allow list", "patterns", allow.Len())

	projectDir := opts.Cwd
	if projectDir == "" {
		projectDir = absPath
	}
	project, err := workspace.Load(projectDir, workspace.WithLogger(logger.WithPrefix("workspace")))
	if err != nil {
		return fmt.Errorf("failed to load turbo.json: %w", err)
	}
	if !project.Valid() {
		logger.Warn("no turbo.json found, nothing to check", "path", projectDir)
		return output.Format(stdout, analyzer.Analyze(nil, 0, cfg), output.Options{
			JSON: flags.jsonOutput, Silent: flags.silent, NoHeader: flags.noHeader,
		})
	}
	logger.Debug("loaded project", "root", project.Root, "workspaces", len(project.Workspaces))

	fileScanner := scanner.NewScanner()
	if len(flags.includeGlobs) > 0 {
		fileScanner.SetIncludeGlobs(flags.includeGlobs)
	}
	if len(flags.excludeGlobs) > 0 {
		fileScanner.SetExcludeGlobs(flags.excludeGlobs)
	}
	if len(cfg.Ignores.Folders) > 0 {
		fileScanner.AddIgnoredFolders(cfg.Ignores.Folders)
	}

	files, err := fileScanner.Scan(absPath)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	logger.Info(reportFileCounts(files))

	host := detector.Host{
		Resolver: project,
		Tester:   project,
		Cwd:      absPath,
		Getwd:    os.Getwd,
		Allow:    allow,
	}
	p := parser.NewParser(parser.WithLogger(logger.WithPrefix("parser")))

	findings, err := checkFiles(cmd, p, files, absPath, opts, host, flags.workers, logger)
	if err != nil {
		return err
	}

	result := analyzer.Analyze(findings, len(files), cfg)
	if err := output.Format(stdout, result, output.Options{
		JSON:     flags.jsonOutput,
		Silent:   flags.silent,
		NoHeader: flags.noHeader,
	}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if output.HasIssues(result) {
		return ErrIssuesFound
	}
	return nil
}

// checkFiles analyses files concurrently and returns the findings in scan
// order. A file that fails to parse is logged and skipped.
func checkFiles(cmd *cobra.Command, p *parser.Parser, files []scanner.FileInfo, root string, opts detector.Options, host detector.Host, workers int, logger *log.Logger) ([]analyzer.Finding, error) {
	perFile := make([][]analyzer.Finding, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found, err := p.CheckFile(file.Path, string(file.Language), root, opts, host)
			if err != nil {
				logger.Warn("failed to check file", "file", file.Path, "err", err)
				return nil
			}
			if file.InIgnoredPath {
				for j := range found {
					found[j].InIgnoredPath = true
				}
			}
			perFile[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []analyzer.Finding
	for _, found := range perFile {
		all = append(all, found...)
	}
	return all, nil
}

// reportFileCounts summarises the scanned files by language
func reportFileCounts(files []scanner.FileInfo) string {
	langCounts := make(map[scanner.Language]int)
	for _, file := range files {
		langCounts[file.Language]++
	}

	var parts []string
	langOrder := []scanner.Language{
		scanner.LanguageJavaScript, scanner.LanguageTypeScript, scanner.LanguageTSX,
		scanner.LanguageGo, scanner.LanguagePython, scanner.LanguageRust, scanner.LanguageJava,
	}
	for _, lang := range langOrder {
		count := langCounts[lang]
		if count == 0 {
			continue
		}
		// Use short names for display
		name := string(lang)
		switch lang {
		case scanner.LanguageJavaScript:
			name = "js"
		case scanner.LanguageTypeScript:
			name = "ts"
		}
		parts = append(parts, fmt.Sprintf("%s: %d", name, count))
	}

	if len(parts) > 0 {
		return fmt.Sprintf("Found %d files (%s)", len(files), strings.Join(parts, ", "))
	}
	return fmt.Sprintf("Found %d files to check", len(files))
}
