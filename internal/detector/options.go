package detector

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Options are the rule options a host hands to the detector.
type Options struct {
	// Cwd overrides the working directory used to print workspace paths.
	Cwd string
	// AllowList holds regular expressions (ECMAScript syntax). A key matching
	// any of them is never checked.
	AllowList []string
}

// PatternError describes an allow-list entry that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return fmt.Sprintf("Unable to convert %q to regex: %v", e.Pattern, e.Err)
}

func (e PatternError) Unwrap() error {
	return e.Err
}

// AllowSet is a compiled allow list. It is safe for concurrent use, so a
// host compiles it once and shares it between files through Host.Allow.
type AllowSet struct {
	patterns []*regexp2.Regexp
}

// CompileAllowList compiles each source independently. Entries that fail
// are returned separately and left out of the active set, so one bad
// pattern never disables the check.
func CompileAllowList(sources []string) (*AllowSet, []PatternError) {
	set := &AllowSet{}
	var failed []PatternError
	for _, src := range sources {
		re, err := regexp2.Compile(src, regexp2.ECMAScript)
		if err != nil {
			failed = append(failed, PatternError{Pattern: src, Err: err})
			continue
		}
		set.patterns = append(set.patterns, re)
	}
	return set, failed
}

// Len returns the number of active patterns.
func (a *AllowSet) Len() int {
	if a == nil {
		return 0
	}
	return len(a.patterns)
}

// Allowed reports whether key matches any active pattern.
func (a *AllowSet) Allowed(key string) bool {
	if a == nil {
		return false
	}
	for _, re := range a.patterns {
		// a match error (timeout) counts as no match
		if ok, err := re.MatchString(key); err == nil && ok {
			return true
		}
	}
	return false
}

// NormalizeCwd picks the working directory used for relative paths in
// messages: the explicit option first, then the host's cwd, then the
// ambient default. An empty result means no cwd is known.
func NormalizeCwd(option, host string, ambient func() (string, error)) string {
	if option != "" {
		return option
	}
	if host != "" {
		return host
	}
	if ambient != nil {
		if cwd, err := ambient(); err == nil {
			return cwd
		}
	}
	return ""
}
