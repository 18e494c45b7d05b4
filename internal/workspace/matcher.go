package workspace

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// envMatcher tests keys against a turbo env list. Entries may contain "*"
// wildcards; entries starting with "!" exclude matching keys.
type envMatcher struct {
	literal  map[string]bool
	include  []*regexp2.Regexp
	exclude  []*regexp2.Regexp
	excludes map[string]bool
}

func newEnvMatcher(entries ...[]string) *envMatcher {
	m := &envMatcher{literal: map[string]bool{}, excludes: map[string]bool{}}
	for _, list := range entries {
		for _, entry := range list {
			m.add(entry)
		}
	}
	return m
}

func (m *envMatcher) add(entry string) {
	entry = strings.TrimSpace(entry)
	negated := strings.HasPrefix(entry, "!")
	if negated {
		entry = entry[1:]
	}
	if entry == "" {
		return
	}

	if !strings.Contains(entry, "*") {
		if negated {
			m.excludes[entry] = true
		} else {
			m.literal[entry] = true
		}
		return
	}

	re, err := wildcardRegexp(entry)
	if err != nil {
		return
	}
	if negated {
		m.exclude = append(m.exclude, re)
	} else {
		m.include = append(m.include, re)
	}
}

func (m *envMatcher) match(key string) bool {
	if m.excludes[key] || anyMatch(m.exclude, key) {
		return false
	}
	return m.literal[key] || anyMatch(m.include, key)
}

// wildcardRegexp turns FOO_* into ^FOO_.*$. A backslash escapes a literal "*".
func wildcardRegexp(entry string) (*regexp2.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(entry); i++ {
		c := entry[i]
		switch {
		case c == '\\' && i+1 < len(entry) && entry[i+1] == '*':
			b.WriteString(`\*`)
			i++
		case c == '*':
			b.WriteString(".*")
		default:
			b.WriteString(regexp2.Escape(string(c)))
		}
	}
	b.WriteString("$")
	return regexp2.Compile(b.String(), regexp2.None)
}

func anyMatch(res []*regexp2.Regexp, key string) bool {
	for _, re := range res {
		if ok, err := re.MatchString(key); err == nil && ok {
			return true
		}
	}
	return false
}
