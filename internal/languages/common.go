package languages

// LanguageInfo holds the tree-sitter query that finds literal environment
// reads in a language, and the function that validates a query match.
//
// JavaScript and TypeScript are not listed here: process.env reads are
// classified structurally by the detector package.
type LanguageInfo struct {
	Query string
	// KeyCapture names the capture whose node locates the read.
	KeyCapture string
	// Extract returns the key for one match (capture name -> text), or false
	// when the match is not an environment read.
	Extract func(match map[string]string) (string, bool)
}

// GetLanguageInfo returns the query and extractor for a given language
func GetLanguageInfo(lang string) *LanguageInfo {
	switch lang {
	case "go":
		return &LanguageInfo{Query: GoQuery, KeyCapture: "key", Extract: ExtractEnvVarFromGo}
	case "python":
		return &LanguageInfo{Query: PythonQuery, KeyCapture: "key", Extract: ExtractEnvVarFromPython}
	case "rust":
		return &LanguageInfo{Query: RustQuery, KeyCapture: "key", Extract: ExtractEnvVarFromRust}
	case "java":
		return &LanguageInfo{Query: JavaQuery, KeyCapture: "key", Extract: ExtractEnvVarFromJava}
	default:
		return nil
	}
}

// trimQuotes removes surrounding quotes from a string
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '`' && s[len(s)-1] == '`') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
