package languages

// RustQuery is the Tree-Sitter query for finding env::var("KEY") and std::env::var("KEY") patterns
const RustQuery = `
[
  (call_expression
    function: (scoped_identifier
      path: (identifier) @path
      name: (identifier) @fn
    )
    arguments: (arguments . (string_literal) @key)
  )
  (call_expression
    function: (scoped_identifier
      path: (scoped_identifier
        path: (identifier) @path1
        name: (identifier) @path2
      )
      name: (identifier) @fn
    )
    arguments: (arguments . (string_literal) @key)
  )
]
`

// ExtractEnvVarFromRust validates env::var, env::var_os and their std:: forms
func ExtractEnvVarFromRust(match map[string]string) (string, bool) {
	if fn := match["fn"]; fn != "var" && fn != "var_os" {
		return "", false
	}

	// Validate path: either "env" or "std::env"
	validPath := false
	if path1, ok := match["path1"]; ok {
		validPath = path1 == "std" && match["path2"] == "env"
	} else {
		validPath = match["path"] == "env"
	}
	if !validPath {
		return "", false
	}

	key := trimQuotes(match["key"])
	return key, key != ""
}
