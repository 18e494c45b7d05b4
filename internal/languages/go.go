package languages

// GoQuery is the Tree-Sitter query for finding os.Getenv("KEY") and
// os.LookupEnv("KEY"). Only a literal first argument is captured; computed
// keys are never candidates.
const GoQuery = `
[
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list . (interpreted_string_literal) @key)
  )
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list . (raw_string_literal) @key)
  )
]
`

// ExtractEnvVarFromGo validates that a match is os.Getenv or os.LookupEnv
func ExtractEnvVarFromGo(match map[string]string) (string, bool) {
	if match["obj"] != "os" {
		return "", false
	}
	if fn := match["fn"]; fn != "Getenv" && fn != "LookupEnv" {
		return "", false
	}
	key := trimQuotes(match["key"])
	return key, key != ""
}
