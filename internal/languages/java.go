package languages

// JavaQuery is the Tree-Sitter query for finding System.getenv("KEY") and System.getenv().get("KEY") patterns
const JavaQuery = `
[
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list . (string_literal) @key)
  )
  (method_invocation
    object: (method_invocation
      object: (identifier) @obj
      name: (identifier) @method1
    )
    name: (identifier) @method2
    arguments: (argument_list . (string_literal) @key)
  )
]
`

// ExtractEnvVarFromJava validates System.getenv reads
func ExtractEnvVarFromJava(match map[string]string) (string, bool) {
	if match["obj"] != "System" {
		return "", false
	}

	if method, ok := match["method"]; ok {
		if method != "getenv" {
			return "", false
		}
	} else if match["method1"] != "getenv" || match["method2"] != "get" {
		return "", false
	}

	key := trimQuotes(match["key"])
	return key, key != ""
}
