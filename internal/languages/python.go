package languages

import "strings"

// PythonQuery is the Tree-Sitter query for finding os.environ["KEY"],
// os.getenv("KEY") and os.environ.get("KEY")
const PythonQuery = `
[
  (subscript
    value: (attribute
      object: (identifier) @obj
      attribute: (identifier) @attr
    )
    subscript: (string) @key
  )
  (call
    function: (attribute
      object: (identifier) @obj
      attribute: (identifier) @fn
    )
    arguments: (argument_list . (string) @key)
  )
  (call
    function: (attribute
      object: (attribute
        object: (identifier) @obj
        attribute: (identifier) @attr
      )
      attribute: (identifier) @fn
    )
    arguments: (argument_list . (string) @key)
  )
]
`

// ExtractEnvVarFromPython validates that a match reads from os.environ
func ExtractEnvVarFromPython(match map[string]string) (string, bool) {
	if match["obj"] != "os" {
		return "", false
	}

	attr, hasAttr := match["attr"]
	fn, hasFn := match["fn"]
	switch {
	case hasAttr && !hasFn:
		// os.environ["KEY"]
		if attr != "environ" {
			return "", false
		}
	case hasAttr && hasFn:
		// os.environ.get("KEY")
		if attr != "environ" || fn != "get" {
			return "", false
		}
	case hasFn:
		// os.getenv("KEY")
		if fn != "getenv" {
			return "", false
		}
	default:
		return "", false
	}

	return pythonStringLiteral(match["key"])
}

// pythonStringLiteral unquotes a plain string literal. Any f in the prefix
// (f, rf, Fr, ...) makes the string computed.
func pythonStringLiteral(raw string) (string, bool) {
	body := strings.TrimLeft(raw, "rRbBuUfF")
	if strings.ContainsAny(raw[:len(raw)-len(body)], "fF") {
		return "", false
	}
	for _, q := range []string{`"""`, `'''`} {
		if len(body) >= 6 && strings.HasPrefix(body, q) && strings.HasSuffix(body, q) {
			key := body[3 : len(body)-3]
			return key, key != ""
		}
	}
	key := trimQuotes(body)
	return key, key != ""
}
