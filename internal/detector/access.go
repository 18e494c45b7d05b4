package detector

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// The runtime reserves process.env for environment access.
const (
	envObjectName   = "process"
	envPropertyName = "env"
)

// Access is the classification of a process.env member expression.
// It is one of MemberAccess, DestructuringAccess or OtherAccess.
type Access interface {
	candidates() []candidate
}

type candidate struct {
	node *sitter.Node
	key  string
}

// MemberAccess is a literal property read: process.env.KEY
type MemberAccess struct {
	Node *sitter.Node // the outer member expression
	Key  string
}

func (a MemberAccess) candidates() []candidate {
	return []candidate{{node: a.Node, key: a.Key}}
}

// DestructuringAccess is an object pattern with process.env as its source:
// const { A, B: b } = process.env
type DestructuringAccess struct {
	Node *sitter.Node // the declarator or assignment
	Keys []string     // source keys, left to right
}

func (a DestructuringAccess) candidates() []candidate {
	out := make([]candidate, 0, len(a.Keys))
	for _, key := range a.Keys {
		out = append(out, candidate{node: a.Node, key: key})
	}
	return out
}

// OtherAccess is everything that is not a statically resolvable read,
// including computed subscripts like process.env[name].
type OtherAccess struct{}

func (OtherAccess) candidates() []candidate { return nil }

// Classify inspects a node and its parent and reports which kind of
// environment access it is. It never mutates the tree.
func Classify(node *sitter.Node, source []byte) Access {
	if !isEnvObject(node, source) {
		return OtherAccess{}
	}

	parent := node.Parent()
	if parent == nil {
		return OtherAccess{}
	}

	switch parent.Kind() {
	case "member_expression":
		// process.env must be the object, not the property
		if !sameNode(parent.ChildByFieldName("object"), node) {
			return OtherAccess{}
		}
		prop := parent.ChildByFieldName("property")
		if prop == nil || prop.Kind() != "property_identifier" {
			return OtherAccess{}
		}
		return MemberAccess{Node: parent, Key: prop.Utf8Text(source)}

	case "variable_declarator":
		if !sameNode(parent.ChildByFieldName("value"), node) {
			return OtherAccess{}
		}
		if pattern := parent.ChildByFieldName("name"); pattern != nil && pattern.Kind() == "object_pattern" {
			return DestructuringAccess{Node: parent, Keys: patternKeys(pattern, source)}
		}

	case "assignment_expression":
		if !sameNode(parent.ChildByFieldName("right"), node) {
			return OtherAccess{}
		}
		if pattern := parent.ChildByFieldName("left"); pattern != nil && pattern.Kind() == "object_pattern" {
			return DestructuringAccess{Node: parent, Keys: patternKeys(pattern, source)}
		}

	case "subscript_expression":
		// computed: process.env[key]
		return OtherAccess{}
	}

	return OtherAccess{}
}

// isEnvObject reports whether node is exactly `process.env`.
func isEnvObject(node *sitter.Node, source []byte) bool {
	if node == nil || node.Kind() != "member_expression" {
		return false
	}
	obj := node.ChildByFieldName("object")
	prop := node.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return false
	}
	if obj.Kind() != "identifier" || prop.Kind() != "property_identifier" {
		return false
	}
	return obj.Utf8Text(source) == envObjectName && prop.Utf8Text(source) == envPropertyName
}

// patternKeys returns the source keys of an object pattern. Renamed
// bindings yield the source key; rest elements and computed or quoted
// keys yield nothing.
func patternKeys(pattern *sitter.Node, source []byte) []string {
	var keys []string
	for i := uint(0); i < pattern.NamedChildCount(); i++ {
		item := pattern.NamedChild(i)
		if item == nil {
			continue
		}
		switch item.Kind() {
		case "shorthand_property_identifier_pattern":
			keys = append(keys, item.Utf8Text(source))
		case "pair_pattern":
			key := item.ChildByFieldName("key")
			if key != nil && key.Kind() == "property_identifier" {
				keys = append(keys, key.Utf8Text(source))
			}
		case "object_assignment_pattern":
			// { A = "default" }
			left := item.ChildByFieldName("left")
			if left != nil && left.Kind() == "shorthand_property_identifier_pattern" {
				keys = append(keys, left.Utf8Text(source))
			}
		}
	}
	return keys
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}
