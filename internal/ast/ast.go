// Package ast holds a lossless, mutable concrete syntax tree for Rust sources.
//
// Every token of the source is a leaf that remembers the exact bytes that
// preceded it (whitespace and comments), so printing an unedited tree gives
// back the original file. Inner nodes only group children and carry the
// grammar kind plus the field name under which they hang in their parent.
package ast

import "strings"

// Node kinds used by the mutation engines.
const (
	KindSourceFile       = "source_file"
	KindTraitItem        = "trait_item"
	KindImplItem         = "impl_item"
	KindStructItem       = "struct_item"
	KindEnumItem         = "enum_item"
	KindTypeItem         = "type_item"
	KindAssociatedType   = "associated_type"
	KindDeclarationList  = "declaration_list"
	KindTypeParameters   = "type_parameters"
	KindTypeParameter    = "type_parameter"
	KindConstrainedParam = "constrained_type_parameter"
	KindOptionalParam    = "optional_type_parameter"
	KindTraitBounds      = "trait_bounds"
	KindWhereClause      = "where_clause"
	KindWherePredicate   = "where_predicate"
	KindTypeIdentifier   = "type_identifier"
	KindPrimitiveType    = "primitive_type"
	KindGenericType      = "generic_type"
	KindScopedTypeIdent  = "scoped_type_identifier"
	KindBracketedType    = "bracketed_type"
	KindQualifiedType    = "qualified_type"
	KindTokenTree        = "token_tree"
	KindAttributeItem    = "attribute_item"
	KindInnerAttribute   = "inner_attribute_item"
	KindLineComment      = "line_comment"
	KindBlockComment     = "block_comment"
	KindStructPattern    = "struct_pattern"
	KindTupleStructPat   = "tuple_struct_pattern"
	KindLifetime         = "lifetime"
	KindFragment         = "fragment"
	KindStringLiteral    = "string_literal"
	KindRawStringLiteral = "raw_string_literal"
	KindCharLiteral      = "char_literal"
	KindMacroInvocation  = "macro_invocation"
)

// Field names used by the mutation engines.
const (
	FieldName           = "name"
	FieldTypeParameters = "type_parameters"
	FieldBounds         = "bounds"
	FieldWhereClause    = "where_clause"
	FieldBody           = "body"
	FieldTrait          = "trait"
	FieldType           = "type"
	FieldLeft           = "left"
	FieldValue          = "value"
	FieldDefaultType    = "default_type"
	FieldAlias          = "alias"
	FieldPath           = "path"
	FieldTypeArguments  = "type_arguments"
)

// Node is one element of the syntax tree.
type Node struct {
	Kind     string
	Field    string
	Text     string
	Leading  string
	Children []*Node
}

// File is a parsed source file.
type File struct {
	Root     *Node
	Trailing string
}

// IsLeaf reports whether n is a token.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsComment reports whether n is a comment token.
func (n *Node) IsComment() bool {
	return n.Kind == KindLineComment || n.Kind == KindBlockComment
}

// Child returns the first child hanging under field, or nil.
func (n *Node) Child(field string) *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}

	return nil
}

// ChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) ChildOfKind(kind string) *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}

	return nil
}

// ChildrenOfKind returns every direct child of the given kind.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	if n == nil {
		return nil
	}

	var out []*Node

	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}

	return out
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}

	return -1
}

// Insert places nodes at position i.
func (n *Node) Insert(i int, nodes ...*Node) {
	if i < 0 {
		i = 0
	}

	if i > len(n.Children) {
		i = len(n.Children)
	}

	tail := append([]*Node{}, n.Children[i:]...)
	n.Children = append(append(n.Children[:i], nodes...), tail...)
}

// Append adds nodes after the last child.
func (n *Node) Append(nodes ...*Node) {
	n.Children = append(n.Children, nodes...)
}

// Replace swaps old for repl, keeping old's field name and leading trivia.
func (n *Node) Replace(old, repl *Node) bool {
	i := n.IndexOf(old)
	if i < 0 {
		return false
	}

	repl.Field = old.Field
	SetLeading(repl, LeadingOf(old))
	n.Children[i] = repl

	return true
}

// FirstLeaf returns the leftmost token under n.
func FirstLeaf(n *Node) *Node {
	for n != nil && !n.IsLeaf() {
		n = n.Children[0]
	}

	return n
}

// LeadingOf returns the trivia in front of n's first token.
func LeadingOf(n *Node) string {
	if leaf := FirstLeaf(n); leaf != nil {
		return leaf.Leading
	}

	return ""
}

// SetLeading overwrites the trivia in front of n's first token.
func SetLeading(n *Node, leading string) {
	if leaf := FirstLeaf(n); leaf != nil {
		leaf.Leading = leading
	}
}

// Clone returns a deep copy of n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}

	out := &Node{
		Kind:    n.Kind,
		Field:   n.Field,
		Text:    n.Text,
		Leading: n.Leading,
	}

	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = Clone(c)
		}
	}

	return out
}

// CloneFile returns a deep copy of f.
func CloneFile(f *File) *File {
	if f == nil {
		return nil
	}

	return &File{Root: Clone(f.Root), Trailing: f.Trailing}
}

// Normalize returns the whitespace-insensitive text of n: token texts
// concatenated with all whitespace removed and comments dropped.
func Normalize(n *Node) string {
	var b strings.Builder

	Inspect(n, func(c *Node) bool {
		if c.IsComment() {
			return false
		}

		if c.IsLeaf() {
			for _, r := range c.Text {
				if !isSpace(r) {
					b.WriteRune(r)
				}
			}
		}

		return true
	})

	return b.String()
}

// NormalizeText applies the Normalize rule to raw text.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// String renders n the way it reads in source, dropping the trivia in
// front of its first token and collapsing the rest to single spaces.
func String(n *Node) string {
	return Render(n, nil)
}

// Render is String with a hook that may substitute the text of any leaf.
func Render(n *Node, subst func(leaf *Node) (string, bool)) string {
	var b strings.Builder

	first := true

	Inspect(n, func(c *Node) bool {
		if c.IsComment() {
			return false
		}

		if !c.IsLeaf() {
			return true
		}

		if !first && hasSpace(c.Leading) {
			b.WriteByte(' ')
		}

		text := c.Text
		if subst != nil {
			if s, ok := subst(c); ok {
				text = s
			}
		}

		b.WriteString(text)

		first = false

		return true
	})

	return b.String()
}

func hasSpace(s string) bool {
	for _, r := range s {
		if isSpace(r) {
			return true
		}
	}

	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}
