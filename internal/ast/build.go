package ast

// Token returns an anonymous token; its kind is its text.
func Token(text, leading string) *Node {
	return &Node{Kind: text, Text: text, Leading: leading}
}

// Ident returns a type identifier token.
func Ident(name, leading string) *Node {
	return &Node{Kind: KindTypeIdentifier, Text: name, Leading: leading}
}

// TypeText returns a node for a type written as text. Plain identifiers
// become type identifiers; anything else is kept as one opaque fragment.
func TypeText(text, leading string) *Node {
	if IsIdent(text) {
		return Ident(text, leading)
	}

	return &Node{Kind: KindFragment, Text: text, Leading: leading}
}

// Bounds returns a bound list ": A + B".
func Bounds(traits ...string) *Node {
	n := &Node{Kind: KindTraitBounds, Field: FieldBounds}
	n.Append(Token(":", ""))

	for i, tr := range traits {
		if i > 0 {
			n.Append(Token("+", " "))
		}

		n.Append(Ident(tr, " "))
	}

	return n
}

// AppendBound adds "+ trait" to an existing bound list.
func AppendBound(bounds *Node, trait string) {
	if len(bounds.Children) <= 1 {
		bounds.Append(Ident(trait, " "))
		return
	}

	bounds.Append(Token("+", " "), Ident(trait, " "))
}

// Predicate returns a where predicate "left: trait".
func Predicate(left, trait string) *Node {
	l := TypeText(left, " ")
	l.Field = FieldLeft

	return &Node{
		Kind:     KindWherePredicate,
		Children: []*Node{l, Bounds(trait)},
	}
}

// WhereClause returns a where clause holding a single predicate.
func WhereClause(pred *Node) *Node {
	SetLeading(pred, " ")

	return &Node{
		Kind:     KindWhereClause,
		Field:    FieldWhereClause,
		Children: []*Node{Token("where", " "), pred},
	}
}

// AppendPredicate adds pred to an existing where clause.
func AppendPredicate(where, pred *Node) {
	SetLeading(pred, " ")

	last := where.Children[len(where.Children)-1]
	if last.Kind == "," || last.Kind == "where" {
		where.Append(pred)
		return
	}

	where.Append(Token(",", ""), pred)
}

// ConstrainedParam turns a bare type parameter name into "name: trait".
func ConstrainedParam(name *Node, trait string) *Node {
	left := Clone(name)
	left.Field = FieldLeft

	return &Node{
		Kind:     KindConstrainedParam,
		Children: []*Node{left, Bounds(trait)},
	}
}

// Projection returns the type "<self as trait>::assoc".
func Projection(self, trait, assoc string) *Node {
	selfTy := Ident(self, "")
	selfTy.Field = FieldType

	alias := Ident(trait, " ")
	alias.Field = FieldAlias

	qualified := &Node{
		Kind:     KindQualifiedType,
		Children: []*Node{selfTy, Token("as", " "), alias},
	}

	bracketed := &Node{
		Kind:     KindBracketedType,
		Field:    FieldPath,
		Children: []*Node{Token("<", ""), qualified, Token(">", "")},
	}

	name := Ident(assoc, "")
	name.Field = FieldName

	return &Node{
		Kind:     KindScopedTypeIdent,
		Children: []*Node{bracketed, Token("::", ""), name},
	}
}

// IsIdent reports whether s is a plain Rust identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
