package mutagens

import (
	"slices"

	"traitmut.dev/pkg/traitmut/internal/ast"
)

// typeParam is one declared generic type parameter in one of the shapes the
// grammar produces for it.
type typeParam struct {
	node   *ast.Node
	parent *ast.Node
	name   string
	bounds *ast.Node
}

// asTypeParam recognizes n as a type parameter declared in parent.
// Lifetime and const parameters are not type parameters.
func asTypeParam(n, parent *ast.Node) (typeParam, bool) {
	if parent == nil {
		return typeParam{}, false
	}

	tp := typeParam{node: n, parent: parent}

	switch n.Kind {
	case ast.KindTypeIdentifier:
		if parent.Kind != ast.KindTypeParameters {
			return typeParam{}, false
		}

		tp.name = n.Text

	case ast.KindConstrainedParam:
		left := n.Child(ast.FieldLeft)
		if left == nil || left.Kind != ast.KindTypeIdentifier {
			return typeParam{}, false
		}

		tp.name = left.Text
		tp.bounds = n.Child(ast.FieldBounds)

	case ast.KindOptionalParam:
		name := n.Child(ast.FieldName)
		if name == nil {
			return typeParam{}, false
		}

		inner, ok := asTypeParam(name, n)
		if !ok {
			if name.Kind != ast.KindTypeIdentifier {
				return typeParam{}, false
			}

			tp.name = name.Text

			return tp, true
		}

		return inner, true

	case ast.KindTypeParameter:
		name := n.Child(ast.FieldName)
		if name == nil {
			return typeParam{}, false
		}

		tp.name = name.Text
		tp.bounds = n.Child(ast.FieldBounds)

	default:
		return typeParam{}, false
	}

	return tp, true
}

// typeParamsOf lists the type parameters declared by a type_parameters node.
func typeParamsOf(params *ast.Node) []typeParam {
	if params == nil {
		return nil
	}

	var out []typeParam

	for _, c := range params.Children {
		if tp, ok := asTypeParam(c, params); ok {
			out = append(out, tp)
		}
	}

	return out
}

func typeParamNames(params *ast.Node) []string {
	tps := typeParamsOf(params)

	out := make([]string, 0, len(tps))
	for _, tp := range tps {
		out = append(out, tp.name)
	}

	return out
}

// addBound attaches trait to tp, creating the bound list when it has none.
func addBound(tp typeParam, trait string) bool {
	if tp.bounds != nil {
		ast.AppendBound(tp.bounds, trait)
		return true
	}

	switch tp.node.Kind {
	case ast.KindTypeIdentifier:
		return tp.parent.Replace(tp.node, ast.ConstrainedParam(tp.node, trait))

	case ast.KindOptionalParam:
		name := tp.node.Child(ast.FieldName)
		return tp.node.Replace(name, ast.ConstrainedParam(name, trait))

	case ast.KindTypeParameter:
		insertBounds(tp.node, trait, ast.FieldName)
		return true
	}

	return false
}

// insertBounds gives decl a bound list right after the last present field
// in after, or at the end.
func insertBounds(decl *ast.Node, trait string, after ...string) {
	for i := len(after) - 1; i >= 0; i-- {
		if anchor := decl.Child(after[i]); anchor != nil {
			decl.Insert(decl.IndexOf(anchor)+1, ast.Bounds(trait))
			return
		}
	}

	decl.Append(ast.Bounds(trait))
}

// simpleBounds returns the bounds written as plain trait names.
func simpleBounds(bounds *ast.Node) []string {
	if bounds == nil {
		return nil
	}

	var out []string

	for _, c := range bounds.Children {
		if c.Kind == ast.KindTypeIdentifier {
			out = append(out, c.Text)
		}
	}

	return out
}

// plainName returns the identifier text of n when n is a bare type name.
func plainName(n *ast.Node) string {
	if n == nil || n.Kind != ast.KindTypeIdentifier {
		return ""
	}

	return n.Text
}

// isParamLeaf reports whether leaf names one of params as a type.
func isParamLeaf(leaf *ast.Node, params []string) bool {
	if leaf.Kind != ast.KindTypeIdentifier && !(leaf.Kind == "identifier" && leaf.Field == ast.FieldPath) {
		return false
	}

	if leaf.Field == ast.FieldName || leaf.Field == ast.FieldAlias {
		return false
	}

	return slices.Contains(params, leaf.Text)
}

// paramsIn returns the members of params that n mentions, in params order.
func paramsIn(n *ast.Node, params []string) []string {
	if len(params) == 0 {
		return nil
	}

	used := make(map[string]bool)

	ast.Inspect(n, func(c *ast.Node) bool {
		if c.IsLeaf() && isParamLeaf(c, params) {
			used[c.Text] = true
		}

		return true
	})

	var out []string

	for _, p := range params {
		if used[p] {
			out = append(out, p)
		}
	}

	return out
}

// skipSubtree reports whether n holds no analyzable syntax.
func skipSubtree(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindTokenTree, ast.KindAttributeItem, ast.KindInnerAttribute:
		return true
	}

	return n.IsComment()
}

// isProjection reports whether n is a qualified path "<S as Tr>::A".
func isProjection(n *ast.Node) bool {
	if n.Kind != ast.KindScopedTypeIdent {
		return false
	}

	path := n.Child(ast.FieldPath)

	return path != nil && path.Kind == ast.KindBracketedType
}

// isTypeOccurrence reports whether n, hanging under parent, is a type written
// in type position, as opposed to a name being declared, a trait, a path
// segment or a pattern.
func isTypeOccurrence(n, parent *ast.Node) bool {
	if parent == nil {
		return false
	}

	switch n.Kind {
	case ast.KindTypeIdentifier, ast.KindPrimitiveType, ast.KindGenericType:
	case ast.KindScopedTypeIdent:
		if isProjection(n) {
			return false
		}
	default:
		return false
	}

	switch n.Field {
	case ast.FieldName, ast.FieldAlias, ast.FieldTrait:
		return false
	}

	switch parent.Kind {
	case ast.KindTypeParameters, ast.KindTraitBounds, ast.KindStructPattern, ast.KindTupleStructPat:
		return false
	case ast.KindGenericType, "generic_type_with_turbofish":
		return n.Field != ast.FieldType
	case ast.KindScopedTypeIdent, "scoped_identifier":
		return n.Field != ast.FieldPath
	case ast.KindConstrainedParam:
		return n.Field != ast.FieldLeft
	}

	return true
}
