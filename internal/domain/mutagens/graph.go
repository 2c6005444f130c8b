package mutagens

import (
	"cmp"
	"slices"

	"traitmut.dev/pkg/traitmut/internal/ast"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

// Extract summarizes the trait, type and implementation structure of file.
// It never edits the tree and always returns sorted, duplicate-free slices,
// so two calls on the same tree return equal graphs.
func Extract(file *ast.File) m.DependencyGraph {
	x := &extractor{}
	if file != nil && file.Root != nil {
		ast.Walk(x, file.Root)
	}

	return x.graph()
}

type extractor struct {
	traits    []string
	types     []string
	edges     []m.ImplEdge
	blanket   []m.ImplEdge
	plain     []m.ImplEdge
	supers    []m.SupertraitEdge
	assocs    []m.TraitAssoc
	bindings  []m.AssocBinding
	templates []m.BlanketTemplate
}

func (x *extractor) Enter(n, _ *ast.Node) bool {
	if skipSubtree(n) {
		return false
	}

	switch n.Kind {
	case ast.KindTraitItem:
		x.trait(n)
	case ast.KindStructItem, ast.KindEnumItem:
		if name := plainName(n.Child(ast.FieldName)); name != "" {
			x.types = append(x.types, name)
		}
	case ast.KindImplItem:
		x.impl(n)
	}

	return true
}

func (x *extractor) Leave(_, _ *ast.Node) {}

func (x *extractor) trait(n *ast.Node) {
	name := plainName(n.Child(ast.FieldName))
	if name == "" {
		return
	}

	x.traits = append(x.traits, name)

	for _, super := range simpleBounds(n.Child(ast.FieldBounds)) {
		x.supers = append(x.supers, m.SupertraitEdge{Trait: name, Supertrait: super})
	}

	// "type A = T;" in a trait body is an associated type with a default.
	body := n.Child(ast.FieldBody)
	for _, assoc := range slices.Concat(body.ChildrenOfKind(ast.KindAssociatedType), body.ChildrenOfKind(ast.KindTypeItem)) {
		if a := plainName(assoc.Child(ast.FieldName)); a != "" {
			x.assocs = append(x.assocs, m.TraitAssoc{Trait: name, Assoc: a})
		}
	}
}

func (x *extractor) impl(n *ast.Node) {
	trait := plainName(n.Child(ast.FieldTrait))
	self := n.Child(ast.FieldType)

	if trait == "" || self == nil {
		return
	}

	params := typeParamNames(n.Child(ast.FieldTypeParameters))
	selfName := plainName(self)

	if selfName != "" {
		edge := m.ImplEdge{Type: selfName, Trait: trait}
		x.edges = append(x.edges, edge)

		if slices.Contains(params, selfName) {
			x.blanket = append(x.blanket, edge)
		} else {
			x.plain = append(x.plain, edge)
		}
	}

	if used := paramsIn(self, params); len(used) > 0 {
		x.templates = append(x.templates, m.BlanketTemplate{
			Pattern:    ast.String(self),
			PatternKey: ast.Normalize(self),
			Trait:      trait,
			Params:     used,
			Node:       ast.Clone(self),
		})
	}

	if selfName == "" || slices.Contains(params, selfName) {
		return
	}

	for _, item := range n.Child(ast.FieldBody).ChildrenOfKind(ast.KindTypeItem) {
		assoc := plainName(item.Child(ast.FieldName))
		rhs := item.Child(ast.FieldType)

		if assoc == "" || rhs == nil {
			continue
		}

		x.bindings = append(x.bindings, m.AssocBinding{
			SelfType: selfName,
			Trait:    trait,
			Assoc:    assoc,
			Rhs:      ast.String(rhs),
			RhsKey:   ast.Normalize(rhs),
		})
	}
}

func (x *extractor) graph() m.DependencyGraph {
	return m.DependencyGraph{
		Traits:          sortedUnique(x.traits, cmp.Compare[string]),
		Types:           sortedUnique(x.types, cmp.Compare[string]),
		ImplEdges:       sortedUnique(x.edges, compareEdge),
		BlanketEdges:    sortedUnique(x.blanket, compareEdge),
		PlainEdges:      sortedUnique(x.plain, compareEdge),
		SupertraitEdges: sortedUnique(x.supers, compareSuper),
		TraitAssocTypes: sortedUnique(x.assocs, compareAssoc),
		Bindings:        sortedUnique(x.bindings, compareBinding),
		Templates:       sortedUnique(x.templates, compareTemplate),
	}
}

func sortedUnique[T any](s []T, compare func(a, b T) int) []T {
	out := slices.Clone(s)
	slices.SortStableFunc(out, compare)

	return slices.CompactFunc(out, func(a, b T) bool { return compare(a, b) == 0 })
}

func compareEdge(a, b m.ImplEdge) int {
	return cmp.Or(cmp.Compare(a.Type, b.Type), cmp.Compare(a.Trait, b.Trait))
}

func compareSuper(a, b m.SupertraitEdge) int {
	return cmp.Or(cmp.Compare(a.Trait, b.Trait), cmp.Compare(a.Supertrait, b.Supertrait))
}

func compareAssoc(a, b m.TraitAssoc) int {
	return cmp.Or(cmp.Compare(a.Trait, b.Trait), cmp.Compare(a.Assoc, b.Assoc))
}

func compareBinding(a, b m.AssocBinding) int {
	return cmp.Or(
		cmp.Compare(a.SelfType, b.SelfType),
		cmp.Compare(a.Trait, b.Trait),
		cmp.Compare(a.Assoc, b.Assoc),
		cmp.Compare(a.RhsKey, b.RhsKey),
	)
}

func compareTemplate(a, b m.BlanketTemplate) int {
	return cmp.Or(
		cmp.Compare(a.PatternKey, b.PatternKey),
		cmp.Compare(a.Trait, b.Trait),
		slices.Compare(a.Params, b.Params),
	)
}
