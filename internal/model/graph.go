package model

import "traitmut.dev/pkg/traitmut/internal/ast"

// ImplEdge records that Type implements Trait.
type ImplEdge struct {
	Type  string `json:"type"`
	Trait string `json:"trait"`
}

// SupertraitEdge records that Trait declares Supertrait as a bound.
type SupertraitEdge struct {
	Trait      string `json:"trait"`
	Supertrait string `json:"supertrait"`
}

// TraitAssoc records an associated type declared by a trait.
type TraitAssoc struct {
	Trait string `json:"trait"`
	Assoc string `json:"assoc"`
}

// AssocBinding records "type Assoc = Rhs;" inside "impl Trait for SelfType".
// Rhs is the type as written; RhsKey is its normalized form.
type AssocBinding struct {
	SelfType string `json:"self_ty"`
	Trait    string `json:"trait"`
	Assoc    string `json:"assoc"`
	Rhs      string `json:"rhs"`
	RhsKey   string `json:"-"`
}

// Projection returns "<SelfType as Trait>::Assoc".
func (b AssocBinding) Projection() string {
	return "<" + b.SelfType + " as " + b.Trait + ">::" + b.Assoc
}

// BlanketTemplate records an implementation whose self type mentions the
// implementation's own generic parameters.
type BlanketTemplate struct {
	Pattern    string    `json:"self_ty"`
	PatternKey string    `json:"-"`
	Trait      string    `json:"trait"`
	Params     []string  `json:"generic_params"`
	Node       *ast.Node `json:"-"`
}

// IsBareParam reports whether the self type is exactly one generic parameter.
func (t BlanketTemplate) IsBareParam() bool {
	for _, p := range t.Params {
		if t.PatternKey == p {
			return true
		}
	}

	return false
}

// DependencyGraph summarizes the trait/type structure of one syntax tree.
// Every slice is sorted and free of duplicates.
type DependencyGraph struct {
	Traits          []string          `json:"traits"`
	Types           []string          `json:"types"`
	ImplEdges       []ImplEdge        `json:"impl_edges"`
	BlanketEdges    []ImplEdge        `json:"impl_edges_blanket"`
	PlainEdges      []ImplEdge        `json:"-"`
	SupertraitEdges []SupertraitEdge  `json:"supertrait_edges"`
	TraitAssocTypes []TraitAssoc      `json:"trait_assoc_types"`
	Bindings        []AssocBinding    `json:"impl_assoc_bindings"`
	Templates       []BlanketTemplate `json:"impl_blanket_templates"`
}

// ConcreteEdges returns the implementation edges contributed by at least
// one implementation whose self type is not its own generic parameter.
func (g DependencyGraph) ConcreteEdges() []ImplEdge {
	return g.PlainEdges
}
