package mutagens

import (
	"slices"

	"traitmut.dev/pkg/traitmut/internal/ast"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

// predicate is a where-clause candidate "left: trait". key is the
// whitespace-insensitive identity used for deduplication and for the
// presence check against an existing where clause.
type predicate struct {
	left  string
	trait string
	key   string
}

func newPredicate(left, trait string) predicate {
	return predicate{left: left, trait: trait, key: ast.NormalizeText(left) + ":" + trait}
}

func (p predicate) String() string {
	return p.left + ": " + p.trait
}

// scope is the per-tree knowledge the constraint candidates are drawn from:
// the dependency graph plus the trait set of every known concrete type,
// with blanket implementations instantiated over the known base types.
type scope struct {
	graph m.DependencyGraph

	traitsByType   map[string][]string
	concrete       []string
	blanketOnParam map[string]bool

	concretePreds []predicate
	bindingPreds  []predicate
	truncated     bool
}

func newScope(g m.DependencyGraph) *scope {
	s := &scope{
		graph:          g,
		traitsByType:   make(map[string][]string),
		blanketOnParam: make(map[string]bool),
	}

	sets := make(map[string]map[string]bool)
	texts := make(map[string]string)
	add := func(text, trait string) {
		key := ast.NormalizeText(text)
		if sets[key] == nil {
			sets[key] = make(map[string]bool)
			texts[key] = text
		}

		sets[key][trait] = true
	}

	for _, e := range g.ConcreteEdges() {
		add(e.Type, e.Trait)
	}

	base := baseTypes(g)
	budget := MaxBlanketExpansions

	for _, t := range g.Templates {
		if t.IsBareParam() {
			s.blanketOnParam[t.Trait] = true
		}

		expanded, complete := expandTemplate(t, base, &budget)
		if !complete {
			s.truncated = true
		}

		for _, text := range expanded {
			add(text, t.Trait)
		}
	}

	for key, set := range sets {
		traits := make([]string, 0, len(set))
		for tr := range set {
			traits = append(traits, tr)
		}

		slices.Sort(traits)
		s.traitsByType[key] = traits
		s.concrete = append(s.concrete, key)
	}

	slices.Sort(s.concrete)

	for _, key := range s.concrete {
		for _, tr := range s.traitsByType[key] {
			s.concretePreds = append(s.concretePreds, newPredicate(texts[key], tr))
		}
	}

	for _, b := range g.Bindings {
		for _, tr := range g.Traits {
			s.bindingPreds = append(s.bindingPreds, newPredicate(b.Projection(), tr))
		}
	}

	return s
}

// baseTypes returns the concrete type names blanket templates are
// instantiated over: declared types, implementing types and binding owners.
func baseTypes(g m.DependencyGraph) []string {
	out := slices.Clone(g.Types)

	for _, e := range g.ConcreteEdges() {
		out = append(out, e.Type)
	}

	for _, b := range g.Bindings {
		out = append(out, b.SelfType)
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// expandTemplate renders t once per assignment of base types to its
// parameters, in lexicographic order of the assignment. It stops when the
// shared budget runs out and then reports the expansion as incomplete.
func expandTemplate(t m.BlanketTemplate, base []string, budget *int) ([]string, bool) {
	if t.Node == nil || len(t.Params) == 0 || len(base) == 0 {
		return nil, true
	}

	assign := make(map[string]string, len(t.Params))
	subst := func(leaf *ast.Node) (string, bool) {
		if !isParamLeaf(leaf, t.Params) {
			return "", false
		}

		v, ok := assign[leaf.Text]

		return v, ok
	}

	var out []string

	var rec func(i int) bool
	rec = func(i int) bool {
		if i == len(t.Params) {
			if *budget <= 0 {
				return false
			}

			*budget--
			out = append(out, ast.Render(t.Node, subst))

			return true
		}

		for _, ty := range base {
			assign[t.Params[i]] = ty
			if !rec(i + 1) {
				return false
			}
		}

		return true
	}

	return out, rec(0)
}

// boundCandidates lists the traits, in name order, that are not already
// among existing.
func (s *scope) boundCandidates(existing []string) []string {
	out := make([]string, 0, len(s.graph.Traits))

	for _, tr := range s.graph.Traits {
		if !slices.Contains(existing, tr) {
			out = append(out, tr)
		}
	}

	return out
}

// whereCandidates lists the predicates that may be added to the where clause
// of impl, in a deterministic order: predicates on the impl's own
// parameters, on its plain self type, on every known concrete type, then on
// associated-type projections. Duplicates and predicates the clause already
// contains are dropped.
func (s *scope) whereCandidates(impl *ast.Node) []predicate {
	var (
		out     []predicate
		inScope []string
	)

	for _, tp := range typeParamsOf(impl.Child(ast.FieldTypeParameters)) {
		inScope = append(inScope, tp.name)

		pool := slices.Clone(s.traitsByType[tp.name])
		for tr := range s.blanketOnParam {
			pool = append(pool, tr)
		}

		slices.Sort(pool)

		existing := simpleBounds(tp.bounds)
		for _, tr := range slices.Compact(pool) {
			if !slices.Contains(existing, tr) {
				out = append(out, newPredicate(tp.name, tr))
			}
		}
	}

	if self := plainName(impl.Child(ast.FieldType)); self != "" {
		if !slices.Contains(inScope, self) {
			inScope = append(inScope, self)
		}

		pool := append(slices.Clone(s.graph.Traits), s.traitsByType[self]...)
		slices.Sort(pool)

		for _, tr := range slices.Compact(pool) {
			out = append(out, newPredicate(self, tr))
		}
	}

	out = append(out, s.concretePreds...)
	out = append(out, s.bindingPreds...)

	for _, ta := range s.graph.TraitAssocTypes {
		if !s.blanketOnParam[ta.Trait] {
			continue
		}

		for _, param := range inScope {
			proj := m.AssocBinding{SelfType: param, Trait: ta.Trait, Assoc: ta.Assoc}.Projection()
			for _, tr := range s.graph.Traits {
				out = append(out, newPredicate(proj, tr))
			}
		}
	}

	present := presentPredicates(impl.ChildOfKind(ast.KindWhereClause))
	seen := make(map[string]bool, len(out))
	result := out[:0]

	for _, p := range out {
		if seen[p.key] || present[p.key] {
			continue
		}

		seen[p.key] = true
		result = append(result, p)
	}

	return result
}

// presentPredicates returns the normalized keys of every single-bound
// predicate of where, plus one key per bound of multi-bound predicates.
func presentPredicates(where *ast.Node) map[string]bool {
	out := make(map[string]bool)
	if where == nil {
		return out
	}

	for _, pred := range where.ChildrenOfKind(ast.KindWherePredicate) {
		left := pred.Child(ast.FieldLeft)
		if left == nil {
			continue
		}

		leftKey := ast.Normalize(left)
		for _, tr := range simpleBounds(pred.Child(ast.FieldBounds)) {
			out[leftKey+":"+tr] = true
		}

		out[ast.Normalize(pred)] = true
	}

	return out
}
