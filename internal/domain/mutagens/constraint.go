package mutagens

import (
	"log/slog"
	"math/rand"
	"slices"

	"traitmut.dev/pkg/traitmut/internal/ast"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

// ConstraintInjection adds one trait bound or where predicate at one
// constraint site: a trait's supertrait list, an implementation's where
// clause, a generic parameter's bound list, or a trait associated type's
// bound list.
type ConstraintInjection struct{}

// NewConstraintInjection returns the constraint-injection engine.
func NewConstraintInjection() *ConstraintInjection {
	return &ConstraintInjection{}
}

// Mode implements Engine.
func (c *ConstraintInjection) Mode() m.Mode {
	return m.ModeConstraintInjection
}

// Count implements Mutator.
func (c *ConstraintInjection) Count(file *ast.File) int {
	return count(c, file)
}

// Apply implements Mutator.
func (c *ConstraintInjection) Apply(file *ast.File, index int) bool {
	return apply(c, file, index)
}

// Mutate implements Engine.
func (c *ConstraintInjection) Mutate(file *ast.File, sel m.Selection, rng *rand.Rand) m.Outcome {
	return mutate(c.Mode(), c, file, sel, rng)
}

// Metrics implements Engine.
func (c *ConstraintInjection) Metrics(file *ast.File) (int, int) {
	space, sites := c.plan(file)

	return sites, space.Total()
}

// Sites implements Engine.
func (c *ConstraintInjection) Sites(file *ast.File) []m.SiteDebug {
	var out []m.SiteDebug

	c.walk(file, func(s *constraintSite) bool {
		out = append(out, m.SiteDebug{
			Index:      s.index,
			Kind:       s.kind,
			Label:      s.label,
			Candidates: s.candidateTexts(),
		})

		return true
	})

	return out
}

func (c *ConstraintInjection) plan(file *ast.File) (*ChoiceSpace, int) {
	space := NewChoiceSpace(MaxChoices)

	c.walk(file, func(s *constraintSite) bool {
		if space.Overflow() {
			space.Add(0)
		} else {
			space.Add(s.count())
		}

		return true
	})

	if space.Overflow() {
		slog.Warn("constraint choice space exceeds limit",
			"sites", space.Sites(), "limit", MaxChoices)
	}

	return space, space.Sites()
}

func (c *ConstraintInjection) applyAt(file *ast.File, entry ChoiceEntry) bool {
	mutated := false

	c.walk(file, func(s *constraintSite) bool {
		if s.index < entry.Site {
			return true
		}

		if s.index == entry.Site {
			mutated = s.apply(entry.Local)
		}

		return false
	})

	return mutated
}

func (c *ConstraintInjection) walk(file *ast.File, visit func(*constraintSite) bool) {
	if file == nil || file.Root == nil {
		return
	}

	w := &constraintWalker{
		scope: newScope(Extract(file)),
		visit: visit,
	}

	if w.scope.truncated {
		slog.Warn("blanket expansion truncated", "limit", MaxBlanketExpansions)
	}

	ast.Walk(w, file.Root)
}

// constraintSite is one position where a bound can be added. Candidates are
// computed on first use.
type constraintSite struct {
	index int
	kind  m.SiteKind
	label string
	node  *ast.Node

	param typeParam
	scope *scope

	bounds []string
	preds  []predicate
	ready  bool
}

func (s *constraintSite) resolve() {
	if s.ready {
		return
	}

	s.ready = true

	switch s.kind {
	case m.SiteWhere:
		s.preds = s.scope.whereCandidates(s.node)
	case m.SiteGenericBound:
		s.bounds = s.scope.boundCandidates(simpleBounds(s.param.bounds))
	case m.SiteSupertrait:
		existing := simpleBounds(s.node.Child(ast.FieldBounds))
		s.bounds = s.scope.boundCandidates(append(existing, plainName(s.node.Child(ast.FieldName))))
	default:
		s.bounds = s.scope.boundCandidates(simpleBounds(s.node.Child(ast.FieldBounds)))
	}
}

func (s *constraintSite) count() int {
	s.resolve()

	if s.kind == m.SiteWhere {
		return len(s.preds)
	}

	return len(s.bounds)
}

func (s *constraintSite) candidateTexts() []string {
	s.resolve()

	if s.kind != m.SiteWhere {
		return slices.Clone(s.bounds)
	}

	out := make([]string, 0, len(s.preds))
	for _, p := range s.preds {
		out = append(out, p.String())
	}

	return out
}

func (s *constraintSite) apply(local int) bool {
	s.resolve()

	if s.kind == m.SiteWhere {
		if local < 0 || local >= len(s.preds) {
			return false
		}

		return injectPredicate(s.node, s.preds[local])
	}

	if local < 0 || local >= len(s.bounds) {
		return false
	}

	trait := s.bounds[local]

	switch s.kind {
	case m.SiteGenericBound:
		if slices.Contains(simpleBounds(s.param.bounds), trait) {
			return false
		}

		return addBound(s.param, trait)

	case m.SiteSupertrait, m.SiteAssocBound:
		bounds := s.node.Child(ast.FieldBounds)
		if bounds == nil {
			insertBounds(s.node, trait, ast.FieldName, ast.FieldTypeParameters)
			return true
		}

		if slices.Contains(simpleBounds(bounds), trait) {
			return false
		}

		ast.AppendBound(bounds, trait)

		return true
	}

	return false
}

// injectPredicate adds p to impl's where clause, creating the clause in
// front of the body when missing.
func injectPredicate(impl *ast.Node, p predicate) bool {
	where := impl.ChildOfKind(ast.KindWhereClause)
	if presentPredicates(where)[p.key] {
		return false
	}

	pred := ast.Predicate(p.left, p.trait)

	if where != nil {
		ast.AppendPredicate(where, pred)
		return true
	}

	clause := ast.WhereClause(pred)

	if body := impl.Child(ast.FieldBody); body != nil {
		impl.Insert(impl.IndexOf(body), clause)
		return true
	}

	if last := impl.Children[len(impl.Children)-1]; last.Kind == ";" {
		impl.Insert(len(impl.Children)-1, clause)
		return true
	}

	impl.Append(clause)

	return true
}

// constraintWalker numbers constraint sites in pre-order and hands each to
// visit until visit returns false or the site ceiling is reached.
type constraintWalker struct {
	scope *scope
	visit func(*constraintSite) bool

	next    int
	stopped bool
	path    []*ast.Node
	labels  []frame
}

type frame struct {
	owner  *ast.Node
	label  string
	trait  string
	isImpl bool
}

func (w *constraintWalker) Enter(n, parent *ast.Node) bool {
	if w.stopped || skipSubtree(n) {
		return false
	}

	switch n.Kind {
	case ast.KindTraitItem:
		name := plainName(n.Child(ast.FieldName))
		w.labels = append(w.labels, frame{owner: n, label: "trait " + name, trait: name})

		if name != "" {
			w.emit(&constraintSite{kind: m.SiteSupertrait, label: "trait " + name, node: n})
		}

	case ast.KindImplItem:
		label := implLabel(n)
		w.labels = append(w.labels, frame{owner: n, label: label, isImpl: true})
		w.emit(&constraintSite{kind: m.SiteWhere, label: label, node: n})

	case ast.KindAssociatedType, ast.KindTypeItem:
		if w.inTraitBody(parent) {
			w.emit(&constraintSite{kind: m.SiteAssocBound, label: w.assocLabel(n), node: n})
		}

	default:
		if tp, ok := asTypeParam(n, parent); ok && parent.Kind != ast.KindOptionalParam {
			w.emit(&constraintSite{kind: m.SiteGenericBound, label: w.paramLabel(tp.name), node: n, param: tp})
		}
	}

	if w.stopped {
		return false
	}

	w.path = append(w.path, n)

	return true
}

func (w *constraintWalker) Leave(n, _ *ast.Node) {
	if len(w.path) > 0 && w.path[len(w.path)-1] == n {
		w.path = w.path[:len(w.path)-1]
	}

	if len(w.labels) > 0 && w.labels[len(w.labels)-1].owner == n {
		w.labels = w.labels[:len(w.labels)-1]
	}
}

func (w *constraintWalker) emit(s *constraintSite) {
	if w.next >= MaxConstraintSites {
		w.stopped = true
		return
	}

	s.index = w.next
	s.scope = w.scope
	w.next++

	if !w.visit(s) {
		w.stopped = true
	}
}

// inTraitBody reports whether a declaration_list parent belongs to a trait.
func (w *constraintWalker) inTraitBody(parent *ast.Node) bool {
	if parent == nil || parent.Kind != ast.KindDeclarationList || len(w.path) < 2 {
		return false
	}

	return w.path[len(w.path)-2].Kind == ast.KindTraitItem
}

func (w *constraintWalker) assocLabel(n *ast.Node) string {
	name := plainName(n.Child(ast.FieldName))
	if len(w.labels) > 0 && !w.labels[len(w.labels)-1].isImpl {
		return w.labels[len(w.labels)-1].trait + "::" + name
	}

	return "assoc " + name
}

func (w *constraintWalker) paramLabel(name string) string {
	if len(w.labels) == 0 {
		return "param " + name
	}

	return "param " + name + " in " + w.labels[len(w.labels)-1].label
}

// implLabel renders "impl Tr for S", or "impl S" for inherent blocks.
func implLabel(impl *ast.Node) string {
	self := ast.String(impl.Child(ast.FieldType))

	if trait := impl.Child(ast.FieldTrait); trait != nil {
		return "impl " + ast.String(trait) + " for " + self
	}

	return "impl " + self
}
