package mutagens

import (
	"math/rand"

	"traitmut.dev/pkg/traitmut/internal/ast"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

// ProjectionRewrite replaces one concrete type occurrence with an
// associated-type projection "<S as Tr>::A" whose binding in the same tree
// resolves to that type.
type ProjectionRewrite struct{}

// NewProjectionRewrite returns the projection-rewrite engine.
func NewProjectionRewrite() *ProjectionRewrite {
	return &ProjectionRewrite{}
}

// Mode implements Engine.
func (p *ProjectionRewrite) Mode() m.Mode {
	return m.ModeProjectionRewrite
}

// Count implements Mutator.
func (p *ProjectionRewrite) Count(file *ast.File) int {
	return count(p, file)
}

// Apply implements Mutator.
func (p *ProjectionRewrite) Apply(file *ast.File, index int) bool {
	return apply(p, file, index)
}

// Mutate implements Engine.
func (p *ProjectionRewrite) Mutate(file *ast.File, sel m.Selection, rng *rand.Rand) m.Outcome {
	return mutate(p.Mode(), p, file, sel, rng)
}

// Metrics implements Engine.
func (p *ProjectionRewrite) Metrics(file *ast.File) (int, int) {
	space, sites := p.plan(file)

	return sites, space.Total()
}

// Sites implements Engine.
func (p *ProjectionRewrite) Sites(file *ast.File) []m.SiteDebug {
	var out []m.SiteDebug

	p.walk(file, func(s *rewriteSite) bool {
		cands := make([]string, 0, len(s.candidates))
		for _, c := range s.candidates {
			cands = append(cands, c.Projection())
		}

		out = append(out, m.SiteDebug{
			Index:      s.index,
			Kind:       m.SiteRewrite,
			Label:      s.label,
			Candidates: cands,
		})

		return true
	})

	return out
}

func (p *ProjectionRewrite) plan(file *ast.File) (*ChoiceSpace, int) {
	space := NewChoiceSpace(MaxChoices)

	p.walk(file, func(s *rewriteSite) bool {
		space.Add(len(s.candidates))
		return true
	})

	return space, space.Sites()
}

func (p *ProjectionRewrite) applyAt(file *ast.File, entry ChoiceEntry) bool {
	mutated := false

	p.walk(file, func(s *rewriteSite) bool {
		if s.index < entry.Site {
			return true
		}

		if s.index == entry.Site && entry.Local < len(s.candidates) {
			c := s.candidates[entry.Local]
			mutated = s.parent.Replace(s.node, ast.Projection(c.SelfType, c.Trait, c.Assoc))
		}

		return false
	})

	return mutated
}

func (p *ProjectionRewrite) walk(file *ast.File, visit func(*rewriteSite) bool) {
	if file == nil || file.Root == nil {
		return
	}

	index := make(map[string][]m.AssocBinding)
	for _, b := range Extract(file).Bindings {
		index[b.RhsKey] = append(index[b.RhsKey], b)
	}

	if len(index) == 0 {
		return
	}

	ast.Walk(&rewriteWalker{index: index, visit: visit}, file.Root)
}

// rewriteSite is a type occurrence with at least one projection that
// resolves to it.
type rewriteSite struct {
	index      int
	label      string
	node       *ast.Node
	parent     *ast.Node
	candidates []m.AssocBinding
}

// implContext is the enclosing implementation of a type occurrence. Self and
// trait are empty unless both are plain names; assoc is set inside an
// associated-type binding.
type implContext struct {
	owner *ast.Node
	self  string
	trait string
	assoc string
}

// excludes reports whether b is the binding being defined at this point,
// which would make the rewritten binding refer to itself.
func (c implContext) excludes(b m.AssocBinding) bool {
	return c.self != "" && c.self == b.SelfType && c.trait == b.Trait && c.assoc == b.Assoc
}

type rewriteWalker struct {
	index map[string][]m.AssocBinding
	visit func(*rewriteSite) bool

	next    int
	stopped bool
	path    []*ast.Node
	ctx     []implContext
}

func (w *rewriteWalker) Enter(n, parent *ast.Node) bool {
	if w.stopped || skipSubtree(n) {
		return false
	}

	switch {
	case n.Kind == ast.KindImplItem:
		c := implContext{owner: n}

		self, trait := plainName(n.Child(ast.FieldType)), plainName(n.Child(ast.FieldTrait))
		if self != "" && trait != "" {
			c.self, c.trait = self, trait
		}

		w.ctx = append(w.ctx, c)

	case n.Kind == ast.KindTypeItem && w.inImplBody(parent):
		c := w.current()
		c.owner = n
		c.assoc = plainName(n.Child(ast.FieldName))
		w.ctx = append(w.ctx, c)

	case isTypeOccurrence(n, parent):
		w.occurrence(n, parent)
	}

	if w.stopped {
		return false
	}

	w.path = append(w.path, n)

	return true
}

func (w *rewriteWalker) Leave(n, _ *ast.Node) {
	if len(w.path) > 0 && w.path[len(w.path)-1] == n {
		w.path = w.path[:len(w.path)-1]
	}

	if len(w.ctx) > 0 && w.ctx[len(w.ctx)-1].owner == n {
		w.ctx = w.ctx[:len(w.ctx)-1]
	}
}

func (w *rewriteWalker) occurrence(n, parent *ast.Node) {
	bindings := w.index[ast.Normalize(n)]
	if len(bindings) == 0 {
		return
	}

	c := w.current()

	var cands []m.AssocBinding

	for _, b := range bindings {
		if !c.excludes(b) {
			cands = append(cands, b)
		}
	}

	if len(cands) == 0 {
		return
	}

	site := &rewriteSite{
		index:      w.next,
		label:      rewriteLabel(ast.Normalize(n), c),
		node:       n,
		parent:     parent,
		candidates: cands,
	}
	w.next++

	if !w.visit(site) {
		w.stopped = true
	}
}

func (w *rewriteWalker) current() implContext {
	if len(w.ctx) == 0 {
		return implContext{}
	}

	return w.ctx[len(w.ctx)-1]
}

func (w *rewriteWalker) inImplBody(parent *ast.Node) bool {
	if parent == nil || parent.Kind != ast.KindDeclarationList || len(w.path) < 2 {
		return false
	}

	return w.path[len(w.path)-2].Kind == ast.KindImplItem
}

func rewriteLabel(ty string, c implContext) string {
	trait, self := c.trait, c.self
	if trait == "" {
		trait = "?"
	}

	if self == "" {
		self = "?"
	}

	return "type " + ty + " in impl " + trait + " for " + self
}
