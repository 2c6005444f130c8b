// Package mutagens implements the structural mutation strategies and the
// dependency-graph extraction they share.
package mutagens

import (
	"fmt"
	"math/rand"
	"time"

	"traitmut.dev/pkg/traitmut/internal/ast"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

const (
	// MaxConstraintSites bounds how many constraint sites one traversal records.
	MaxConstraintSites = 5000
	// MaxChoices bounds the flattened choice space of either engine.
	MaxChoices = MaxConstraintSites * 100
	// MaxBlanketExpansions bounds the concrete instantiations materialized
	// from blanket implementation templates in one analysis.
	MaxBlanketExpansions = MaxChoices
)

// Mutator is the contract every mutation strategy satisfies. Count sizes the
// candidate space of the current tree; Apply performs the edit for one
// candidate, wrapping out-of-range indices, and reports whether the tree
// changed.
type Mutator interface {
	Count(file *ast.File) int
	Apply(file *ast.File, index int) bool
}

// Run counts the candidates of mu, picks the forced index (wrapped into
// range) or a uniformly random one, and applies it.
func Run(mu Mutator, file *ast.File, forced *int, rng *rand.Rand) (mutated bool, index int, count int) {
	count = mu.Count(file)
	if count == 0 {
		return false, 0, 0
	}

	if forced != nil {
		index = wrap(*forced, count)
	} else {
		index = orDefault(rng).Intn(count)
	}

	return mu.Apply(file, index), index, count
}

// Engine is a Mutator whose candidates are grouped by site, which allows
// addressing a site and a candidate inside it separately.
type Engine interface {
	Mutator

	// Mode names the strategy.
	Mode() m.Mode

	// Mutate applies one edit chosen by sel and reports the choice made.
	Mutate(file *ast.File, sel m.Selection, rng *rand.Rand) m.Outcome

	// Sites lists every site with its candidates without editing the tree.
	Sites(file *ast.File) []m.SiteDebug

	// Metrics returns the number of sites and the size of the choice space.
	Metrics(file *ast.File) (sites int, choices int)
}

// NewEngine returns the engine for mode.
func NewEngine(mode m.Mode) (Engine, error) {
	switch mode {
	case m.ModeConstraintInjection:
		return NewConstraintInjection(), nil
	case m.ModeProjectionRewrite:
		return NewProjectionRewrite(), nil
	}

	return nil, fmt.Errorf("%w: %q", m.ErrUnknownMode, mode)
}

// planner is the part an engine provides to the shared selection driver.
type planner interface {
	plan(file *ast.File) (space *ChoiceSpace, sites int)
	applyAt(file *ast.File, entry ChoiceEntry) bool
}

func mutate(mode m.Mode, p planner, file *ast.File, sel m.Selection, rng *rand.Rand) m.Outcome {
	out := m.Outcome{Mode: mode}

	space, sites := p.plan(file)
	out.SiteCount = sites

	if space.Overflow() {
		out.Overflow = true
		return out
	}

	out.ChoiceCount = space.Total()

	entry, flat, ok := space.Select(sel, orDefault(rng))
	if !ok {
		return out
	}

	out.SiteIndex = entry.Site
	out.LocalIndex = entry.Local
	out.LocalCount = entry.LocalCount
	out.ChoiceIndex = flat
	out.Mutated = p.applyAt(file, entry)

	return out
}

func count(p planner, file *ast.File) int {
	space, _ := p.plan(file)
	if space.Overflow() {
		return 0
	}

	return space.Total()
}

func apply(p planner, file *ast.File, index int) bool {
	space, _ := p.plan(file)
	if space.Overflow() || space.Total() == 0 {
		return false
	}

	entry, ok := space.Resolve(wrap(index, space.Total()))
	if !ok {
		return false
	}

	return p.applyAt(file, entry)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}

	return i
}

func orDefault(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}

	return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // fuzzing, not crypto
}
