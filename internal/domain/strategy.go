package domain

import (
	"log/slog"
	"math/rand"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

// StrategyPool picks a concrete mutation mode for "random" requests.
type StrategyPool interface {
	Select(rng *rand.Rand) m.Mode
	Weights() map[m.Mode]int
}

type weightedPool struct {
	modes   []m.Mode
	weights []int
	total   int
}

// NewStrategyPool builds a pool over m.Modes. Missing or negative weights
// count as zero; when every weight is zero all modes are equally likely.
func NewStrategyPool(weights map[m.Mode]int) StrategyPool {
	p := &weightedPool{modes: m.Modes}

	for _, mode := range p.modes {
		w := max(0, weights[mode])
		p.weights = append(p.weights, w)
		p.total += w
	}

	if p.total == 0 {
		for i := range p.weights {
			p.weights[i] = 1
		}

		p.total = len(p.weights)
	}

	slog.Debug("strategy pool", "modes", p.modes, "weights", p.weights)

	return p
}

// Select draws one mode with probability proportional to its weight.
func (p *weightedPool) Select(rng *rand.Rand) m.Mode {
	var n int
	if rng != nil {
		n = rng.Intn(p.total)
	} else {
		n = rand.Intn(p.total) //nolint:gosec // fuzzing, not crypto
	}

	for i, w := range p.weights {
		if n < w {
			return p.modes[i]
		}

		n -= w
	}

	return p.modes[len(p.modes)-1]
}

// Weights returns the effective weight of every mode.
func (p *weightedPool) Weights() map[m.Mode]int {
	out := make(map[m.Mode]int, len(p.modes))
	for i, mode := range p.modes {
		out[mode] = p.weights[i]
	}

	return out
}
