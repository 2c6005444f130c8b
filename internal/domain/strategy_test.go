package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

func TestStrategyPool(t *testing.T) {
	t.Run("missing weights fall back to equal weights", func(t *testing.T) {
		pool := NewStrategyPool(nil)

		assert.Equal(t, map[m.Mode]int{
			m.ModeConstraintInjection: 1,
			m.ModeProjectionRewrite:   1,
		}, pool.Weights())
	})

	t.Run("negative weights count as zero", func(t *testing.T) {
		pool := NewStrategyPool(map[m.Mode]int{
			m.ModeConstraintInjection: -3,
			m.ModeProjectionRewrite:   2,
		})

		assert.Equal(t, 0, pool.Weights()[m.ModeConstraintInjection])

		rng := rand.New(rand.NewSource(1))
		for range 50 {
			assert.Equal(t, m.ModeProjectionRewrite, pool.Select(rng))
		}
	})

	t.Run("selection follows the weights", func(t *testing.T) {
		pool := NewStrategyPool(map[m.Mode]int{
			m.ModeConstraintInjection: 3,
			m.ModeProjectionRewrite:   1,
		})

		rng := rand.New(rand.NewSource(7))
		counts := map[m.Mode]int{}

		for range 4000 {
			counts[pool.Select(rng)]++
		}

		assert.InDelta(t, 3000, counts[m.ModeConstraintInjection], 200)
		assert.InDelta(t, 1000, counts[m.ModeProjectionRewrite], 200)
	})

	t.Run("same seed gives the same sequence", func(t *testing.T) {
		pool := NewStrategyPool(nil)

		a := rand.New(rand.NewSource(42))
		b := rand.New(rand.NewSource(42))

		for range 20 {
			assert.Equal(t, pool.Select(a), pool.Select(b))
		}
	})

	t.Run("nil generator still selects a concrete mode", func(t *testing.T) {
		assert.Contains(t, m.Modes, NewStrategyPool(nil).Select(nil))
	})
}
