package mutagens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

func TestExtract(t *testing.T) {
	t.Run("records traits, types and plain implementation edges", func(t *testing.T) {
		g := Extract(parseExample(t, "projection"))

		assert.Equal(t, []string{"Tr"}, g.Traits)
		assert.Equal(t, []string{"S"}, g.Types)
		assert.Equal(t, []m.ImplEdge{{Type: "S", Trait: "Tr"}}, g.ImplEdges)
		assert.Empty(t, g.BlanketEdges)
		assert.Equal(t, []m.TraitAssoc{{Trait: "Tr", Assoc: "Assoc"}}, g.TraitAssocTypes)

		require.Len(t, g.Bindings, 1)
		assert.Equal(t, "i32", g.Bindings[0].RhsKey)
		assert.Equal(t, "<S as Tr>::Assoc", g.Bindings[0].Projection())
	})

	t.Run("classifies blanket implementations as templates", func(t *testing.T) {
		g := Extract(parseExample(t, "blanket"))

		assert.Equal(t, []string{"Marker", "Show"}, g.Traits)
		assert.Equal(t, []string{"A", "B"}, g.Types)
		assert.Equal(t, []m.ImplEdge{{Type: "A", Trait: "Marker"}, {Type: "T", Trait: "Show"}}, g.ImplEdges)
		assert.Equal(t, []m.ImplEdge{{Type: "T", Trait: "Show"}}, g.BlanketEdges)
		assert.Equal(t, []m.ImplEdge{{Type: "A", Trait: "Marker"}}, g.ConcreteEdges())

		require.Len(t, g.Templates, 2)
		assert.Equal(t, "(T,U)", g.Templates[0].PatternKey)
		assert.Equal(t, "(T, U)", g.Templates[0].Pattern)
		assert.Equal(t, []string{"T", "U"}, g.Templates[0].Params)
		assert.False(t, g.Templates[0].IsBareParam())
		assert.Equal(t, "T", g.Templates[1].PatternKey)
		assert.True(t, g.Templates[1].IsBareParam())

		// the binding of a generic self type is not concrete
		assert.Empty(t, g.Bindings)
	})

	t.Run("records associated types with and without defaults", func(t *testing.T) {
		g := Extract(parseSource(t, "trait A {}\ntrait B { type D = i32; type F; }\n"))

		assert.Equal(t, []m.TraitAssoc{{Trait: "B", Assoc: "D"}, {Trait: "B", Assoc: "F"}}, g.TraitAssocTypes)
		assert.Empty(t, g.Bindings)
	})

	t.Run("keeps a plain edge that shares its pair with a blanket edge", func(t *testing.T) {
		g := Extract(parseSource(t, "trait Tr {}\nstruct T;\nimpl<T> Tr for T {}\nimpl Tr for T {}\n"))

		edge := []m.ImplEdge{{Type: "T", Trait: "Tr"}}
		assert.Equal(t, edge, g.ImplEdges)
		assert.Equal(t, edge, g.BlanketEdges)
		assert.Equal(t, edge, g.ConcreteEdges())
	})

	t.Run("records simple supertraits only", func(t *testing.T) {
		g := Extract(parseSource(t, "trait Base {}\ntrait Tr: Base + Into<u8> + ?Sized {}\n"))

		assert.Equal(t, []m.SupertraitEdge{{Trait: "Tr", Supertrait: "Base"}}, g.SupertraitEdges)
	})

	t.Run("ignores implementations of non-plain types and inherent impls", func(t *testing.T) {
		g := Extract(parseSource(t, "struct S;\ntrait Tr {}\nimpl Tr for &S {}\nimpl S {}\n"))

		assert.Empty(t, g.ImplEdges)
		assert.Empty(t, g.Templates)
	})

	t.Run("is idempotent and leaves the tree untouched", func(t *testing.T) {
		file := parseExample(t, "blanket")
		before := printFile(t, file)

		assert.Equal(t, Extract(file), Extract(file))
		assert.Equal(t, before, printFile(t, file))
	})

	t.Run("sorts and deduplicates", func(t *testing.T) {
		g := Extract(parseSource(t, "trait B {}\ntrait A {}\nstruct S;\nimpl B for S {}\nimpl B for S {}\n"))

		assert.Equal(t, []string{"A", "B"}, g.Traits)
		assert.Len(t, g.ImplEdges, 1)
	})

	t.Run("returns an empty graph for a nil file", func(t *testing.T) {
		assert.Equal(t, m.DependencyGraph{}, Extract(nil))
	})
}
