// Package domain contains the traitmut workflows: single-file mutation,
// metrics, site inspection and parallel batch generation.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"traitmut.dev/pkg/traitmut/internal/adapter"
	"traitmut.dev/pkg/traitmut/internal/domain/mutagens"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

// Mutagen runs the mutation engines over source text.
type Mutagen interface {
	// MutateSource applies one mutation of the given mode. Input that does
	// not parse is passed through unchanged with ParseError set.
	MutateSource(ctx context.Context, src []byte, mode m.Mode, sel m.Selection, rng *rand.Rand) (m.MutationResult, error)

	// Metrics reports graph statistics and the choice space of both engines.
	Metrics(ctx context.Context, src []byte) (m.Metrics, error)

	// Inspect lists the sites of one engine with their candidates.
	Inspect(ctx context.Context, src []byte, mode m.Mode) ([]m.SiteDebug, error)

	// Graph extracts the trait/type dependency graph.
	Graph(ctx context.Context, src []byte) (m.DependencyGraph, error)
}

type mutagen struct {
	adapter.RustFileAdapter
	StrategyPool
}

// NewMutagen creates a new Mutagen instance.
func NewMutagen(rustFileAdapter adapter.RustFileAdapter, pool StrategyPool) Mutagen {
	return &mutagen{
		RustFileAdapter: rustFileAdapter,
		StrategyPool:    pool,
	}
}

func (mg *mutagen) MutateSource(ctx context.Context, src []byte, mode m.Mode, sel m.Selection, rng *rand.Rand) (m.MutationResult, error) {
	if mode == m.ModeRandom {
		mode = mg.Select(rng)
		slog.Debug("strategy pool selected mode", "mode", mode)
	}

	engine, err := mutagens.NewEngine(mode)
	if err != nil {
		return m.MutationResult{}, err
	}

	result := m.MutationResult{
		Output:  src,
		Outcome: m.Outcome{Mode: mode},
	}

	file, err := mg.Parse(ctx, src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.MutationResult{}, ctxErr
		}

		slog.Warn("parse failed, passing input through", "error", err)
		result.ParseError = err

		return result, nil
	}

	result.Outcome = engine.Mutate(file, sel, rng)

	slog.Debug("mutation attempted",
		"mode", mode,
		"mutated", result.Outcome.Mutated,
		"sites", result.Outcome.SiteCount,
		"choices", result.Outcome.ChoiceCount,
		"site", result.Outcome.SiteIndex,
		"choice", result.Outcome.ChoiceIndex,
	)

	if !result.Outcome.Mutated {
		return result, nil
	}

	out, err := mg.Print(file)
	if err != nil {
		slog.Warn("printer failed, falling back to token output", "error", err)

		out = mg.PrintTokens(file)
		result.Fallback = true
	}

	result.Output = out

	return result, nil
}

func (mg *mutagen) Metrics(ctx context.Context, src []byte) (m.Metrics, error) {
	file, err := mg.Parse(ctx, src)
	if err != nil {
		return m.Metrics{}, fmt.Errorf("metrics: %w", err)
	}

	graph := mutagens.Extract(file)

	var metrics m.Metrics

	metrics.ConstraintSites, metrics.ConstraintChoiceSum = mutagens.NewConstraintInjection().Metrics(file)
	metrics.RewriteSites, metrics.RewriteChoiceSum = mutagens.NewProjectionRewrite().Metrics(file)
	metrics.Traits = len(graph.Traits)
	metrics.Types = len(graph.Types)
	metrics.ImplEdges = len(graph.ImplEdges)
	metrics.BlanketEdges = len(graph.BlanketEdges)
	metrics.SupertraitEdges = len(graph.SupertraitEdges)
	metrics.TraitAssocTypes = len(graph.TraitAssocTypes)
	metrics.ImplAssocBindings = len(graph.Bindings)
	metrics.ImplBlanketTemplates = len(graph.Templates)
	metrics.SeedScore = m.SeedScore(metrics.ConstraintChoiceSum)

	return metrics, nil
}

func (mg *mutagen) Inspect(ctx context.Context, src []byte, mode m.Mode) ([]m.SiteDebug, error) {
	engine, err := mutagens.NewEngine(mode)
	if err != nil {
		return nil, err
	}

	file, err := mg.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}

	sites := engine.Sites(file)
	slog.Debug("sites collected", "mode", mode, "count", len(sites))

	return sites, nil
}

func (mg *mutagen) Graph(ctx context.Context, src []byte) (m.DependencyGraph, error) {
	file, err := mg.Parse(ctx, src)
	if err != nil {
		return m.DependencyGraph{}, fmt.Errorf("graph: %w", err)
	}

	return mutagens.Extract(file), nil
}
