package domain

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"traitmut.dev/pkg/traitmut/internal/adapter"
	"traitmut.dev/pkg/traitmut/internal/controller"
	m "traitmut.dev/pkg/traitmut/internal/model"
	"traitmut.dev/pkg/traitmut/pkg"
)

// ErrNoSeeds is returned by Batch when the paths hold no Rust files.
var ErrNoSeeds = errors.New("no rust seeds found")

// MutateArgs describes a single-file mutation.
type MutateArgs struct {
	Input      m.Path
	Output     m.Path
	Mode       m.Mode
	Selection  m.Selection
	Seed       *int64
	EmitChoice bool
	Diff       bool
}

// MetricsArgs describes a metrics request.
type MetricsArgs struct {
	Input m.Path
}

// InspectArgs describes a site listing request.
type InspectArgs struct {
	Input  m.Path
	Mode   m.Mode
	Format string
}

// GraphArgs describes a dependency-graph request.
type GraphArgs struct {
	Input m.Path
}

// BatchArgs describes a batch generation run.
type BatchArgs struct {
	Paths   []m.Path
	Exclude []string
	Output  m.Path
	Count   int
	Threads int
	Mode    m.Mode
	Seed    int64
	Format  string
}

// Workflow wires the adapters, the mutagen and the UI into the commands.
type Workflow interface {
	Mutate(ctx context.Context, args MutateArgs) error
	Metrics(ctx context.Context, args MetricsArgs) error
	Inspect(ctx context.Context, args InspectArgs) error
	Graph(ctx context.Context, args GraphArgs) error
	Batch(ctx context.Context, args BatchArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Mutagen
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	mutagen Mutagen,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Mutagen:         mutagen,
	}
}

func (w *workflow) Mutate(ctx context.Context, args MutateArgs) error {
	src, err := w.ReadFile(args.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Input, err)
	}

	result, err := w.MutateSource(ctx, src, args.Mode, args.Selection, newRNG(args.Seed))
	if err != nil {
		return fmt.Errorf("mutate %s: %w", args.Input, err)
	}

	if err := w.writeOutput(ctx, args.Output, result.Output); err != nil {
		return err
	}

	if err := w.DisplayOutcome(ctx, result, args.EmitChoice); err != nil {
		return err
	}

	if args.Diff && result.Outcome.Mutated {
		return w.DisplayDiff(ctx, filepath.Base(string(args.Input)), src, result.Output)
	}

	return nil
}

func (w *workflow) writeOutput(ctx context.Context, path m.Path, content []byte) error {
	if path == "" || path == "-" {
		return w.DisplaySource(ctx, content)
	}

	if err := w.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func (w *workflow) Metrics(ctx context.Context, args MetricsArgs) error {
	src, err := w.ReadFile(args.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Input, err)
	}

	metrics, err := w.Mutagen.Metrics(ctx, src)
	if err != nil {
		return err
	}

	return w.DisplayMetrics(ctx, metrics)
}

func (w *workflow) Inspect(ctx context.Context, args InspectArgs) error {
	src, err := w.ReadFile(args.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Input, err)
	}

	sites, err := w.Mutagen.Inspect(ctx, src, args.Mode)
	if err != nil {
		return err
	}

	return w.DisplaySites(ctx, sites, args.Format)
}

func (w *workflow) Graph(ctx context.Context, args GraphArgs) error {
	src, err := w.ReadFile(args.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Input, err)
	}

	graph, err := w.Mutagen.Graph(ctx, src)
	if err != nil {
		return err
	}

	return w.DisplayGraph(ctx, graph)
}

// Batch generates args.Count mutants per seed in parallel. Job k of the run
// uses a generator seeded with args.Seed+k, so a run is reproducible for a
// fixed seed list. Mutants equal to their seed, or to an earlier mutant of
// the same seed and mode, are dropped.
func (w *workflow) Batch(ctx context.Context, args BatchArgs) error {
	started := time.Now()
	runID := uuid.NewString()

	seeds, err := collectSeeds(w.SourceFSAdapter, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("get seeds: %w", err)
	}

	if len(seeds) == 0 {
		return ErrNoSeeds
	}

	count := max(1, args.Count)
	threads := max(1, args.Threads)
	mode := cmp.Or(args.Mode, m.ModeRandom)

	slog.Info("batch started", "run_id", runID, "seeds", len(seeds), "count", count, "threads", threads, "mode", mode)

	reports, contents, err := w.scoreSeeds(ctx, seeds)
	if err != nil {
		return err
	}

	spill, err := pkg.NewFileSpill[m.Mutation]()
	if err != nil {
		return fmt.Errorf("create spill: %w", err)
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Warn("failed to close spill", "error", err)
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, seed := range seeds {
		if contents[i] == nil {
			continue
		}

		reports[i].Generated = count

		for j := range count {
			job := i*count + j

			group.Go(func() error {
				return w.batchJob(groupCtx, spill, seed, contents[i], mode, job, args.Seed+int64(job))
			})
		}
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("generate mutations: %w", err)
	}

	outDir := w.JoinPath(string(args.Output), runID)
	if err := w.MkdirAll(outDir); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	if err := w.collectMutations(spill, seeds, reports, count, outDir); err != nil {
		return err
	}

	report := m.BatchReport{
		RunID:     runID,
		StartedAt: started,
		Duration:  time.Since(started).Round(time.Millisecond).String(),
		RNGSeed:   args.Seed,
		Seeds:     reports,
	}

	reportPath, err := w.SaveReport(outDir, report, args.Format)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	return w.DisplayBatchSummary(ctx, report, reportPath)
}

// scoreSeeds reads every seed and computes its score. Seeds that cannot be
// read or parsed get a nil content and an error note.
func (w *workflow) scoreSeeds(ctx context.Context, seeds []m.File) ([]m.SeedReport, [][]byte, error) {
	reports := make([]m.SeedReport, len(seeds))
	contents := make([][]byte, len(seeds))

	for i, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		reports[i] = m.SeedReport{Seed: seed, Score: m.SeedScore(0)}

		src, err := w.ReadFile(seed.Path)
		if err != nil {
			slog.Warn("failed to read seed", "path", seed.Path, "error", err)
			reports[i].Error = err.Error()

			continue
		}

		metrics, err := w.Mutagen.Metrics(ctx, src)
		if err != nil {
			slog.Warn("skipping seed", "path", seed.Path, "error", err)
			reports[i].Error = err.Error()

			continue
		}

		reports[i].Score = metrics.SeedScore
		contents[i] = src
	}

	return reports, contents, nil
}

func (w *workflow) batchJob(ctx context.Context, spill pkg.FileSpill[m.Mutation], seed m.File, src []byte, mode m.Mode, job int, rngSeed int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(rngSeed)) //nolint:gosec // fuzzing, not crypto

	result, err := w.MutateSource(ctx, src, mode, m.Selection{}, rng)
	if err != nil {
		return fmt.Errorf("mutate %s: %w", seed.Path, err)
	}

	return spill.Append(m.Mutation{
		ID:      fmt.Sprintf("%06d", job),
		Index:   job,
		Seed:    seed.Path,
		Hash:    adapter.HashBytes(result.Output),
		RNGSeed: rngSeed,
		Outcome: result.Outcome,
		Content: result.Output,
	})
}

// collectMutations reads the spilled mutants back in job order, drops
// duplicates and writes the survivors under outDir.
func (w *workflow) collectMutations(spill pkg.FileSpill[m.Mutation], seeds []m.File, reports []m.SeedReport, count int, outDir m.Path) error {
	perSeed := make([][]m.Mutation, len(seeds))

	err := spill.Range(func(_ uint64, mutation m.Mutation) error {
		i := mutation.Index / count
		perSeed[i] = append(perSeed[i], mutation)

		return nil
	})
	if err != nil {
		return fmt.Errorf("read spilled mutations: %w", err)
	}

	for i, mutations := range perSeed {
		slices.SortFunc(mutations, func(a, b m.Mutation) int {
			return cmp.Compare(a.Index, b.Index)
		})

		for _, mutation := range dedupe(seeds[i].Hash, mutations) {
			path, err := w.SaveMutation(outDir, mutation)
			if err != nil {
				return err
			}

			mutation.Output = path
			mutation.Content = nil
			reports[i].Mutations = append(reports[i].Mutations, mutation)
		}

		slog.Debug("seed mutations kept", "seed", seeds[i].Path, "generated", len(mutations), "kept", len(reports[i].Mutations))
	}

	return nil
}

// dedupe keeps the first mutant of every (mode, content hash) pair and drops
// mutants identical to the seed.
func dedupe(seedHash string, mutations []m.Mutation) []m.Mutation {
	seen := make(map[string]bool, len(mutations))
	out := make([]m.Mutation, 0, len(mutations))

	for _, mutation := range mutations {
		if mutation.Hash == seedHash {
			continue
		}

		key := string(mutation.Outcome.Mode) + ":" + mutation.Hash
		if seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, mutation)
	}

	return out
}

func newRNG(seed *int64) *rand.Rand {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}

	return rand.New(rand.NewSource(s)) //nolint:gosec // fuzzing, not crypto
}
