package model

import "time"

// Metrics is the aggregate view of a tree used by seed heuristics.
type Metrics struct {
	ConstraintSites      int `json:"constraint_sites" yaml:"constraint_sites"`
	ConstraintChoiceSum  int `json:"constraint_choice_sum" yaml:"constraint_choice_sum"`
	RewriteSites         int `json:"rewrite_sites" yaml:"rewrite_sites"`
	RewriteChoiceSum     int `json:"rewrite_choice_sum" yaml:"rewrite_choice_sum"`
	Traits               int `json:"traits" yaml:"traits"`
	Types                int `json:"types" yaml:"types"`
	ImplEdges            int `json:"impl_edges" yaml:"impl_edges"`
	BlanketEdges         int `json:"impl_edges_blanket" yaml:"impl_edges_blanket"`
	SupertraitEdges      int `json:"supertrait_edges" yaml:"supertrait_edges"`
	TraitAssocTypes      int `json:"trait_assoc_types" yaml:"trait_assoc_types"`
	ImplAssocBindings    int `json:"impl_assoc_bindings" yaml:"impl_assoc_bindings"`
	ImplBlanketTemplates int `json:"impl_blanket_templates" yaml:"impl_blanket_templates"`
	SeedScore            int `json:"seed_score" yaml:"seed_score"`
}

// SeedScore weighs a seed by the size of its constraint choice space.
func SeedScore(constraintChoiceSum int) int {
	return max(1, constraintChoiceSum)
}

// SeedReport groups the mutants generated from one seed.
type SeedReport struct {
	Seed      File       `json:"seed" yaml:"seed"`
	Score     int        `json:"score" yaml:"score"`
	Generated int        `json:"generated" yaml:"generated"`
	Mutations []Mutation `json:"mutations" yaml:"mutations"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Unique returns how many distinct mutants were kept.
func (r SeedReport) Unique() int {
	return len(r.Mutations)
}

// Mutated returns how many kept mutants changed the seed.
func (r SeedReport) Mutated() int {
	n := 0

	for _, mu := range r.Mutations {
		if mu.Outcome.Mutated {
			n++
		}
	}

	return n
}

// BatchReport is the persisted summary of a batch run.
type BatchReport struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	StartedAt time.Time    `json:"started_at" yaml:"started_at"`
	Duration  string       `json:"duration" yaml:"duration"`
	RNGSeed   int64        `json:"rng_seed" yaml:"rng_seed"`
	Seeds     []SeedReport `json:"seeds" yaml:"seeds"`
}
