// Package model defines the data structures shared by the mutation engines,
// the workflow and the output layer.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned for a mode name outside the known set.
var ErrUnknownMode = errors.New("unknown mutation mode")

// Mode names a mutation strategy.
type Mode string

const (
	// ModeConstraintInjection inserts one trait bound at one constraint site.
	ModeConstraintInjection Mode = "constraint_injection"
	// ModeProjectionRewrite replaces one concrete type with an equivalent
	// associated-type projection.
	ModeProjectionRewrite Mode = "projection_rewrite"
	// ModeRandom lets the strategy pool pick one of the modes above.
	ModeRandom Mode = "random"
)

// Modes lists the concrete strategies in a stable order.
var Modes = []Mode{ModeConstraintInjection, ModeProjectionRewrite}

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case ModeConstraintInjection, ModeProjectionRewrite, ModeRandom:
		return mode, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// SiteKind identifies the syntactic position of a mutation site.
type SiteKind string

const (
	// SiteSupertrait is the supertrait list of a trait declaration.
	SiteSupertrait SiteKind = "supertrait"
	// SiteWhere is the where clause of an implementation block.
	SiteWhere SiteKind = "where"
	// SiteGenericBound is the bound list of a generic type parameter.
	SiteGenericBound SiteKind = "generic_bound"
	// SiteAssocBound is the bound list of a trait's associated type.
	SiteAssocBound SiteKind = "assoc_bound"
	// SiteRewrite is a type occurrence that can become a projection.
	SiteRewrite SiteKind = "rewrite"
)

// Selection carries the optional forced indices of one mutation request.
// Site addresses a site in traversal order; Choice addresses a candidate
// inside that site, or the flattened choice space when Site is nil.
type Selection struct {
	Site   *int
	Choice *int
}

// Outcome reports what a single mutation attempt did.
type Outcome struct {
	Mode        Mode `json:"mode" yaml:"mode"`
	Mutated     bool `json:"mutated" yaml:"mutated"`
	SiteCount   int  `json:"site_count" yaml:"site_count"`
	ChoiceCount int  `json:"choice_count" yaml:"choice_count"`
	SiteIndex   int  `json:"site_index" yaml:"site_index"`
	ChoiceIndex int  `json:"choice_index" yaml:"choice_index"`
	LocalIndex  int  `json:"local_index" yaml:"local_index"`
	LocalCount  int  `json:"local_count" yaml:"local_count"`
	Overflow    bool `json:"overflow,omitempty" yaml:"overflow,omitempty"`
}

// SiteDebug describes one site with its resolved candidates.
type SiteDebug struct {
	Index      int      `json:"index" yaml:"index"`
	Kind       SiteKind `json:"kind" yaml:"kind"`
	Label      string   `json:"label" yaml:"label"`
	Candidates []string `json:"candidates" yaml:"candidates"`
}

// MutationResult is the product of mutating one source text.
type MutationResult struct {
	Output     []byte
	Outcome    Outcome
	ParseError error
	Fallback   bool
}

// Mutation is one generated mutant of a seed in a batch run.
type Mutation struct {
	ID      string  `json:"id" yaml:"id"`
	Index   int     `json:"index" yaml:"index"`
	Seed    Path    `json:"seed" yaml:"seed"`
	Output  Path    `json:"output,omitempty" yaml:"output,omitempty"`
	Hash    string  `json:"hash" yaml:"hash"`
	RNGSeed int64   `json:"rng_seed" yaml:"rng_seed"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Content []byte  `json:"-" yaml:"-"`
}
