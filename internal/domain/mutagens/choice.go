package mutagens

import (
	"math/rand"
	"sort"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

// ChoiceEntry addresses one candidate of one site.
type ChoiceEntry struct {
	Site       int
	Local      int
	LocalCount int
}

// ChoiceSpace flattens per-site candidate counts into one index range.
// Flat index k belongs to the site whose prefix-sum range contains k.
type ChoiceSpace struct {
	counts   []int
	offsets  []int
	total    int
	limit    int
	overflow bool
}

// NewChoiceSpace returns an empty space that overflows past limit choices.
func NewChoiceSpace(limit int) *ChoiceSpace {
	return &ChoiceSpace{limit: limit}
}

// Add appends a site with n candidates.
func (c *ChoiceSpace) Add(n int) {
	c.offsets = append(c.offsets, c.total)
	c.counts = append(c.counts, n)
	c.total += n

	if c.limit > 0 && c.total > c.limit {
		c.overflow = true
	}
}

// Sites returns the number of sites added.
func (c *ChoiceSpace) Sites() int {
	return len(c.counts)
}

// Total returns the number of flattened choices.
func (c *ChoiceSpace) Total() int {
	return c.total
}

// Overflow reports whether the space grew past its limit.
func (c *ChoiceSpace) Overflow() bool {
	return c.overflow
}

// LocalCount returns the candidate count of site.
func (c *ChoiceSpace) LocalCount(site int) int {
	if site < 0 || site >= len(c.counts) {
		return 0
	}

	return c.counts[site]
}

// Resolve maps a flat index in [0, Total) to its site and local index.
func (c *ChoiceSpace) Resolve(flat int) (ChoiceEntry, bool) {
	if flat < 0 || flat >= c.total {
		return ChoiceEntry{}, false
	}

	site := sort.Search(len(c.offsets), func(i int) bool {
		return c.offsets[i]+c.counts[i] > flat
	})

	return ChoiceEntry{
		Site:       site,
		Local:      flat - c.offsets[site],
		LocalCount: c.counts[site],
	}, true
}

// Entries lists every choice in flat order.
func (c *ChoiceSpace) Entries() []ChoiceEntry {
	out := make([]ChoiceEntry, 0, c.total)
	for site, n := range c.counts {
		for local := range n {
			out = append(out, ChoiceEntry{Site: site, Local: local, LocalCount: n})
		}
	}

	return out
}

// Select resolves sel against the space and returns the entry with its flat
// index.
//
// With a forced site, the site wraps modulo the site count and moves forward
// to the next site that has candidates; the forced choice then wraps inside
// that site, or a random candidate of the site is drawn. With only a forced
// choice, it wraps modulo the total. Otherwise a flat index is drawn
// uniformly.
func (c *ChoiceSpace) Select(sel m.Selection, rng *rand.Rand) (ChoiceEntry, int, bool) {
	if c.overflow || c.total == 0 {
		return ChoiceEntry{}, 0, false
	}

	if sel.Site != nil {
		n := len(c.counts)
		start := wrap(*sel.Site, n)

		for step := range n {
			site := (start + step) % n

			k := c.counts[site]
			if k == 0 {
				continue
			}

			var local int
			if sel.Choice != nil {
				local = wrap(*sel.Choice, k)
			} else {
				local = rng.Intn(k)
			}

			return ChoiceEntry{Site: site, Local: local, LocalCount: k}, c.offsets[site] + local, true
		}

		return ChoiceEntry{}, 0, false
	}

	var flat int
	if sel.Choice != nil {
		flat = wrap(*sel.Choice, c.total)
	} else {
		flat = rng.Intn(c.total)
	}

	entry, ok := c.Resolve(flat)

	return entry, flat, ok
}
