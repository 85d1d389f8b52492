// Package tracks extracts length-ordered track candidates from an evolved
// Automaton by repeatedly seeding from the longest surviving state and
// carving consumed cells out before moving to shorter lengths.
package tracks

import (
	"sort"

	"github.com/hepqca/qca/internal/cells"
	"github.com/hepqca/qca/internal/evolve"
	"github.com/hepqca/qca/pkg/collections"
	"github.com/hepqca/qca/pkg/errors"
)

// Chain is one reconstructed track, as the ordered sequence of cell_ids from
// outermost to innermost.
type Chain []int32

// Set groups reconstructed chains by length, keyed by the number of cells in
// the chain.
type Set struct {
	ByLength map[int][]Chain

	// Remaining is the number of cells still alive once extraction stops,
	// i.e. cells too short (or too disconnected) to ever reach minLength.
	Remaining int
}

// Size returns the total number of chains across all lengths.
func (s *Set) Size() int {
	n := 0
	for _, chains := range s.ByLength {
		n += len(chains)
	}
	return n
}

// HitView converts every chain to its hit_id sequence: outer(c1), outer(c2),
// ..., outer(cL), inner(cL), sorted ascending. The result is keyed by hit
// count (cell length + 1), matching the ground-truth track_dict convention.
func (s *Set) HitView(ct *cells.Table) map[int][][]int64 {
	out := make(map[int][][]int64, len(s.ByLength))
	for cellLen, chains := range s.ByLength {
		hitLen := cellLen + 1
		views := make([][]int64, 0, len(chains))
		for _, chain := range chains {
			hitIDs := make([]int64, 0, hitLen)
			for _, c := range chain {
				hitIDs = append(hitIDs, ct.OuterHitID(c))
			}
			hitIDs = append(hitIDs, ct.InnerHitID(chain[len(chain)-1]))
			sort.Slice(hitIDs, func(i, j int) bool { return hitIDs[i] < hitIDs[j] })
			views = append(views, hitIDs)
		}
		out[hitLen] = views
	}
	return out
}

// Extractor is the TrackExtractor stage.
type Extractor struct {
	minLength int
}

// NewExtractor constructs an Extractor. minLength is the minimum number of
// cells a surviving chain must have, and must be at least 1.
func NewExtractor(minLength int) (*Extractor, error) {
	if minLength < 1 {
		return nil, errors.Wrap(errors.CodeInvalidConfig, "min_length must be >= 1", nil)
	}
	return &Extractor{minLength: minLength}, nil
}

// MinLength returns the minimum chain length this Extractor accepts.
func (e *Extractor) MinLength() int {
	return e.minLength
}

type frame struct {
	cell      int32
	idx       int
	pushedAny bool
}

// Extract walks an evolved Automaton from its longest surviving state down
// to minLength, at each length enumerating every chain that ends (inward)
// at a cell with no remaining inner neighbours, then carving consumed cells
// out of the working graph before continuing to the next, shorter length.
func (e *Extractor) Extract(a *evolve.Automaton) (*Set, error) {
	n := a.Len()
	alive := collections.NewBitset(n)
	alive.SetAll()

	neighs := make([][]int32, n)
	for i, ns := range a.InnerNeighs {
		neighs[i] = append([]int32(nil), ns...)
	}

	maxState := int32(0)
	for _, s := range a.States {
		if s > maxState {
			maxState = s
		}
	}

	set := &Set{ByLength: make(map[int][]Chain)}

	for length := int(maxState); length >= e.minLength; length-- {
		var seeds []int32
		for c := 0; c < n; c++ {
			if alive.Test(c) && int(a.States[c]) == length {
				seeds = append(seeds, int32(c))
			}
		}
		if len(seeds) == 0 {
			continue
		}

		var chains []Chain
		for _, seed := range seeds {
			for _, chain := range e.walk(seed, neighs, alive) {
				if len(chain) < length {
					continue
				}
				chains = append(chains, chain)
			}
		}
		if len(chains) == 0 {
			continue
		}

		set.ByLength[length] = append(set.ByLength[length], chains...)

		for _, chain := range chains {
			for _, c := range chain {
				alive.Clear(int(c))
				neighs[c] = nil
			}
		}
		for c := 0; c < n; c++ {
			if !alive.Test(c) {
				continue
			}
			filtered := neighs[c][:0]
			for _, in := range neighs[c] {
				if alive.Test(int(in)) {
					filtered = append(filtered, in)
				}
			}
			neighs[c] = filtered
		}
	}

	set.Remaining = alive.Count()
	return set, nil
}

// walk performs an explicit-stack depth-first search from seed inward along
// still-alive neighbour edges, returning every maximal path to a cell with
// no remaining inner neighbours.
func (e *Extractor) walk(seed int32, neighs [][]int32, alive *collections.Bitset) []Chain {
	var results []Chain
	path := []int32{seed}
	stack := collections.NewStack[*frame](len(neighs))
	stack.Push(&frame{cell: seed, idx: 0})

	for !stack.IsEmpty() {
		top, _ := stack.Peek()
		ns := neighs[top.cell]

		if top.idx >= len(ns) {
			if !top.pushedAny {
				results = append(results, append(Chain(nil), path...))
			}
			stack.Pop()
			path = path[:len(path)-1]
			continue
		}

		next := ns[top.idx]
		top.idx++
		if !alive.Test(int(next)) {
			continue
		}

		top.pushedAny = true
		path = append(path, next)
		stack.Push(&frame{cell: next, idx: 0})
	}

	return results
}
