// Package neighbours links cells across adjacent layer pairs into the DAG
// consumed by the Evolver: two cells that share a hit and whose directions
// agree within an angle tolerance become inner/outer neighbours.
package neighbours

import (
	"context"
	"math"

	"github.com/hepqca/qca/internal/cells"
	"github.com/hepqca/qca/internal/evolve"
	"github.com/hepqca/qca/pkg/errors"
	"github.com/hepqca/qca/pkg/geometry"
	"github.com/hepqca/qca/pkg/parallel"
)

// Linker is the NeighbourLinker stage.
type Linker struct {
	maxAngle   float64
	parallel   bool
	poolConfig parallel.PoolConfig
	degenerate int
}

// NewLinker constructs a Linker. maxAngle must lie in (0, pi).
func NewLinker(maxAngle float64, opts ...Option) (*Linker, error) {
	if maxAngle <= 0 || maxAngle >= math.Pi {
		return nil, errors.Wrap(errors.CodeInvalidConfig, "neigh_angle must be in (0, pi)", nil)
	}
	l := &Linker{maxAngle: maxAngle, poolConfig: parallel.DefaultPoolConfig()}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Option configures a Linker.
type Option func(*Linker)

// WithParallel enables the data-parallel per-layer-triad linking backend:
// one task per triad, collected into the Automaton by slot rather than
// append order, so the result matches the sequential one exactly.
func WithParallel(enabled bool) Option {
	return func(l *Linker) { l.parallel = enabled }
}

// DegenerateCount returns the number of candidate pairs skipped because one
// of the two cells has zero length, since the last call to Link.
func (l *Linker) DegenerateCount() int {
	return l.degenerate
}

type triadResult struct {
	neighs     map[int32][]int32
	degenerate int
}

type triadInput struct {
	innerLayer, midLayer int64
}

// Link walks every triad of adjacent layers in ct and builds the Automaton
// DAG: for each pair of cells sharing a hit on the middle layer, the pair is
// linked if the angle between their directions is at most maxAngle.
func (l *Linker) Link(ct *cells.Table) (*evolve.Automaton, error) {
	l.degenerate = 0

	a := evolve.New(ct.Len())
	layers := ct.Layers()
	if len(layers) < 3 {
		return a, nil
	}

	triadCount := len(layers) - 2
	results := make([]triadResult, triadCount)

	if l.parallel {
		inputs := make([]triadInput, triadCount)
		for k := 0; k < triadCount; k++ {
			inputs[k] = triadInput{innerLayer: layers[k], midLayer: layers[k+1]}
		}
		pool := parallel.NewWorkerPool[triadInput, triadResult](l.poolConfig)
		taskResults := pool.ExecuteFunc(context.Background(), inputs, func(_ context.Context, in triadInput) (triadResult, error) {
			return l.linkTriad(ct, in.innerLayer, in.midLayer), nil
		})
		for k, tr := range taskResults {
			results[k] = tr.Result
		}
	} else {
		for k := 0; k < triadCount; k++ {
			results[k] = l.linkTriad(ct, layers[k], layers[k+1])
		}
	}

	for k := 0; k < triadCount; k++ {
		for o, innerCells := range results[k].neighs {
			a.InnerNeighs[o] = append(a.InnerNeighs[o], innerCells...)
		}
		l.degenerate += results[k].degenerate
	}

	return a, nil
}

// linkTriad finds the linked pairs for one (innerLayer, midLayer) triad.
func (l *Linker) linkTriad(ct *cells.Table, innerLayer, midLayer int64) triadResult {
	r := triadResult{neighs: make(map[int32][]int32)}

	innerBegin, innerEnd, ok := ct.LayerRange(innerLayer)
	if !ok {
		return r
	}
	outerBegin, outerEnd, ok := ct.LayerRange(midLayer)
	if !ok {
		return r
	}

	byMidHit := make(map[int64][]int32)
	for c := innerBegin; c < innerEnd; c++ {
		hitID := ct.OuterHitID(c)
		byMidHit[hitID] = append(byMidHit[hitID], c)
	}

	for o := outerBegin; o < outerEnd; o++ {
		candidates, ok := byMidHit[ct.InnerHitID(o)]
		if !ok {
			continue
		}

		oInner, oOuter := ct.Positions(o)
		oVec := oOuter.Sub(oInner)

		for _, i := range candidates {
			iInner, iOuter := ct.Positions(i)
			iVec := iOuter.Sub(iInner)

			angle, ok := geometry.Angle(iVec, oVec)
			if !ok {
				r.degenerate++
				continue
			}
			if angle <= l.maxAngle {
				r.neighs[o] = append(r.neighs[o], i)
			}
		}
	}

	return r
}
