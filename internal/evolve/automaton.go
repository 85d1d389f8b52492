// Package evolve holds the cellular-automaton state (one integer per cell,
// one neighbour list per cell) and the synchronous sweep that propagates it.
package evolve

// Automaton is the DAG of cells produced by the NeighbourLinker, together
// with the per-cell state used by the Evolver and consumed by the
// TrackExtractor.
//
// InnerNeighs[c] lists the cell_ids of c's inner neighbours: cells that
// share c's inner hit as their outer hit and passed the angle gate. The DAG
// points from outer cells to inner cells, mirroring how a track is walked
// from its outermost segment back toward the interaction point.
type Automaton struct {
	States      []int32
	InnerNeighs [][]int32
}

// New allocates an Automaton for n cells with every state initialised to 1,
// the synchronous sweep's fixed point for a cell with no inner neighbours.
func New(n int) *Automaton {
	a := &Automaton{
		States:      make([]int32, n),
		InnerNeighs: make([][]int32, n),
	}
	for i := range a.States {
		a.States[i] = 1
	}
	return a
}

// Len returns the number of cells in the automaton.
func (a *Automaton) Len() int {
	return len(a.States)
}
