package graphdump

import (
	"fmt"

	"github.com/hepqca/qca/internal/cells"
	"github.com/hepqca/qca/internal/evolve"
	"github.com/hepqca/qca/internal/tracks"
)

// Build assembles a Graph from one run's CellTable, CellularAutomaton and
// extracted Tracks. set may be nil, in which case no node carries a TrackID.
func Build(name string, ct *cells.Table, a *evolve.Automaton, set *tracks.Set) *Graph {
	layerOf := cellLayers(ct)
	trackOf := cellTracks(set)

	nodes := make([]*Node, ct.Len())
	for c := 0; c < ct.Len(); c++ {
		inner, outer := ct.HitPair(int32(c))
		node := &Node{
			ID:       int32(c),
			InnerHit: inner,
			OuterHit: outer,
			Layer:    layerOf[c],
			TrackID:  trackOf[int32(c)],
		}
		if a != nil && c < len(a.States) {
			node.State = a.States[c]
		}
		nodes[c] = node
	}

	var edges []*Edge
	var maxState int32
	if a != nil {
		for c, neighs := range a.InnerNeighs {
			for _, n := range neighs {
				edges = append(edges, &Edge{
					ID:     edgeID(int32(c), n),
					Source: int32(c),
					Target: n,
				})
			}
		}
		for _, s := range a.States {
			if s > maxState {
				maxState = s
			}
		}
	}

	trackCount := 0
	if set != nil {
		for _, chains := range set.ByLength {
			trackCount += len(chains)
		}
	}

	return &Graph{
		Name:  name,
		Nodes: nodes,
		Edges: edges,
		Stats: Stats{
			CellCount:  ct.Len(),
			EdgeCount:  len(edges),
			TrackCount: trackCount,
			MaxState:   maxState,
		},
	}
}

// cellLayers maps every cell_id to the layer its inner hit was formed on, by
// walking the CellTable's recorded per-layer ranges.
func cellLayers(ct *cells.Table) []int64 {
	layerOf := make([]int64, ct.Len())
	for _, layerID := range ct.Layers() {
		begin, end, ok := ct.LayerRange(layerID)
		if !ok {
			continue
		}
		for c := begin; c < end; c++ {
			layerOf[c] = layerID
		}
	}
	return layerOf
}

// cellTracks maps every cell_id that belongs to a surviving chain to its
// 1-based track index, in the order chains are visited within set.ByLength.
func cellTracks(set *tracks.Set) map[int32]int {
	trackOf := make(map[int32]int)
	if set == nil {
		return trackOf
	}

	id := 0
	for _, chains := range set.ByLength {
		for _, chain := range chains {
			id++
			for _, c := range chain {
				trackOf[c] = id
			}
		}
	}
	return trackOf
}

func edgeID(source, target int32) string {
	return fmt.Sprintf("%d->%d", source, target)
}
