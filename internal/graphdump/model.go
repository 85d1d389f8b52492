// Package graphdump exports a completed run's CellTable, CellularAutomaton
// and Tracks as a plain JSON node/edge document for offline inspection. It is
// adapted from the reference's call graph data model: the same Node/Edge/
// Graph shape, with sample counts and module labels replaced by hit ids,
// layers and automaton states. It produces data, never rendered output —
// there is no DOT or xdot_json writer here.
package graphdump

// Node is one formed cell, as a node pointing from its outer hit toward its
// inner hit.
type Node struct {
	ID       int32 `json:"id"`
	InnerHit int64 `json:"innerHit"`
	OuterHit int64 `json:"outerHit"`
	Layer    int64 `json:"layer"`
	State    int32 `json:"state"`

	// TrackID is the 1-based index of the extracted track this cell belongs
	// to, or 0 if the cell was not part of any surviving chain.
	TrackID int `json:"trackId,omitempty"`
}

// Edge is one inner-neighbour link in the automaton's DAG: Source is the
// outer cell, Target is the inner cell it points to.
type Edge struct {
	ID     string `json:"id"`
	Source int32  `json:"source"`
	Target int32  `json:"target"`
}

// Stats summarizes a Graph's size.
type Stats struct {
	CellCount  int   `json:"cellCount"`
	EdgeCount  int   `json:"edgeCount"`
	TrackCount int   `json:"trackCount"`
	MaxState   int32 `json:"maxState"`
}

// Graph is the complete exported document for one run.
type Graph struct {
	Name  string  `json:"name,omitempty"`
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
	Stats Stats   `json:"stats"`
}
