// Package cells forms directed hit-pair doublets ("cells") from adjacent
// detector layers and exposes them as a dense, column-oriented table.
package cells

import (
	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/pkg/geometry"
)

// layerRange is a half-open [begin, end) range of cell_ids.
type layerRange struct {
	begin, end int32
}

// Table is the column-store of formed cells: parallel inner/outer hit-index
// slices, plus the per-layer index ranges recorded at formation time. The
// layout mirrors a compressed-sparse-row graph: rows are grouped contiguously
// by their formation layer instead of scattered across a hash map.
type Table struct {
	ht *hits.Table

	innerIdx []int32 // row index into ht, per cell
	outerIdx []int32

	layers      []int64 // full layer order used to form adjacent pairs
	layerRanges map[int64]layerRange
}

// Len returns the number of formed cells.
func (t *Table) Len() int {
	return len(t.innerIdx)
}

// HitPair returns the (inner_hit_id, outer_hit_id) of a cell.
func (t *Table) HitPair(cellID int32) (innerHitID, outerHitID int64) {
	return t.ht.Hit(t.innerIdx[cellID]).HitID, t.ht.Hit(t.outerIdx[cellID]).HitID
}

// InnerHitID returns the inner hit_id of a cell.
func (t *Table) InnerHitID(cellID int32) int64 {
	return t.ht.Hit(t.innerIdx[cellID]).HitID
}

// OuterHitID returns the outer hit_id of a cell.
func (t *Table) OuterHitID(cellID int32) int64 {
	return t.ht.Hit(t.outerIdx[cellID]).HitID
}

// Positions returns the 3-vector positions of a cell's inner and outer hits.
func (t *Table) Positions(cellID int32) (inner, outer geometry.Vec3) {
	return t.ht.Hit(t.innerIdx[cellID]).Pos(), t.ht.Hit(t.outerIdx[cellID]).Pos()
}

// Layers returns the full sorted layer order used during formation. This is
// one entry longer than the set of keys in LayerRange: the last layer never
// appears as an inner layer.
func (t *Table) Layers() []int64 {
	return t.layers
}

// LayerRange returns the [begin, end) range of cell_ids whose inner hit lies
// on the given layer.
func (t *Table) LayerRange(layerID int64) (begin, end int32, ok bool) {
	r, ok := t.layerRanges[layerID]
	return r.begin, r.end, ok
}
