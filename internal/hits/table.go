// Package hits holds the read-only table of detector hits that seeds the
// cellular-automaton pipeline.
package hits

import (
	"sort"

	"github.com/hepqca/qca/pkg/model"
)

// Table is an ordered, read-only sequence of hits, queryable by layer_id.
type Table struct {
	rows    []model.Hit
	layers  []int64
	byLayer map[int64][]int32
}

// NewTable builds a Table from raw hit rows. Rows are not required to be
// pre-sorted by layer; NewTable derives the sorted distinct layer list and
// a per-layer index regardless of input order.
func NewTable(rows []model.Hit) *Table {
	byLayer := make(map[int64][]int32, 8)
	for i, h := range rows {
		byLayer[h.LayerID] = append(byLayer[h.LayerID], int32(i))
	}

	layers := make([]int64, 0, len(byLayer))
	for l := range byLayer {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })

	return &Table{rows: rows, layers: layers, byLayer: byLayer}
}

// Len returns the total number of hits.
func (t *Table) Len() int {
	return len(t.rows)
}

// Hit returns the hit at the given row index.
func (t *Table) Hit(idx int32) model.Hit {
	return t.rows[idx]
}

// Layers returns the sorted list of distinct layer_id values present in the
// table.
func (t *Table) Layers() []int64 {
	return t.layers
}

// LayerHits returns the row indices of hits on the given layer, in their
// original table order.
func (t *Table) LayerHits(layerID int64) []int32 {
	return t.byLayer[layerID]
}
