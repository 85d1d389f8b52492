// Package truth holds the ground-truth hit-to-particle mapping used only by
// the Evaluator; the core pipeline never reads it.
package truth

import "sort"

// Row is one (hit_id, particle_id) ground-truth record.
type Row struct {
	HitID      int64
	ParticleID int64
}

// Table maps hit_id to particle_id and derives the per-particle track
// statistics the Evaluator needs.
type Table struct {
	particleOf map[int64]int64
	hitCounts  map[int64]int
	trackDict  map[int][][]int64
}

// NewTable builds a Table from ground-truth rows.
func NewTable(rows []Row) *Table {
	particleOf := make(map[int64]int64, len(rows))
	hitsByParticle := make(map[int64][]int64, len(rows))

	for _, r := range rows {
		particleOf[r.HitID] = r.ParticleID
		hitsByParticle[r.ParticleID] = append(hitsByParticle[r.ParticleID], r.HitID)
	}

	hitCounts := make(map[int64]int, len(hitsByParticle))
	trackDict := make(map[int][][]int64)

	for particleID, hitIDs := range hitsByParticle {
		hitCounts[particleID] = len(hitIDs)

		sorted := append([]int64(nil), hitIDs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		trackDict[len(sorted)] = append(trackDict[len(sorted)], sorted)
	}

	return &Table{particleOf: particleOf, hitCounts: hitCounts, trackDict: trackDict}
}

// ParticleID returns the particle_id ground-truth for a hit_id.
func (t *Table) ParticleID(hitID int64) (int64, bool) {
	p, ok := t.particleOf[hitID]
	return p, ok
}

// HitCounts returns, for every particle_id present, the number of hits
// belonging to it.
func (t *Table) HitCounts() map[int64]int {
	return t.hitCounts
}

// TrackDict returns, keyed by hit count, the sorted hit_id sequence of every
// particle with that many hits.
func (t *Table) TrackDict() map[int][][]int64 {
	return t.trackDict
}
