package ingest

import (
	"sort"

	"github.com/hepqca/qca/internal/truth"
	"github.com/hepqca/qca/pkg/model"
)

// remapVolumes rewrites layer_id to 100*volume_id+layer_id so that hits on
// the same nominal layer but different detector volumes never collide, then
// drops hits whose volume_id is not in volumeIDs (empty volumeIDs keeps
// everything).
func remapVolumes(rows []model.Hit, volumeOf map[int64]int64, volumeIDs []int64) []model.Hit {
	allow := make(map[int64]bool, len(volumeIDs))
	for _, v := range volumeIDs {
		allow[v] = true
	}

	out := make([]model.Hit, 0, len(rows))
	for _, h := range rows {
		vol := volumeOf[h.HitID]
		if len(allow) > 0 && !allow[vol] {
			continue
		}
		h.LayerID = 100*vol + h.LayerID
		out = append(out, h)
	}
	return out
}

// dedupePerParticleLayer keeps only the first (by ascending hit_id) hit a
// particle has on each layer, dropping the rest from both the hit rows and
// the truth rows so the two stay consistent.
func dedupePerParticleLayer(rows []model.Hit, truthRows []truth.Row) ([]model.Hit, []truth.Row) {
	if len(truthRows) == 0 {
		return rows, truthRows
	}

	particleOf := make(map[int64]int64, len(truthRows))
	for _, r := range truthRows {
		particleOf[r.HitID] = r.ParticleID
	}

	sorted := append([]model.Hit(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].HitID < sorted[j].HitID })

	type key struct {
		particle int64
		layer    int64
	}
	seen := make(map[key]bool, len(sorted))
	keep := make(map[int64]bool, len(sorted))

	for _, h := range sorted {
		p, ok := particleOf[h.HitID]
		if !ok {
			keep[h.HitID] = true
			continue
		}
		k := key{particle: p, layer: h.LayerID}
		if seen[k] {
			continue
		}
		seen[k] = true
		keep[h.HitID] = true
	}

	filteredHits := make([]model.Hit, 0, len(rows))
	for _, h := range rows {
		if keep[h.HitID] {
			filteredHits = append(filteredHits, h)
		}
	}

	filteredTruth := make([]truth.Row, 0, len(truthRows))
	for _, r := range truthRows {
		if keep[r.HitID] {
			filteredTruth = append(filteredTruth, r)
		}
	}

	return filteredHits, filteredTruth
}
