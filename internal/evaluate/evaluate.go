// Package evaluate scores a reconstruction run against ground truth at the
// cell, neighbour, and track levels.
package evaluate

import (
	"fmt"

	"github.com/hepqca/qca/internal/cells"
	"github.com/hepqca/qca/internal/evolve"
	"github.com/hepqca/qca/internal/tracks"
	"github.com/hepqca/qca/internal/truth"
)

// Ratio is an efficiency or purity value that may be undefined when its
// denominator is zero.
type Ratio struct {
	Value     float64
	Available bool
}

// String renders the ratio, or "not available" when undefined.
func (r Ratio) String() string {
	if !r.Available {
		return "not available"
	}
	return fmt.Sprintf("%.6f", r.Value)
}

func ratio(numerator, denominator int) Ratio {
	if denominator == 0 {
		return Ratio{Available: false}
	}
	return Ratio{Value: float64(numerator) / float64(denominator), Available: true}
}

// LevelReport is the efficiency/purity scoring for one level of the
// pipeline (cells, neighbours, or tracks).
type LevelReport struct {
	TrueCount    int
	RecCount     int
	TrueRecCount int
	Efficiency   Ratio
	Purity       Ratio
}

func newLevelReport(trueCount, recCount, trueRecCount int) LevelReport {
	return LevelReport{
		TrueCount:    trueCount,
		RecCount:     recCount,
		TrueRecCount: trueRecCount,
		Efficiency:   ratio(trueRecCount, trueCount),
		Purity:       ratio(trueRecCount, recCount),
	}
}

// Report is the full evaluation of one pipeline run.
type Report struct {
	Cells      LevelReport
	Neighbours LevelReport
	Tracks     LevelReport
}

// EvaluateCells scores formed cells: a cell is true-and-reconstructed when
// its two hits belong to the same particle.
func EvaluateCells(ct *cells.Table, tt *truth.Table) LevelReport {
	trueCount := 0
	for _, hitCount := range tt.HitCounts() {
		if hitCount-1 > 0 {
			trueCount += hitCount - 1
		}
	}

	recCount := ct.Len()
	trueRecCount := 0
	for c := 0; c < recCount; c++ {
		innerHit, outerHit := ct.HitPair(int32(c))
		pi, okI := tt.ParticleID(innerHit)
		po, okO := tt.ParticleID(outerHit)
		if okI && okO && pi == po {
			trueRecCount++
		}
	}

	return newLevelReport(trueCount, recCount, trueRecCount)
}

// EvaluateNeighbours scores linked neighbour pairs: a pair (outer cell o,
// its inner neighbour i) is true-and-reconstructed when o's two hits share a
// particle and i's inner hit belongs to that same particle.
func EvaluateNeighbours(ct *cells.Table, a *evolve.Automaton, tt *truth.Table) LevelReport {
	trueCount := 0
	for _, hitCount := range tt.HitCounts() {
		if hitCount-2 > 0 {
			trueCount += hitCount - 2
		}
	}

	recCount := 0
	trueRecCount := 0
	for o := 0; o < a.Len(); o++ {
		for _, i := range a.InnerNeighs[o] {
			recCount++

			oInner, oOuter := ct.HitPair(int32(o))
			pInner, okInner := tt.ParticleID(oInner)
			pOuter, okOuter := tt.ParticleID(oOuter)
			if !okInner || !okOuter || pInner != pOuter {
				continue
			}

			iInner, _ := ct.HitPair(i)
			pIInner, okIInner := tt.ParticleID(iInner)
			if okIInner && pIInner == pInner {
				trueRecCount++
			}
		}
	}

	return newLevelReport(trueCount, recCount, trueRecCount)
}

// EvaluateTracks scores extracted tracks: a reconstructed chain is
// true-and-reconstructed when its hit_id sequence exactly matches a
// ground-truth particle's hit sequence at the same hit count.
func EvaluateTracks(ct *cells.Table, set *tracks.Set, minLength int, tt *truth.Table) LevelReport {
	trueCount := 0
	for _, hitCount := range tt.HitCounts() {
		if hitCount >= minLength+1 {
			trueCount++
		}
	}

	hitView := set.HitView(ct)
	recCount := 0
	trueRecCount := 0

	for hitLen, candidates := range hitView {
		recCount += len(candidates)

		truthTracks := tt.TrackDict()[hitLen]
		if len(truthTracks) == 0 {
			continue
		}

		for _, candidate := range candidates {
			for _, truthTrack := range truthTracks {
				if sameSequence(candidate, truthTrack) {
					trueRecCount++
					break
				}
			}
		}
	}

	return newLevelReport(trueCount, recCount, trueRecCount)
}

func sameSequence(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Evaluate runs all three levels and assembles a Report.
func Evaluate(ct *cells.Table, a *evolve.Automaton, set *tracks.Set, minLength int, tt *truth.Table) Report {
	return Report{
		Cells:      EvaluateCells(ct, tt),
		Neighbours: EvaluateNeighbours(ct, a, tt),
		Tracks:     EvaluateTracks(ct, set, minLength, tt),
	}
}
