package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/internal/truth"
	"github.com/hepqca/qca/pkg/model"
)

func init() {
	Register(SourceTypeDir, func(cfg *SourceConfig) (Source, error) {
		return NewDirSource(cfg.Name, cfg.Path, cfg.VolumeIDs), nil
	})
}

// DirSource loads a directory of per-event subdirectories, each holding its
// own hits.csv [+ truth.csv] pair. Events are loaded one at a time, in
// sorted directory-name order, never concurrently, and combined into a
// single HitTable/Truth pair with hit ids offset per event so that rows
// from different events never collide.
type DirSource struct {
	name      string
	dir       string
	volumeIDs []int64
}

// NewDirSource builds a DirSource.
func NewDirSource(name, dir string, volumeIDs []int64) *DirSource {
	return &DirSource{name: name, dir: dir, volumeIDs: volumeIDs}
}

// Name implements Source.
func (s *DirSource) Name() string {
	return s.name
}

// Load implements Source.
func (s *DirSource) Load(ctx context.Context) (*hits.Table, *truth.Table, error) {
	events, err := s.eventDirs()
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: list events in %s: %w", s.dir, err)
	}

	const eventOffset = int64(1_000_000_000)

	var combinedHits []model.Hit
	var combinedTruth []truth.Row
	haveTruth := false

	for i, eventDir := range events {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		hitsPath := filepath.Join(eventDir, "hits.csv")
		truthPath := filepath.Join(eventDir, "truth.csv")
		if _, err := os.Stat(truthPath); err != nil {
			truthPath = ""
		} else {
			haveTruth = true
		}

		src := NewCSVSource(filepath.Base(eventDir), hitsPath, truthPath, s.volumeIDs)
		ht, tt, err := src.Load(ctx)
		if err != nil {
			return nil, nil, err
		}

		offset := int64(i) * eventOffset
		for idx := 0; idx < ht.Len(); idx++ {
			h := ht.Hit(int32(idx))
			h.HitID += offset
			combinedHits = append(combinedHits, h)
		}
		if tt != nil {
			for _, rows := range tt.TrackDict() {
				for _, hitIDs := range rows {
					for _, hitID := range hitIDs {
						particleID, _ := tt.ParticleID(hitID)
						combinedTruth = append(combinedTruth, truth.Row{
							HitID:      hitID + offset,
							ParticleID: particleID + offset,
						})
					}
				}
			}
		}
	}

	result := hits.NewTable(combinedHits)
	if !haveTruth {
		return result, nil, nil
	}
	return result, truth.NewTable(combinedTruth), nil
}

func (s *DirSource) eventDirs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
