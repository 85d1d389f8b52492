package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/internal/truth"
	"github.com/hepqca/qca/pkg/model"
)

func init() {
	Register(SourceTypeCSV, func(cfg *SourceConfig) (Source, error) {
		return NewCSVSource(cfg.Name, cfg.Path, cfg.GetString("truth_path", ""), cfg.VolumeIDs), nil
	})
}

// CSVSource loads a single hits.csv [+ optional truth.csv] pair.
type CSVSource struct {
	name      string
	hitsPath  string
	truthPath string
	volumeIDs []int64
	dedupe    bool
}

// NewCSVSource builds a CSVSource. An empty truthPath means no ground truth
// is available (dedup per (particle, layer) is then skipped).
func NewCSVSource(name, hitsPath, truthPath string, volumeIDs []int64) *CSVSource {
	return &CSVSource{
		name:      name,
		hitsPath:  hitsPath,
		truthPath: truthPath,
		volumeIDs: volumeIDs,
		dedupe:    truthPath != "",
	}
}

// Name implements Source.
func (s *CSVSource) Name() string {
	return s.name
}

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (*hits.Table, *truth.Table, error) {
	rows, volumeOf, err := readHitsCSV(s.hitsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: load hits from %s: %w", s.hitsPath, err)
	}

	var truthRows []truth.Row
	if s.truthPath != "" {
		truthRows, err = readTruthCSV(s.truthPath)
		if err != nil {
			return nil, nil, fmt.Errorf("ingest: load truth from %s: %w", s.truthPath, err)
		}
	}

	if s.dedupe {
		rows, truthRows = dedupePerParticleLayer(rows, truthRows)
	}

	rows = remapVolumes(rows, volumeOf, s.volumeIDs)

	ht := hits.NewTable(rows)
	var tt *truth.Table
	if truthRows != nil {
		tt = truth.NewTable(truthRows)
	}

	return ht, tt, nil
}

// readHitsCSV parses a hits.csv with header
// hit_id,layer_id,volume_id,x,y,z (volume_id defaults to 0 when absent).
func readHitsCSV(path string) ([]model.Hit, map[int64]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	col := columnIndex(header)

	hitIDCol, err := col("hit_id")
	if err != nil {
		return nil, nil, err
	}
	layerCol, err := col("layer_id")
	if err != nil {
		return nil, nil, err
	}
	xCol, err := col("x")
	if err != nil {
		return nil, nil, err
	}
	yCol, err := col("y")
	if err != nil {
		return nil, nil, err
	}
	zCol, err := col("z")
	if err != nil {
		return nil, nil, err
	}
	volCol, volErr := col("volume_id")

	var rows []model.Hit
	volumeOf := make(map[int64]int64)

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		hitID, err := strconv.ParseInt(rec[hitIDCol], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse hit_id: %w", err)
		}
		layerID, err := strconv.ParseInt(rec[layerCol], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse layer_id: %w", err)
		}
		x, err := strconv.ParseFloat(rec[xCol], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse x: %w", err)
		}
		y, err := strconv.ParseFloat(rec[yCol], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse y: %w", err)
		}
		z, err := strconv.ParseFloat(rec[zCol], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse z: %w", err)
		}

		var vol int64
		if volErr == nil {
			vol, err = strconv.ParseInt(rec[volCol], 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parse volume_id: %w", err)
			}
		}
		volumeOf[hitID] = vol

		rows = append(rows, model.NewHit(hitID, layerID, x, y, z))
	}

	return rows, volumeOf, nil
}

// readTruthCSV parses a truth.csv with header hit_id,particle_id.
func readTruthCSV(path string) ([]truth.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := columnIndex(header)

	hitIDCol, err := col("hit_id")
	if err != nil {
		return nil, err
	}
	particleCol, err := col("particle_id")
	if err != nil {
		return nil, err
	}

	var rows []truth.Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		hitID, err := strconv.ParseInt(rec[hitIDCol], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse hit_id: %w", err)
		}
		particleID, err := strconv.ParseInt(rec[particleCol], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse particle_id: %w", err)
		}

		rows = append(rows, truth.Row{HitID: hitID, ParticleID: particleID})
	}

	return rows, nil
}

func columnIndex(header []string) func(name string) (int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return func(name string) (int, error) {
		i, ok := idx[name]
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return i, nil
	}
}
