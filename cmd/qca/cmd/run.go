package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hepqca/qca/internal/advisor"
	"github.com/hepqca/qca/internal/driver"
	"github.com/hepqca/qca/internal/graphdump"
	"github.com/hepqca/qca/internal/ingest"
	"github.com/hepqca/qca/internal/report"
	"github.com/hepqca/qca/internal/repository"
	"github.com/hepqca/qca/internal/storage"
	"github.com/hepqca/qca/pkg/compression"
	"github.com/hepqca/qca/pkg/config"
	"github.com/hepqca/qca/pkg/model"
)

var (
	runHitsPath   string
	runTruthPath  string
	runDirPath    string
	runCellAngle  float64
	runNeighAngle float64
	runMinLength  int
	runVolumeIDs  string
	runParallel   bool
	runOutDir     string
	runDBDSN      string
	runStorage    string
	runID         string
	runCompress   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reconstruction pipeline over one hit sample",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runHitsPath, "hits", "", "Path to a hits CSV file")
	runCmd.Flags().StringVar(&runTruthPath, "truth", "", "Path to a truth CSV file (optional)")
	runCmd.Flags().StringVar(&runDirPath, "dir", "", "Path to a directory of per-event hits.csv/truth.csv pairs (alternative to --hits)")

	runCmd.Flags().Float64Var(&runCellAngle, "cell-angle", 0.3, "CellFormer cone half-angle, radians")
	runCmd.Flags().Float64Var(&runNeighAngle, "neigh-angle", 0.2, "NeighbourLinker continuity angle gate, radians")
	runCmd.Flags().IntVar(&runMinLength, "min-length", 3, "Minimum surviving chain length, in cells")
	runCmd.Flags().StringVar(&runVolumeIDs, "volume", "", "Comma-separated detector volume_ids to keep (default: all)")
	runCmd.Flags().BoolVar(&runParallel, "parallel", false, "Enable the data-parallel stage backend")

	runCmd.Flags().StringVar(&runOutDir, "out", "", "Directory to write the JSON graph dump to (storage type local)")
	runCmd.Flags().StringVar(&runDBDSN, "db-dsn", "", "SQLite file path; when set, the run and its report are persisted")
	runCmd.Flags().StringVar(&runStorage, "storage", "local", "Graph dump storage backend: local or cos")
	runCmd.Flags().StringVar(&runID, "run-id", "", "Run identifier (auto-generated if empty)")
	runCmd.Flags().StringVar(&runCompress, "compress", "none", "Graph dump compression: none, gzip, or zstd")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	ctx := context.Background()

	if runHitsPath == "" && runDirPath == "" {
		return fmt.Errorf("one of --hits or --dir is required")
	}

	volumeIDs, err := parseVolumeIDs(runVolumeIDs)
	if err != nil {
		return err
	}

	src, err := buildSource(volumeIDs)
	if err != nil {
		return err
	}

	if runID == "" {
		runID = fmt.Sprintf("local-%s", time.Now().Format("20060102-150405"))
	}

	log.Info("=== QCA Reconstruction Run ===")
	log.Info("Source:       %s", src.Name())
	log.Info("Run ID:       %s", runID)
	log.Info("cell_angle:   %g", runCellAngle)
	log.Info("neigh_angle:  %g", runNeighAngle)
	log.Info("min_length:   %d", runMinLength)
	log.Info("")

	ht, tt, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	log.Info("Loaded %d hits", ht.Len())

	cfg := &config.PipelineConfig{
		CellAngle:      runCellAngle,
		NeighAngle:     runNeighAngle,
		MinTrackLength: runMinLength,
		VolumeIDs:      volumeIDs,
		Parallel:       runParallel,
	}

	d, err := driver.New(cfg, driver.WithLogger(log))
	if err != nil {
		return fmt.Errorf("driver: %w", err)
	}

	result, err := d.Run(ctx, ht)
	if err != nil {
		return err
	}
	log.Info("Formed %d cells, %d sweeps, %d tracks (%d cells unclaimed) in %s",
		result.Cells.Len(), result.Sweeps, result.Tracks.Size(), result.Tracks.Remaining, result.Duration)
	if result.Timing != nil {
		result.Timing.PrintSummary()
	}
	log.Info("")

	formatter := report.NewFormatter()

	summary := map[string]interface{}{}
	if tt != nil {
		rep := d.Evaluate(ctx, result, tt)
		formatter.Format(&rep, log)
		summary = formatter.FormatSummary(&rep)

		suggestions := advisor.NewAdvisor().Advise(&advisor.RuleContext{Report: &rep})
		if len(suggestions) > 0 {
			log.Info("")
			log.Info("=== Tuning Suggestions ===")
			for _, s := range suggestions {
				log.Info("[%s] %s: %s", s.Severity, s.Rule, s.Message)
			}
		}
	} else {
		log.Info("No truth supplied; skipping evaluation")
	}

	if runOutDir != "" {
		graphKey, err := dumpGraph(ctx, runID, result, summary)
		if err != nil {
			return err
		}
		log.Info("Wrote graph dump to %s", filepath.Join(runOutDir, graphKey))
	}

	if runDBDSN != "" {
		if err := persistRun(ctx, runID, cfg, summary); err != nil {
			return err
		}
		log.Info("Persisted run %s to %s", runID, runDBDSN)
	}

	return nil
}

func buildSource(volumeIDs []int64) (ingest.Source, error) {
	if runDirPath != "" {
		return ingest.CreateSource(&ingest.SourceConfig{
			Type:      ingest.SourceTypeDir,
			Name:      "dir",
			Path:      runDirPath,
			VolumeIDs: volumeIDs,
		})
	}
	return ingest.CreateSource(&ingest.SourceConfig{
		Type:      ingest.SourceTypeCSV,
		Name:      "csv",
		Path:      runHitsPath,
		VolumeIDs: volumeIDs,
		Options:   map[string]interface{}{"truth_path": runTruthPath},
	})
}

func parseVolumeIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --volume entry %q: %w", p, err)
		}
		ids = append(ids, v)
	}
	return ids, nil
}

func dumpGraph(ctx context.Context, runID string, result *driver.Result, summary map[string]interface{}) (string, error) {
	g := graphdump.Build(runID, result.Cells, result.Automaton, result.Tracks)

	s, err := storage.NewStorage(&config.StorageConfig{Type: runStorage, LocalPath: runOutDir})
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}

	comp, graphKey, err := buildGraphCompressor(runID)
	if err != nil {
		return "", fmt.Errorf("compress: %w", err)
	}
	if closer, ok := comp.(compression.Closeable); ok {
		defer closer.Close()
	}

	if err := graphdump.Dump(ctx, s, graphKey, g, comp); err != nil {
		return "", err
	}

	summaryData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage: marshal summary: %w", err)
	}
	if err := s.Upload(ctx, filepath.Join(runID, "summary.json"), bytes.NewReader(summaryData)); err != nil {
		return "", fmt.Errorf("storage: upload summary: %w", err)
	}

	return graphKey, nil
}

// buildGraphCompressor turns --compress into a real compression.Compressor
// and the storage key the compressed (or plain) dump is written under. A nil
// Compressor tells graphdump.Dump to skip compression entirely.
func buildGraphCompressor(runID string) (compression.Compressor, string, error) {
	plainKey := filepath.Join(runID, "graph.json")

	switch strings.ToLower(runCompress) {
	case "", "none":
		return nil, plainKey, nil
	case "gzip":
		comp, err := compression.New(compression.TypeGzip, compression.LevelDefault)
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		return comp, plainKey + ".gz", nil
	case "zstd":
		comp, err := compression.New(compression.TypeZstd, compression.LevelDefault)
		if err != nil {
			return nil, "", fmt.Errorf("zstd: %w", err)
		}
		return comp, plainKey + ".zst", nil
	default:
		return nil, "", fmt.Errorf("unknown --compress value %q (want none, gzip, or zstd)", runCompress)
	}
}

func persistRun(ctx context.Context, runID string, cfg *config.PipelineConfig, summary map[string]interface{}) error {
	db, err := repository.NewGormDB(&repository.DBConfig{Type: "sqlite", Database: runDBDSN})
	if err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	repos := repository.NewRepositories(db)
	defer repos.Close()

	cfgMap, err := configToMap(cfg)
	if err != nil {
		return fmt.Errorf("repository: marshal config: %w", err)
	}

	run := &model.Run{
		RunID:  runID,
		Status: model.RunStatusCompleted,
		Config: cfgMap,
	}
	if err := repos.Run.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("repository: create run: %w", err)
	}

	reportJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("repository: marshal report: %w", err)
	}
	if err := repos.Run.SaveReport(ctx, runID, reportJSON); err != nil {
		return fmt.Errorf("repository: save report: %w", err)
	}

	return nil
}

func configToMap(cfg *config.PipelineConfig) (map[string]interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
