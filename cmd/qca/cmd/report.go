package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hepqca/qca/internal/repository"
)

var (
	reportRunID string
	reportDBDSN string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect persisted run reports",
}

var reportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a persisted run's report",
	RunE:  runReportShow,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportShowCmd)

	reportShowCmd.Flags().StringVar(&reportRunID, "run-id", "", "Run identifier to look up")
	reportShowCmd.Flags().StringVar(&reportDBDSN, "db-dsn", "", "SQLite file path the run was persisted to")
	reportShowCmd.MarkFlagRequired("run-id")
	reportShowCmd.MarkFlagRequired("db-dsn")
}

func runReportShow(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	ctx := context.Background()

	db, err := repository.NewGormDB(&repository.DBConfig{Type: "sqlite", Database: reportDBDSN})
	if err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	repos := repository.NewRepositories(db)
	defer repos.Close()

	run, err := repos.Run.GetRunByRunID(ctx, reportRunID)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	log.Info("=== Run %s ===", run.RunID)
	log.Info("Status:      %s", run.Status)
	log.Info("Created:     %s", run.CreateTime.Format("2006-01-02 15:04:05"))
	log.Info("")

	if len(run.Report) == 0 {
		log.Info("No report attached to this run.")
		return nil
	}

	var pretty map[string]interface{}
	if err := json.Unmarshal(run.Report, &pretty); err != nil {
		fmt.Println(string(run.Report))
		return nil
	}

	data, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(data))
	return nil
}
