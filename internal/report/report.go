// Package report formats an evaluation report for human and machine
// consumption, following the reference formatter's Format/FormatSummary
// split.
package report

import (
	"github.com/hepqca/qca/internal/advisor"
	"github.com/hepqca/qca/internal/evaluate"
	"github.com/hepqca/qca/pkg/utils"
)

// Formatter renders an evaluate.Report to a logger or a summary map.
type Formatter struct {
	advisor *advisor.Advisor
}

// NewFormatter builds a Formatter with the default advisor rule set.
func NewFormatter() *Formatter {
	return &Formatter{advisor: advisor.NewAdvisor()}
}

// Format writes a human-readable rendering of the report to log.
func (f *Formatter) Format(rep *evaluate.Report, log utils.Logger) {
	log.Info("=== Reconstruction Report ===")
	formatLevel(log, "Cells", rep.Cells)
	formatLevel(log, "Neighbours", rep.Neighbours)
	formatLevel(log, "Tracks", rep.Tracks)

	suggestions := f.advisor.Advise(&advisor.RuleContext{Report: rep})
	if len(suggestions) == 0 {
		return
	}

	log.Info("=== Suggestions ===")
	for _, s := range suggestions {
		log.Info("  [%s] %s", s.Severity, s.Message)
	}
}

func formatLevel(log utils.Logger, name string, lr evaluate.LevelReport) {
	log.Info("-- %s --", name)
	log.Info("  true=%d rec=%d true_rec=%d", lr.TrueCount, lr.RecCount, lr.TrueRecCount)
	log.Info("  efficiency=%s purity=%s", lr.Efficiency.String(), lr.Purity.String())
}

// FormatSummary returns a plain map suitable for JSON serialization.
func (f *Formatter) FormatSummary(rep *evaluate.Report) map[string]interface{} {
	summary := map[string]interface{}{
		"cells":      levelSummary(rep.Cells),
		"neighbours": levelSummary(rep.Neighbours),
		"tracks":     levelSummary(rep.Tracks),
	}

	suggestions := f.advisor.Advise(&advisor.RuleContext{Report: rep})
	summary["suggestions"] = suggestions

	return summary
}

func levelSummary(lr evaluate.LevelReport) map[string]interface{} {
	return map[string]interface{}{
		"true_count":     lr.TrueCount,
		"rec_count":      lr.RecCount,
		"true_rec_count": lr.TrueRecCount,
		"efficiency":     ratioSummary(lr.Efficiency),
		"purity":         ratioSummary(lr.Purity),
	}
}

func ratioSummary(r evaluate.Ratio) interface{} {
	if !r.Available {
		return nil
	}
	return r.Value
}
