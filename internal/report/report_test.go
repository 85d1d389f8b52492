package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepqca/qca/internal/advisor"
	"github.com/hepqca/qca/internal/evaluate"
	"github.com/hepqca/qca/pkg/utils"
)

func available(v float64) evaluate.Ratio {
	return evaluate.Ratio{Value: v, Available: true}
}

func TestFormatter_Format_WritesAllThreeLevels(t *testing.T) {
	var buf bytes.Buffer
	log := utils.NewDefaultLogger(utils.LevelInfo, &buf)

	rep := &evaluate.Report{
		Cells:      evaluate.LevelReport{TrueCount: 3, RecCount: 3, TrueRecCount: 3, Efficiency: available(1), Purity: available(1)},
		Neighbours: evaluate.LevelReport{TrueCount: 2, RecCount: 2, TrueRecCount: 2, Efficiency: available(1), Purity: available(1)},
		Tracks:     evaluate.LevelReport{TrueCount: 1, RecCount: 1, TrueRecCount: 1, Efficiency: available(1), Purity: available(1)},
	}

	NewFormatter().Format(rep, log)

	out := buf.String()
	assert.Contains(t, out, "Cells")
	assert.Contains(t, out, "Neighbours")
	assert.Contains(t, out, "Tracks")
}

func TestFormatter_Format_IncludesSuggestionsWhenPresent(t *testing.T) {
	var buf bytes.Buffer
	log := utils.NewDefaultLogger(utils.LevelInfo, &buf)

	rep := &evaluate.Report{
		Tracks: evaluate.LevelReport{Efficiency: available(0.9), Purity: available(0.1)},
	}

	NewFormatter().Format(rep, log)

	assert.Contains(t, buf.String(), "Suggestions")
}

func TestFormatter_FormatSummary_RendersUnavailableRatiosAsNil(t *testing.T) {
	summary := NewFormatter().FormatSummary(&evaluate.Report{})

	cells, ok := summary["cells"].(map[string]interface{})
	require.True(t, ok)
	assert.Nil(t, cells["efficiency"])
	assert.Nil(t, cells["purity"])
}

func TestFormatter_FormatSummary_IncludesSuggestions(t *testing.T) {
	rep := &evaluate.Report{
		Cells: evaluate.LevelReport{Efficiency: available(0.2), Purity: available(0.95)},
	}

	summary := NewFormatter().FormatSummary(rep)

	suggestions, ok := summary["suggestions"].([]advisor.Suggestion)
	require.True(t, ok)
	assert.NotEmpty(t, suggestions)
}
