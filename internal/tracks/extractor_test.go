package tracks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepqca/qca/internal/cells"
	"github.com/hepqca/qca/internal/evolve"
	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/internal/neighbours"
	"github.com/hepqca/qca/pkg/model"
)

func TestNewExtractor_ValidatesMinLength(t *testing.T) {
	_, err := NewExtractor(0)
	assert.Error(t, err)

	e, err := NewExtractor(1)
	require.NoError(t, err)
	assert.NotNil(t, e)
}

// buildChain produces an evolved Automaton and its backing CellTable for an
// n-hit straight on-axis chain of n-1 cells.
func buildChain(t *testing.T, n int) (*cells.Table, *evolve.Automaton) {
	t.Helper()
	rows := make([]model.Hit, n)
	for i := 0; i < n; i++ {
		rows[i] = model.NewHit(int64(i+1), int64(i), 0, 0, float64(i+1))
	}
	ht := hits.NewTable(rows)

	f, err := cells.NewFormer(0.2)
	require.NoError(t, err)
	ct, err := f.Form(ht)
	require.NoError(t, err)

	l, err := neighbours.NewLinker(0.1)
	require.NoError(t, err)
	a, err := l.Link(ct)
	require.NoError(t, err)

	evolve.Evolve(a)
	return ct, a
}

func TestExtractor_Extract_SingleChain(t *testing.T) {
	ct, a := buildChain(t, 4)

	e, err := NewExtractor(1)
	require.NoError(t, err)
	set, err := e.Extract(a)
	require.NoError(t, err)

	require.Equal(t, 1, set.Size())
	chains, ok := set.ByLength[3]
	require.True(t, ok)
	require.Len(t, chains, 1)
	assert.Equal(t, Chain{2, 1, 0}, chains[0])

	hv := set.HitView(ct)
	require.Contains(t, hv, 4)
	assert.Equal(t, []int64{1, 2, 3, 4}, hv[4][0])

	assert.Equal(t, 0, set.Remaining)
}

func TestExtractor_Extract_RespectsMinLength(t *testing.T) {
	ct, a := buildChain(t, 4)
	_ = ct

	e, err := NewExtractor(5)
	require.NoError(t, err)
	set, err := e.Extract(a)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Size())
	assert.Equal(t, 3, set.Remaining)
}

func TestExtractor_Extract_CarvesBeforeShorterLengths(t *testing.T) {
	// Two independent three-cell chains sharing no cells: both should
	// survive at length 3 without a shorter, overlapping candidate
	// reappearing once the longer chain is carved.
	a := evolve.New(6)
	a.InnerNeighs[1] = []int32{0}
	a.InnerNeighs[2] = []int32{1}
	a.InnerNeighs[4] = []int32{3}
	a.InnerNeighs[5] = []int32{4}
	evolve.Evolve(a)

	e, err := NewExtractor(1)
	require.NoError(t, err)
	set, err := e.Extract(a)
	require.NoError(t, err)

	assert.Equal(t, 2, set.Size())
	assert.Len(t, set.ByLength[3], 2)
}
