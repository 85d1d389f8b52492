package cells

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/pkg/model"
)

func TestNewFormer_ValidatesCellAngle(t *testing.T) {
	_, err := NewFormer(0)
	assert.Error(t, err)

	_, err = NewFormer(math.Pi / 2)
	assert.Error(t, err)

	_, err = NewFormer(-0.1)
	assert.Error(t, err)

	f, err := NewFormer(0.1)
	require.NoError(t, err)
	assert.NotNil(t, f)
}

// straightLineHits builds three hits on layers 0, 1, 2 lying exactly on the
// z-axis, so an outer hit on the axis always lies inside any positive cone
// angle rooted at an inner hit further down the axis.
func straightLineHits() *hits.Table {
	return hits.NewTable([]model.Hit{
		model.NewHit(1, 0, 0, 0, 1),
		model.NewHit(2, 1, 0, 0, 2),
		model.NewHit(3, 2, 0, 0, 3),
	})
}

func TestFormer_Form_AcceptsOnAxisPair(t *testing.T) {
	f, err := NewFormer(0.2)
	require.NoError(t, err)

	ht := straightLineHits()
	ct, err := f.Form(ht)
	require.NoError(t, err)

	require.Equal(t, 2, ct.Len())
	inner0, outer0 := ct.HitPair(0)
	assert.Equal(t, int64(1), inner0)
	assert.Equal(t, int64(2), outer0)

	inner1, outer1 := ct.HitPair(1)
	assert.Equal(t, int64(2), inner1)
	assert.Equal(t, int64(3), outer1)

	assert.Equal(t, 0, f.DegenerateCount())
}

func TestFormer_Form_RejectsOffCone(t *testing.T) {
	f, err := NewFormer(0.05)
	require.NoError(t, err)

	ht := hits.NewTable([]model.Hit{
		model.NewHit(1, 0, 0, 0, 1),
		model.NewHit(2, 1, 5, 0, 2),
	})

	ct, err := f.Form(ht)
	require.NoError(t, err)
	assert.Equal(t, 0, ct.Len())
}

func TestFormer_Form_DegenerateOriginHit(t *testing.T) {
	f, err := NewFormer(0.2)
	require.NoError(t, err)

	ht := hits.NewTable([]model.Hit{
		model.NewHit(1, 0, 0, 0, 0),
		model.NewHit(2, 1, 0, 0, 1),
	})

	ct, err := f.Form(ht)
	require.NoError(t, err)
	assert.Equal(t, 0, ct.Len())
	assert.Equal(t, 1, f.DegenerateCount())
}

func TestFormer_Form_ParallelMatchesSequential(t *testing.T) {
	ht := hits.NewTable([]model.Hit{
		model.NewHit(1, 0, 0, 0, 1),
		model.NewHit(2, 1, 0, 0, 2),
		model.NewHit(3, 1, 5, 5, 2),
		model.NewHit(4, 2, 0, 0, 3),
		model.NewHit(5, 2, 5, 5, 3),
	})

	seq, err := NewFormer(0.3)
	require.NoError(t, err)
	seqTable, err := seq.Form(ht)
	require.NoError(t, err)

	par, err := NewFormer(0.3, WithParallel(true))
	require.NoError(t, err)
	parTable, err := par.Form(ht)
	require.NoError(t, err)

	require.Equal(t, seqTable.Len(), parTable.Len())
	for c := int32(0); c < int32(seqTable.Len()); c++ {
		si, so := seqTable.HitPair(c)
		pi, po := parTable.HitPair(c)
		assert.Equal(t, si, pi)
		assert.Equal(t, so, po)
	}
	assert.Equal(t, seq.DegenerateCount(), par.DegenerateCount())
}

func TestFormer_Form_SingleLayerProducesNoCells(t *testing.T) {
	f, err := NewFormer(0.2)
	require.NoError(t, err)

	ht := hits.NewTable([]model.Hit{model.NewHit(1, 0, 0, 0, 1)})
	ct, err := f.Form(ht)
	require.NoError(t, err)
	assert.Equal(t, 0, ct.Len())
	assert.Len(t, ct.Layers(), 1)
}
