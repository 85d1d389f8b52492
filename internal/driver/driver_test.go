package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepqca/qca/internal/hits"
	"github.com/hepqca/qca/internal/truth"
	"github.com/hepqca/qca/pkg/config"
	"github.com/hepqca/qca/pkg/model"
	"github.com/hepqca/qca/pkg/utils"
)

func buildFourHitChain() *hits.Table {
	rows := make([]model.Hit, 4)
	for i := 0; i < 4; i++ {
		rows[i] = model.NewHit(int64(i+1), int64(i), 0, 0, float64(i+1))
	}
	return hits.NewTable(rows)
}

func TestNew_ValidatesPipelineConfig(t *testing.T) {
	_, err := New(&config.PipelineConfig{CellAngle: 0, NeighAngle: 0.2, MinTrackLength: 1})
	assert.Error(t, err)

	_, err = New(&config.PipelineConfig{CellAngle: 0.2, NeighAngle: 0.1, MinTrackLength: 0})
	assert.Error(t, err)

	_, err = New(&config.PipelineConfig{CellAngle: 0.2, NeighAngle: 0.1, MinTrackLength: 1})
	assert.NoError(t, err)
}

func TestDriver_Run_ReconstructsChain(t *testing.T) {
	d, err := New(&config.PipelineConfig{CellAngle: 0.2, NeighAngle: 0.1, MinTrackLength: 1})
	require.NoError(t, err)

	result, err := d.Run(context.Background(), buildFourHitChain())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Cells.Len())
	assert.Equal(t, 2, result.Sweeps)
	assert.Equal(t, 0, result.CellDegenerate)
	assert.Equal(t, 0, result.NeighbourDegenerate)
	assert.Equal(t, 1, result.Tracks.Size())
}

func TestDriver_Run_EmptyHitsYieldsEmptyResult(t *testing.T) {
	d, err := New(&config.PipelineConfig{CellAngle: 0.2, NeighAngle: 0.1, MinTrackLength: 1})
	require.NoError(t, err)

	result, err := d.Run(context.Background(), hits.NewTable(nil))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Cells.Len())
	assert.Equal(t, 0, result.Tracks.Size())
}

func TestDriver_Evaluate_ScoresPerfectReconstruction(t *testing.T) {
	d, err := New(&config.PipelineConfig{CellAngle: 0.2, NeighAngle: 0.1, MinTrackLength: 1})
	require.NoError(t, err)

	ht := buildFourHitChain()
	result, err := d.Run(context.Background(), ht)
	require.NoError(t, err)

	tt := truth.NewTable([]truth.Row{
		{HitID: 1, ParticleID: 1},
		{HitID: 2, ParticleID: 1},
		{HitID: 3, ParticleID: 1},
		{HitID: 4, ParticleID: 1},
	})

	report := d.Evaluate(context.Background(), result, tt)

	assert.InDelta(t, 1.0, report.Tracks.Efficiency.Value, 1e-9)
	assert.InDelta(t, 1.0, report.Tracks.Purity.Value, 1e-9)
}

// tickClock is a utils.Clock whose Now advances by one millisecond on every
// call, so stage timings come out strictly increasing without depending on
// real wall-clock scheduling.
type tickClock struct {
	now time.Time
}

func newTickClock() *tickClock {
	return &tickClock{now: time.Unix(0, 0)}
}

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *tickClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }
func (c *tickClock) Until(t time.Time) time.Duration { return t.Sub(c.Now()) }
func (c *tickClock) Sleep(time.Duration)             {}

func (c *tickClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}

func (c *tickClock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }

var _ utils.Clock = (*tickClock)(nil)

func TestDriver_Run_RecordsPerStageTiming(t *testing.T) {
	d, err := New(&config.PipelineConfig{CellAngle: 0.2, NeighAngle: 0.1, MinTrackLength: 1}, WithClock(newTickClock()))
	require.NoError(t, err)

	result, err := d.Run(context.Background(), buildFourHitChain())
	require.NoError(t, err)

	require.NotNil(t, result.Timing)
	phases := result.Timing.GetPhases()
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name
		assert.Greater(t, p.Duration, time.Duration(0))
	}
	assert.Equal(t, []string{"cellformer", "neighbourlinker", "evolver", "trackextractor"}, names)
	assert.Greater(t, result.Duration, time.Duration(0))
}
