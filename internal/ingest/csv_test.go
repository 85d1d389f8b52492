package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSource_Load_RemapsLayersByVolume(t *testing.T) {
	src := NewCSVSource("fixture", "testdata/hits.csv", "testdata/truth.csv", nil)

	ht, tt, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tt)

	assert.Equal(t, 4, ht.Len())
	assert.Equal(t, []int64{800, 801, 802, 1301}, ht.Layers())

	pid, ok := tt.ParticleID(3)
	require.True(t, ok)
	assert.Equal(t, int64(200), pid)
}

func TestCSVSource_Load_FiltersByVolumeID(t *testing.T) {
	src := NewCSVSource("fixture", "testdata/hits.csv", "testdata/truth.csv", []int64{8})

	ht, _, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ht.Len())
	for i := 0; i < ht.Len(); i++ {
		assert.NotEqual(t, int64(3), ht.Hit(int32(i)).HitID)
	}
}

func TestCSVSource_Load_NoTruthFile(t *testing.T) {
	src := NewCSVSource("fixture", "testdata/hits.csv", "", nil)

	ht, tt, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tt)
	assert.Equal(t, 4, ht.Len())
}

func TestCSVSource_Load_MissingFileReturnsError(t *testing.T) {
	src := NewCSVSource("fixture", "testdata/does_not_exist.csv", "", nil)

	_, _, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestCSVSource_Name(t *testing.T) {
	src := NewCSVSource("fixture", "testdata/hits.csv", "", nil)
	assert.Equal(t, "fixture", src.Name())
}

func TestCreateSource_CSV(t *testing.T) {
	cfg := &SourceConfig{
		Type: SourceTypeCSV,
		Name: "fixture",
		Path: "testdata/hits.csv",
		Options: map[string]interface{}{
			"truth_path": "testdata/truth.csv",
		},
	}

	src, err := CreateSource(cfg)
	require.NoError(t, err)

	ht, tt, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ht.Len())
	assert.NotNil(t, tt)
}

func TestCreateSource_UnknownType(t *testing.T) {
	_, err := CreateSource(&SourceConfig{Type: SourceType("bogus")})
	assert.Error(t, err)
}
