package aeronet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Average(t *testing.T) {
	ds := fixtureDataset(t)

	avg, err := ds.Average([]string{ColAOD500}, 0)
	require.NoError(t, err)
	require.Len(t, avg.Sites, 2)
	assert.Equal(t, []string{ColAOD500}, avg.Columns)

	// 地点名順
	asc := avg.Sites[0]
	assert.Equal(t, "Ascension_Island", asc.Site)
	assert.Equal(t, 1, asc.RecordNumber)
	assert.InDelta(t, 0.1, asc.Values[0], 1e-12)

	kan := avg.Sites[1]
	assert.Equal(t, "Kanpur", kan.Site)
	assert.Equal(t, 2, kan.RecordNumber)
	assert.Equal(t, []int{2, 46}, kan.Days)
	assert.InDelta(t, 24.0, kan.DayOfYear, 1e-12)
	assert.InDelta(t, 0.6, kan.Values[0], 1e-12)
	assert.InDelta(t, 26.513, kan.Lat, 1e-12)
	assert.InDelta(t, 0.6, avg.Value(1, ColAOD500), 1e-12)
	assert.True(t, math.IsNaN(avg.Value(1, "nope")))
}

func Test_Average_MinRec(t *testing.T) {
	ds := fixtureDataset(t)

	avg, err := ds.Average([]string{ColAOD500}, 2)
	require.NoError(t, err)
	require.Len(t, avg.Sites, 1)
	assert.Equal(t, "Kanpur", avg.Sites[0].Site)
}

func Test_Average_Size(t *testing.T) {
	ds := fixtureDataset(t)

	avg, err := ds.Average([]string{"SIZE"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bin 1", "Bin 2", "Bin 3"}, avg.Columns)
	require.Len(t, avg.Sites, 1)

	kan := avg.Sites[0]
	assert.Equal(t, 2, kan.RecordNumber)
	assert.Equal(t, []int{2, 51}, kan.Days)
	assert.InDelta(t, 0.025, kan.Values[0], 1e-12)
	assert.InDelta(t, 0.035, kan.Values[1], 1e-12)
	assert.InDelta(t, 0.045, kan.Values[2], 1e-12)
}

func Test_Average_UnknownColumn(t *testing.T) {
	ds := fixtureDataset(t)

	_, err := ds.Average([]string{"nope"}, 0)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
