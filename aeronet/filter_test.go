package aeronet

import (
	"testing"

	"github.com/hhkbp2/go-logging"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FilterTime(t *testing.T) {
	ds := fixtureDataset(t)

	// 両端を含まない
	res := ds.FilterTime(date(2006, 1, 2), date(2006, 2, 20))
	assert.Equal(t, 2, res.Len())
	assert.Equal(t, date(2006, 1, 3), res.Date[0])
	assert.Equal(t, date(2006, 2, 15), res.Date[1])

	// 元のデータは変更しない
	assert.Equal(t, 5, ds.Len())

	// 該当なしの場合は元のデータ
	same := ds.FilterTime(date(2010, 1, 1), date(2010, 12, 31))
	assert.Same(t, ds, same)
}

func Test_FilterTime_WarnsWhenEmpty(t *testing.T) {
	ds := fixtureDataset(t)
	buf := captureLog(t, logging.LevelWarn)

	ds.FilterTime(date(2010, 1, 1), date(2010, 12, 31))
	assert.Contains(t, buf.String(), "WARN aeronet: 期間内のデータがありません: 2010-01-01 - 2010-12-31")

	// 該当がある場合は警告しない
	buf.Reset()
	ds.FilterTime(date(2006, 1, 1), date(2006, 12, 31))
	assert.Empty(t, buf.String())
}

func Test_FilterSite(t *testing.T) {
	ds := fixtureDataset(t)

	res, err := ds.FilterSite("Kanpur")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Len())
	assert.Equal(t, []string{"Kanpur"}, res.Sites())

	res, err = ds.FilterSite("")
	require.NoError(t, err)
	assert.Same(t, ds, res)

	_, err = ds.FilterSite("Nowhere")
	assert.ErrorIs(t, err, ErrSiteNotFound)
}

func Test_FilterRecords(t *testing.T) {
	ds := fixtureDataset(t)

	// Kanpur: AOD_500nm が2件、Ascension_Island: 1件
	res, err := ds.FilterRecords(1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kanpur"}, res.Sites())
	assert.Equal(t, 4, res.Len())
	assert.Equal(t, []string{ColAOD500}, res.Columns())

	res, err = ds.FilterRecords(0, []string{ColAOD500, ColAlpha})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ascension_Island", "Kanpur"}, res.Sites())

	res, err = ds.FilterRecords(2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())

	_, err = ds.FilterRecords(0, []string{"nope"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func Test_Region_Contains(t *testing.T) {
	r := Region{Lat: [2]float64{0, 30}, Lon: [2]float64{70, 90}}

	assert.True(t, r.Contains(orb.Point{80.232, 26.513}))
	assert.False(t, r.Contains(orb.Point{-14.415, -7.976}))

	// 境界上は含まない
	assert.False(t, r.Contains(orb.Point{70, 10}))
	assert.False(t, r.Contains(orb.Point{80, 30}))
}

func Test_SelectSites(t *testing.T) {
	ds := fixtureDataset(t)

	assert.Equal(t, []string{"Kanpur"}, ds.SelectSites(Region{Lat: [2]float64{0, 30}, Lon: [2]float64{70, 90}}))
	assert.Equal(t, []string{"Ascension_Island", "Kanpur"}, ds.SelectSites(Region{Lat: [2]float64{-90, 90}, Lon: [2]float64{-180, 180}}))
	assert.Empty(t, ds.SelectSites(DefaultRegion))
}
