package aeronet

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//--------------------------------------
// 作図用の表
//--------------------------------------

// 地図上の1地点
type MapPoint struct {
	Site  string
	Lat   float64
	Lon   float64 //0-360°
	Value float64
}

// 地点別平均から地図用の点を作成します。経度は0-360°に変換します。
func MapPoints(avg *Averages, column string) ([]MapPoint, error) {
	found := false
	for _, c := range avg.Columns {
		if c == column {
			found = true
		}
	}
	if !found {
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", column)
	}

	points := make([]MapPoint, len(avg.Sites))
	for i, s := range avg.Sites {
		lon := s.Lon
		if lon < 0 {
			lon += 360
		}
		points[i] = MapPoint{
			Site:  s.Site,
			Lat:   s.Lat,
			Lon:   lon,
			Value: avg.Value(i, column),
		}
	}
	return points, nil
}

// 月平均値の時系列
type MonthlySeries struct {
	Site   string
	Column string
	Points []MonthlyValue
	Mean   float64 //月平均値の平均。月が無い場合はNaN
}

func NewMonthlySeries(s *SiteView, column string) (*MonthlySeries, error) {
	points, err := s.MonthlyAverage(column)
	if err != nil {
		return nil, err
	}
	mean := math.NaN()
	if len(points) > 0 {
		means := make([]float64, len(points))
		for i, p := range points {
			means[i] = p.Mean
		}
		mean = stat.Mean(means, nil)
	}
	return &MonthlySeries{Site: s.Name, Column: column, Points: points, Mean: mean}, nil
}

// 2変数の月平均値の組
type MonthlyPair struct {
	Month time.Time
	X     float64
	Y     float64
}

// 2変数の月平均値を月で内部結合します。
func NewMonthlyPairs(s *SiteView, column1 string, column2 string) ([]MonthlyPair, error) {
	ave1, err := s.MonthlyAverage(column1)
	if err != nil {
		return nil, err
	}
	ave2, err := s.MonthlyAverage(column2)
	if err != nil {
		return nil, err
	}

	y := map[time.Time]float64{}
	for _, p := range ave2 {
		y[p.Month] = p.Mean
	}
	pairs := []MonthlyPair{}
	for _, p := range ave1 {
		if v, ok := y[p.Month]; ok {
			pairs = append(pairs, MonthlyPair{Month: p.Month, X: p.Mean, Y: v})
		}
	}
	return pairs, nil
}

// 地点ごとの粒径分布の集計
type SizeSummary struct {
	Site     string
	Lat      float64
	Lon      float64
	AODMean  float64
	AODCount int
	AEMean   float64
	AECount  int
	DVCount  int       //dV/dlnr のある行数
	BinMeans []float64 //粒径ビンごとの平均
}

// 欠測を除いた平均と個数
func meanCount(v []float64, index []int) (float64, int) {
	vals := []float64{}
	for _, i := range index {
		if !math.IsNaN(v[i]) {
			vals = append(vals, v[i])
		}
	}
	if len(vals) == 0 {
		return math.NaN(), 0
	}
	return floats.Sum(vals) / float64(len(vals)), len(vals)
}

// """地点ごとに粒径分布を集計します。
// AOD_500nm または 440-870_Angstrom_Exponent の平均が得られない地点は除きます。
// Returns:
//
//	[]SizeSummary: dV/dlnr の行数の多い順
//
// """
func (ds *Dataset) SizeAggregate() ([]SizeSummary, error) {
	aod, err := ds.Column(ColAOD500)
	if err != nil {
		return nil, err
	}
	alpha, err := ds.Column(ColAlpha)
	if err != nil {
		return nil, err
	}
	bins := make([][]float64, len(ds.Radius))
	for i, name := range ds.BinColumns() {
		if bins[i], err = ds.Column(name); err != nil {
			return nil, err
		}
	}

	res := []SizeSummary{}
	for _, site := range ds.Sites() {
		index := ds.siteIndex(site)

		s := SizeSummary{Site: site, BinMeans: make([]float64, len(bins))}
		s.Lat, _ = meanCount(ds.Lat, index)
		s.Lon, _ = meanCount(ds.Lon, index)
		s.AODMean, s.AODCount = meanCount(aod, index)
		s.AEMean, s.AECount = meanCount(alpha, index)
		if math.IsNaN(s.AODMean) || math.IsNaN(s.AEMean) {
			continue
		}
		for _, i := range index {
			if ds.DVDlnr[i] != nil {
				s.DVCount++
			}
		}
		for b := range bins {
			s.BinMeans[b], _ = meanCount(bins[b], index)
		}
		res = append(res, s)
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].DVCount != res[j].DVCount {
			return res[i].DVCount > res[j].DVCount
		}
		return res[i].Site < res[j].Site
	})
	return res, nil
}

// 粒径分布の時系列
type SizeSeries struct {
	Radius []float64   //粒径ビンの半径 (単位:μm)
	Dates  []time.Time
	Values [][]float64 //日付ごとのビンの値
}

// """地点の粒径分布の時系列を作成します。
// Args:
//
//	start(time.Time), end(time.Time): 期間(両端を含まない)。ゼロ値の端は制限しない
//
// Note:
//
//	指定した端の日付とデータの先頭・末尾の日付が異なれば、その端に欠測の列を加えます。
//
// """
func (s *SiteView) SizeTimeSeries(start time.Time, end time.Time) *SizeSeries {
	data := s.Data
	bins := make([][]float64, len(data.Radius))
	for i, name := range data.BinColumns() {
		bins[i], _ = data.Column(name)
	}

	startIndex, endIndex := 0, data.Len()
	if !start.IsZero() {
		startIndex = sort.Search(data.Len(), func(i int) bool {
			return data.Date[i].After(start)
		})
	}
	if !end.IsZero() {
		endIndex = sort.Search(data.Len(), func(i int) bool {
			return !data.Date[i].Before(end)
		})
	}
	if endIndex < startIndex {
		endIndex = startIndex
	}

	series := &SizeSeries{Radius: append([]float64{}, data.Radius...)}
	missing := func() []float64 {
		v := make([]float64, len(bins))
		for i := range v {
			v[i] = math.NaN()
		}
		return v
	}

	if !start.IsZero() && (startIndex == endIndex || !data.Date[startIndex].Equal(start)) {
		series.Dates = append(series.Dates, start)
		series.Values = append(series.Values, missing())
	}
	for i := startIndex; i < endIndex; i++ {
		v := make([]float64, len(bins))
		for b := range bins {
			if bins[b] == nil {
				v[b] = math.NaN()
				continue
			}
			v[b] = bins[b][i]
		}
		series.Dates = append(series.Dates, data.Date[i])
		series.Values = append(series.Values, v)
	}
	if !end.IsZero() && (startIndex == endIndex || !data.Date[endIndex-1].Equal(end)) {
		series.Dates = append(series.Dates, end)
		series.Values = append(series.Values, missing())
	}

	return series
}

// 体積粒径分布 dV/dlnr を個数粒径分布 dN/dlnr に変換します。
// dN = dV / (4/3 π r³)
func VolumeToNumber(dv *SizeSeries) *SizeSeries {
	dn := &SizeSeries{
		Radius: append([]float64{}, dv.Radius...),
		Dates:  append([]time.Time{}, dv.Dates...),
		Values: make([][]float64, len(dv.Values)),
	}
	for i, v := range dv.Values {
		dn.Values[i] = make([]float64, len(v))
		for b, r := range dv.Radius {
			volume := 4.0 / 3.0 * math.Pi * r * r * r
			dn.Values[i][b] = v[b] / volume
		}
	}
	return dn
}
