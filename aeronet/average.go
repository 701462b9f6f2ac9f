package aeronet

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// 粒径ビン全列を指定する列名
const SizeColumns = "SIZE"

// 地点ごとの平均値
type SiteAverage struct {
	Site         string
	Lat          float64
	Lon          float64
	DayOfYear    float64   //通日の平均
	Days         []int     //平均に使った行の通日
	RecordNumber int       //平均に使った行数
	Values       []float64 //Averages.Columns の順
}

// 地点別平均の表
type Averages struct {
	Columns []string
	Sites   []SiteAverage
}

// 列名の展開。"SIZE" は粒径ビンの全列
func (ds *Dataset) expandColumns(columns []string) []string {
	out := []string{}
	for _, c := range columns {
		if strings.EqualFold(c, SizeColumns) {
			out = append(out, ds.BinColumns()...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// """地点ごとの平均値を計算します。
// キー列または columns に欠測のある行は除きます。
// Args:
//
//	columns([]string): 平均する列。"SIZE" は粒径ビンの全列
//	minRec(int): 0より大きい場合、行数がこれ未満の地点を除く
//
// Returns:
//
//	*Averages: 地点名順の平均値
//
// """
func (ds *Dataset) Average(columns []string, minRec int) (*Averages, error) {
	if len(columns) == 0 {
		columns = []string{ColAOD500}
	}
	columns = ds.expandColumns(columns)

	ok, err := completeRows(ds, append([]string{ColDayOfYear, ColLat, ColLon}, columns...))
	if err != nil {
		return nil, err
	}

	series := make([][]float64, len(columns))
	for j, c := range columns {
		if series[j], err = ds.Column(c); err != nil {
			return nil, err
		}
	}

	groups := map[string][]int{}
	for i, valid := range ok {
		if valid {
			groups[ds.Site[i]] = append(groups[ds.Site[i]], i)
		}
	}

	sites := make([]string, 0, len(groups))
	for s := range groups {
		sites = append(sites, s)
	}
	sort.Strings(sites)

	res := &Averages{Columns: columns}
	for _, s := range sites {
		index := groups[s]
		if minRec > 0 && len(index) < minRec {
			continue
		}

		pick := func(v []float64) []float64 {
			out := make([]float64, len(index))
			for n, i := range index {
				out[n] = v[i]
			}
			return out
		}

		days := make([]int, len(index))
		for n, i := range index {
			days[n] = int(ds.DayOfYear[i])
		}

		values := make([]float64, len(columns))
		for j := range columns {
			values[j] = stat.Mean(pick(series[j]), nil)
		}

		res.Sites = append(res.Sites, SiteAverage{
			Site:         s,
			Lat:          stat.Mean(pick(ds.Lat), nil),
			Lon:          stat.Mean(pick(ds.Lon), nil),
			DayOfYear:    stat.Mean(pick(ds.DayOfYear), nil),
			Days:         days,
			RecordNumber: len(index),
			Values:       values,
		})
	}

	logger.Infof("地点別平均 %d地点", len(res.Sites))
	return res, nil
}

// i 番目の地点の列 column の平均値。列が無い場合はNaN
func (a *Averages) Value(i int, column string) float64 {
	for j, c := range a.Columns {
		if c == column {
			return a.Sites[i].Values[j]
		}
	}
	return math.NaN()
}
