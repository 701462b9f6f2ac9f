package aeronet

import (
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"
)

// 1地点のデータ
type SiteView struct {
	Name     string
	Location orb.Point //先頭行の経度・緯度
	Data     *Dataset  //日付順
}

func (s *SiteView) Lat() float64 { return s.Location.Lat() }
func (s *SiteView) Lon() float64 { return s.Location.Lon() }

// 地点名 name のデータを取り出します。
func (ds *Dataset) SingleSite(name string) (*SiteView, error) {
	data, err := ds.FilterSite(name)
	if err != nil {
		return nil, err
	}
	if name == "" || data.Len() == 0 {
		return nil, ErrSiteNotFound
	}
	data = data.sorted()
	return &SiteView{
		Name:     name,
		Location: orb.Point{data.Lon[0], data.Lat[0]},
		Data:     data,
	}, nil
}

// 月平均値
type MonthlyValue struct {
	Month time.Time //月初日
	Mean  float64
	Count int
}

// """列 column の月平均値を計算します。欠測は除きます。
// Returns:
//
//	[]MonthlyValue: 月順の平均値。値の無い月は含まない
//
// """
func (s *SiteView) MonthlyAverage(column string) ([]MonthlyValue, error) {
	v, err := s.Data.Column(column)
	if err != nil {
		return nil, err
	}

	groups := map[time.Time][]float64{}
	for i, d := range s.Data.Date {
		if math.IsNaN(v[i]) {
			continue
		}
		m := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		groups[m] = append(groups[m], v[i])
	}

	months := make([]time.Time, 0, len(groups))
	for m := range groups {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	res := make([]MonthlyValue, len(months))
	for i, m := range months {
		res[i] = MonthlyValue{
			Month: m,
			Mean:  stat.Mean(groups[m], nil),
			Count: len(groups[m]),
		}
	}
	return res, nil
}
