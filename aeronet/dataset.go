package aeronet

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// 整形済みの観測データ(1行=1地点1日)
type Dataset struct {
	Site      []string    //地点名
	Date      []time.Time //観測日 (UTC)
	DayOfYear []float64   //通日
	Lat       []float64   //地点の緯度 (単位:°)
	Lon       []float64   //地点の経度 (単位:°)

	columns []string             //数値列の並び
	values  map[string][]float64 //数値列。欠測はNaN

	Radius []float64   //粒径ビンの半径 (単位:μm)
	DVDlnr [][]float64 //dV/dlnr ベクトル。粒径分布の無い行はnil
}

func newDataset(columns []string, radius []float64) *Dataset {
	ds := &Dataset{
		columns: append([]string{}, columns...),
		values:  make(map[string][]float64, len(columns)),
		Radius:  append([]float64{}, radius...),
	}
	for _, c := range columns {
		ds.values[c] = []float64{}
	}
	return ds
}

// 粒径ビンの列名 "Bin 1", "Bin 2", ...
func BinName(i int) string {
	return fmt.Sprintf("Bin %d", i+1)
}

// 行数
func (ds *Dataset) Len() int {
	return len(ds.Site)
}

// キー列以外の数値列名
func (ds *Dataset) Columns() []string {
	return append([]string{}, ds.columns...)
}

// 粒径ビンの列名
func (ds *Dataset) BinColumns() []string {
	names := make([]string, len(ds.Radius))
	for i := range ds.Radius {
		names[i] = BinName(i)
	}
	return names
}

func (ds *Dataset) HasColumn(name string) bool {
	switch name {
	case ColDayOfYear, ColLat, ColLon:
		return true
	}
	_, ok := ds.values[name]
	return ok
}

// 数値列を取得します。通日・緯度・経度も指定できます。
func (ds *Dataset) Column(name string) ([]float64, error) {
	switch name {
	case ColDayOfYear:
		return ds.DayOfYear, nil
	case ColLat:
		return ds.Lat, nil
	case ColLon:
		return ds.Lon, nil
	}
	v, ok := ds.values[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
	return v, nil
}

// 出現順の地点名一覧
func (ds *Dataset) Sites() []string {
	seen := map[string]bool{}
	sites := []string{}
	for _, s := range ds.Site {
		if !seen[s] {
			seen[s] = true
			sites = append(sites, s)
		}
	}
	return sites
}

// 1行追加します。vals は ds.columns の順
func (ds *Dataset) add(site string, date time.Time, doy, lat, lon float64, vals []float64, dv []float64) {
	ds.Site = append(ds.Site, site)
	ds.Date = append(ds.Date, date)
	ds.DayOfYear = append(ds.DayOfYear, doy)
	ds.Lat = append(ds.Lat, lat)
	ds.Lon = append(ds.Lon, lon)
	for j, c := range ds.columns {
		ds.values[c] = append(ds.values[c], vals[j])
	}
	ds.DVDlnr = append(ds.DVDlnr, dv)
}

// 行 i の数値列を columns の順で取り出す。存在しない列はNaN
func (ds *Dataset) row(i int, columns []string) []float64 {
	vals := make([]float64, len(columns))
	for j, c := range columns {
		if v, ok := ds.values[c]; ok {
			vals[j] = v[i]
		} else {
			vals[j] = math.NaN()
		}
	}
	return vals
}

// 指定した行を抜き出して新しい構造体を作成します。
func (ds *Dataset) take(index []int) *Dataset {
	out := newDataset(ds.columns, ds.Radius)
	for _, i := range index {
		out.add(ds.Site[i], ds.Date[i], ds.DayOfYear[i], ds.Lat[i], ds.Lon[i], ds.row(i, ds.columns), ds.DVDlnr[i])
	}
	return out
}

// 指定した列のみを残した新しい構造体を作成します。
func (ds *Dataset) project(columns []string) *Dataset {
	out := newDataset(columns, ds.Radius)
	for i := 0; i < ds.Len(); i++ {
		out.add(ds.Site[i], ds.Date[i], ds.DayOfYear[i], ds.Lat[i], ds.Lon[i], ds.row(i, columns), ds.DVDlnr[i])
	}
	return out
}

// 地点名、日付の順に並べ替えた新しい構造体を作成します。
func (ds *Dataset) sorted() *Dataset {
	index := make([]int, ds.Len())
	for i := range index {
		index[i] = i
	}
	sort.SliceStable(index, func(a, b int) bool {
		i, j := index[a], index[b]
		if ds.Site[i] != ds.Site[j] {
			return ds.Site[i] < ds.Site[j]
		}
		return ds.Date[i].Before(ds.Date[j])
	})
	return ds.take(index)
}

// 地点名 site の行番号
func (ds *Dataset) siteIndex(site string) []int {
	index := []int{}
	for i, s := range ds.Site {
		if s == site {
			index = append(index, i)
		}
	}
	return index
}
