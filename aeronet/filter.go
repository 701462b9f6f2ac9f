package aeronet

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// 開始日 start から 終了日 end までの行(両端を含まない)を抜き出して新しい構造体を作成します。
// 該当する行が無い場合は元のデータをそのまま返します。
func (ds *Dataset) FilterTime(start time.Time, end time.Time) *Dataset {
	index := []int{}
	for i, d := range ds.Date {
		if d.After(start) && d.Before(end) {
			index = append(index, i)
		}
	}
	if len(index) == 0 {
		logger.Warnf("期間内のデータがありません: %s - %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
		return ds
	}
	logger.Infof("期間で抽出: %s - %s (%d件)", start.Format("2006-01-02"), end.Format("2006-01-02"), len(index))
	return ds.take(index)
}

// 地点名 site の行を抜き出して新しい構造体を作成します。
// site が空の場合は元のデータをそのまま返します。
func (ds *Dataset) FilterSite(site string) (*Dataset, error) {
	if site == "" {
		return ds, nil
	}
	index := ds.siteIndex(site)
	if len(index) == 0 {
		return nil, errors.Wrapf(ErrSiteNotFound, "%s", site)
	}
	logger.Infof("地点で抽出: %s (%d件)", site, len(index))
	return ds.take(index), nil
}

// 全列がそろっている行
func completeRows(ds *Dataset, columns []string) ([]bool, error) {
	ok := make([]bool, ds.Len())
	for i := range ok {
		ok[i] = ds.Site[i] != ""
	}
	for _, c := range columns {
		v, err := ds.Column(c)
		if err != nil {
			return nil, err
		}
		for i := range ok {
			if math.IsNaN(v[i]) {
				ok[i] = false
			}
		}
	}
	return ok, nil
}

// """有効な記録数が min_rec を超える地点の行を抜き出します。
// Args:
//
//	minRec(int): 記録数の下限(この値を含まない)
//	columns([]string): 記録数を数える列。すべてがそろった行を数える
//
// Returns:
//
//	*Dataset: キー列と columns のみを持つデータ
//
// """
func (ds *Dataset) FilterRecords(minRec int, columns []string) (*Dataset, error) {
	if len(columns) == 0 {
		columns = []string{ColAOD500}
	}
	ok, err := completeRows(ds, columns)
	if err != nil {
		return nil, err
	}

	count := map[string]int{}
	for i, valid := range ok {
		if valid {
			count[ds.Site[i]]++
		}
	}

	index := []int{}
	for i, s := range ds.Site {
		if count[s] > minRec {
			index = append(index, i)
		}
	}

	valueColumns := []string{}
	for _, c := range columns {
		switch c {
		case ColDayOfYear, ColLat, ColLon:
		default:
			valueColumns = append(valueColumns, c)
		}
	}
	return ds.take(index).project(valueColumns), nil
}

// 緯度経度の範囲
type Region struct {
	Lat [2]float64 // 緯度の下限と上限
	Lon [2]float64 // 経度の下限と上限
}

func (r Region) bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.Lon[0], r.Lat[0]},
		Max: orb.Point{r.Lon[1], r.Lat[1]},
	}
}

// 範囲の境界上の点は含まない
func (r Region) Contains(p orb.Point) bool {
	b := r.bound()
	if !b.Contains(p) {
		return false
	}
	return p.Lon() != b.Min.Lon() && p.Lon() != b.Max.Lon() &&
		p.Lat() != b.Min.Lat() && p.Lat() != b.Max.Lat()
}

// 既定の範囲 (緯度 0-30°, 経度 0-10°)
var DefaultRegion = Region{Lat: [2]float64{0, 30}, Lon: [2]float64{0, 10}}

// 範囲 region 内にある地点名を出現順に返します。
func (ds *Dataset) SelectSites(region Region) []string {
	seen := map[string]bool{}
	sites := []string{}
	for i, s := range ds.Site {
		if seen[s] {
			continue
		}
		if region.Contains(orb.Point{ds.Lon[i], ds.Lat[i]}) {
			seen[s] = true
			sites = append(sites, s)
		}
	}
	return sites
}
