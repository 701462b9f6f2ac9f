package aeronet

import (
	"math"
	"time"
)

type siteDate struct {
	site string
	date time.Time
}

// """AODとインバージョンのデータを地点名と日付で外部結合します。
// 両方にある行の緯度・経度・通日はAODの値を優先します。
// Args:
//
//	aod(*Dataset): 整形済みのAODデータ
//	inv(*Dataset): 整形済みのインバージョンデータ
//
// Returns:
//
//	*Dataset: 地点名、日付の順に並んだ結合結果
//
// """
func Combine(aod *Dataset, inv *Dataset) *Dataset {
	columns := aod.Columns()
	for _, c := range inv.columns {
		if _, dup := aod.values[c]; !dup {
			columns = append(columns, c)
		}
	}
	out := newDataset(columns, inv.Radius)

	invByKey := map[siteDate][]int{}
	for i := 0; i < inv.Len(); i++ {
		k := siteDate{inv.Site[i], inv.Date[i]}
		invByKey[k] = append(invByKey[k], i)
	}

	matched := make([]bool, inv.Len())
	for i := 0; i < aod.Len(); i++ {
		k := siteDate{aod.Site[i], aod.Date[i]}
		aodVals := aod.row(i, columns)

		js, ok := invByKey[k]
		if !ok {
			out.add(aod.Site[i], aod.Date[i], aod.DayOfYear[i], aod.Lat[i], aod.Lon[i], aodVals, nil)
			continue
		}
		for _, j := range js {
			matched[j] = true
			invVals := inv.row(j, columns)
			vals := make([]float64, len(columns))
			for n := range columns {
				vals[n] = coalesce(aodVals[n], invVals[n])
			}
			out.add(
				aod.Site[i],
				aod.Date[i],
				coalesce(aod.DayOfYear[i], inv.DayOfYear[j]),
				coalesce(aod.Lat[i], inv.Lat[j]),
				coalesce(aod.Lon[i], inv.Lon[j]),
				vals,
				inv.DVDlnr[j],
			)
		}
	}

	for j := 0; j < inv.Len(); j++ {
		if matched[j] {
			continue
		}
		out.add(inv.Site[j], inv.Date[j], inv.DayOfYear[j], inv.Lat[j], inv.Lon[j], inv.row(j, columns), inv.DVDlnr[j])
	}

	logger.Infof("AOD %d件とINV %d件を結合 => %d件", aod.Len(), inv.Len(), out.Len())
	return out.sorted()
}

func coalesce(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}
