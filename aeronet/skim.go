package aeronet

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

//--------------------------------------
// 列名の統一と欠測値の処理
//--------------------------------------

// インバージョンプロダクトの列名をAODプロダクトに合わせる
var invRename = map[string]string{
	"AERONET_Site":       ColSite,
	"Latitude(Degrees)":  ColLat,
	"Longitude(Degrees)": ColLon,
}

// 有効半径
var ReffColumns = []string{"REff-C", "REff-F", "REff-T"}

// 近い波長の列の組 (残す波長, 補完に使う波長)
var wavelengthPairs = [][2]string{{"440nm", "443nm"}, {"675nm", "667nm"}, {"870nm", "865nm"}}

var (
	sizeModes    = []string{"Coarse", "Fine", "Total"}
	keysWithSize = []string{"AOD_Extinction", "Asymmetry_Factor"}
	keysNoSize   = []string{"Absorption_AOD", "Single_Scattering_Albedo"}
)

// 統合する列の組
type columnPair struct {
	keep     string // 残す列
	fallback string // keep が欠測の時に使う列
}

func opticalPairs() []columnPair {
	keys := []string{}
	for _, k := range keysWithSize {
		for _, s := range sizeModes {
			keys = append(keys, fmt.Sprintf("%s-%s", k, s))
		}
	}
	keys = append(keys, keysNoSize...)

	pairs := []columnPair{}
	for _, k := range keys {
		for _, wl := range wavelengthPairs {
			pairs = append(pairs, columnPair{
				keep:     fmt.Sprintf("%s[%s]", k, wl[0]),
				fallback: fmt.Sprintf("%s[%s]", k, wl[1]),
			})
		}
	}
	return pairs
}

// 統合後に残る光学特性の列名
func OpticalColumns() []string {
	pairs := opticalPairs()
	cols := make([]string, len(pairs))
	for i, p := range pairs {
		cols[i] = p.keep
	}
	return cols
}

// """セルの文字列を数値に変換します。
// 空欄、N/A、数値でない文字列、-999 は欠測(NaN)とします。
// """
func ParseValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == MissingValue {
		return math.NaN()
	}
	return v
}

// ヘッダが粒径ビンの半径であれば半径を返す
func sizeBinRadius(h string) (float64, bool) {
	if !strings.Contains(h, ".") || strings.Contains(h, "N[") {
		return 0, false
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return 0, false
	}
	return r, true
}

// 半径の比較用のキー
func radiusKey(r float64) string {
	return strconv.FormatFloat(r, 'f', 6, 64)
}

// キー列の位置
type keyIndex struct {
	site, date, doy, lat, lon int
}

func findKeys(raw *RawTable, idx map[string]int) (keyIndex, error) {
	k := keyIndex{}
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{ColSite, &k.site},
		{ColDate, &k.date},
		{ColDayOfYear, &k.doy},
		{ColLat, &k.lat},
		{ColLon, &k.lon},
	} {
		i, ok := idx[c.name]
		if !ok {
			return k, errors.Errorf("%s: missing column %q", raw.Path, c.name)
		}
		*c.dst = i
	}
	return k, nil
}

type rowKey struct {
	site string
	date time.Time
	doy  float64
	lat  float64
	lon  float64
}

func parseKey(raw *RawTable, k keyIndex, n int) (rowKey, error) {
	row := raw.Rows[n]
	date, err := time.Parse(DateLayout, row[k.date])
	if err != nil {
		return rowKey{}, errors.Wrapf(err, "%s: record %d", raw.Path, n+1)
	}
	site := row[k.site]
	if site == "" {
		site = raw.Site
	}
	return rowKey{
		site: site,
		date: date,
		doy:  ParseValue(row[k.doy]),
		lat:  ParseValue(row[k.lat]),
		lon:  ParseValue(row[k.lon]),
	}, nil
}

func cell(row []string, idx map[string]int, name string) float64 {
	i, ok := idx[name]
	if !ok {
		return math.NaN()
	}
	return ParseValue(row[i])
}

// """AODプロダクトの地点ファイル群を整形します。
// キー列と AOD_500nm、440-870_Angstrom_Exponent のみを残します。
// Args:
//
//	tables([]*RawTable): 読み込んだ地点ファイル
//
// Returns:
//
//	*Dataset: 整形済みのデータ
//
// """
func SkimAOD(tables []*RawTable) (*Dataset, error) {
	columns := []string{ColAOD500, ColAlpha}
	ds := newDataset(columns, nil)

	for _, raw := range tables {
		idx := raw.Index()
		k, err := findKeys(raw, idx)
		if err != nil {
			return nil, err
		}
		for _, c := range columns {
			if _, ok := idx[c]; !ok {
				logger.Warnf("%s に列 %s がありません", raw.Path, c)
			}
		}

		for n, row := range raw.Rows {
			key, err := parseKey(raw, k, n)
			if err != nil {
				return nil, err
			}
			vals := make([]float64, len(columns))
			for j, c := range columns {
				vals[j] = cell(row, idx, c)
			}
			ds.add(key.site, key.date, key.doy, key.lat, key.lon, vals, nil)
		}
	}

	logger.Infof("AOD整形完了 %d件", ds.Len())
	return ds, nil
}

// インバージョンの列名をAODプロダクトに合わせた対応表
func invIndex(raw *RawTable) map[string]int {
	idx := raw.Index()
	for from, to := range invRename {
		if i, ok := idx[from]; ok {
			if _, exists := idx[to]; !exists {
				idx[to] = i
			}
			delete(idx, from)
		}
	}
	return idx
}

// """インバージョンプロダクトの地点ファイル群を整形します。
// 近い波長の列を統合し、粒径ビンを "Bin 1".."Bin N" に改名して dV/dlnr ベクトルを作ります。
// 光学特性の列が1つも無い場合は粒径分布のみを残します。
// Args:
//
//	tables([]*RawTable): 読み込んだ地点ファイル
//
// Returns:
//
//	*Dataset: 整形済みのデータ
//
// """
func SkimINV(tables []*RawTable) (*Dataset, error) {
	pairs := opticalPairs()

	// 全ファイルの粒径ビンと光学特性の列の有無
	radiusSet := map[string]float64{}
	hasOptical := false
	for _, raw := range tables {
		for _, h := range raw.Header {
			if r, ok := sizeBinRadius(h); ok {
				radiusSet[radiusKey(r)] = r
			}
		}
		idx := raw.Index()
		for _, p := range pairs {
			_, ok1 := idx[p.keep]
			_, ok2 := idx[p.fallback]
			if ok1 || ok2 {
				hasOptical = true
			}
		}
	}
	radius := make([]float64, 0, len(radiusSet))
	for _, r := range radiusSet {
		radius = append(radius, r)
	}
	sort.Float64s(radius)

	bins := make([]string, len(radius))
	for i := range radius {
		bins[i] = BinName(i)
	}

	columns := []string{}
	if hasOptical {
		columns = append(columns, ReffColumns...)
		columns = append(columns, bins...)
		columns = append(columns, OpticalColumns()...)
	} else {
		columns = append(columns, bins...)
		logger.Warnf("光学特性の列がありません。粒径分布のみを残します")
	}

	ds := newDataset(columns, radius)
	for _, raw := range tables {
		idx := invIndex(raw)
		k, err := findKeys(raw, idx)
		if err != nil {
			return nil, err
		}

		// 半径 => 列番号
		binIndex := map[string]int{}
		for i, h := range raw.Header {
			if r, ok := sizeBinRadius(h); ok {
				binIndex[radiusKey(r)] = i
			}
		}

		for n, row := range raw.Rows {
			key, err := parseKey(raw, k, n)
			if err != nil {
				return nil, err
			}

			dv := make([]float64, len(radius))
			for i, r := range radius {
				if c, ok := binIndex[radiusKey(r)]; ok {
					dv[i] = ParseValue(row[c])
				} else {
					dv[i] = math.NaN()
				}
			}

			vals := make([]float64, 0, len(columns))
			if hasOptical {
				for _, c := range ReffColumns {
					vals = append(vals, cell(row, idx, c))
				}
				vals = append(vals, dv...)
				for _, p := range pairs {
					v := cell(row, idx, p.keep)
					if math.IsNaN(v) {
						v = cell(row, idx, p.fallback)
					}
					vals = append(vals, v)
				}
			} else {
				vals = append(vals, dv...)
			}

			ds.add(key.site, key.date, key.doy, key.lat, key.lon, vals, dv)
		}
	}

	logger.Infof("INV整形完了 %d件 (粒径ビン %d)", ds.Len(), len(radius))
	return ds, nil
}

// プロダクトに応じた整形
func Skim(product Product, tables []*RawTable) (*Dataset, error) {
	switch product {
	case AOD:
		return SkimAOD(tables)
	case INV:
		return SkimINV(tables)
	}
	return nil, errors.Errorf("unknown product %q", product)
}
