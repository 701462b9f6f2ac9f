package aeronet

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// 欠測は空欄
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatVector(v []float64) string {
	if v == nil {
		return ""
	}
	s := make([]string, len(v))
	for i := range v {
		s[i] = formatFloat(v[i])
	}
	return strings.Join(s, ";")
}

// 通日の一覧は ";" で連結
func formatDays(days []int) string {
	s := make([]string, len(days))
	for i, d := range days {
		s[i] = strconv.Itoa(d)
	}
	return strings.Join(s, ";")
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "write rows")
	}
	return nil
}

// CSV形式
// dV/dlnr はビンの値を ";" で連結して1列に出力します。
func (ds *Dataset) ToCSV(w io.Writer) error {
	header := []string{ColSite, ColDate, ColDayOfYear, ColLat, ColLon}
	header = append(header, ds.columns...)
	header = append(header, ColDVDlnr)

	rows := make([][]string, ds.Len())
	for i := range rows {
		row := []string{
			ds.Site[i],
			ds.Date[i].Format(DateLayout),
			formatFloat(ds.DayOfYear[i]),
			formatFloat(ds.Lat[i]),
			formatFloat(ds.Lon[i]),
		}
		for _, c := range ds.columns {
			row = append(row, formatFloat(ds.values[c][i]))
		}
		row = append(row, formatVector(ds.DVDlnr[i]))
		rows[i] = row
	}
	return writeAll(w, header, rows)
}

// 地点別平均のCSV形式
func (a *Averages) ToCSV(w io.Writer) error {
	header := []string{ColSite, ColLat, ColLon, ColDayOfYear}
	header = append(header, a.Columns...)
	header = append(header, "Record_number", ColDayOfYear+"_list")

	rows := make([][]string, len(a.Sites))
	for i, s := range a.Sites {
		row := []string{s.Site, formatFloat(s.Lat), formatFloat(s.Lon), formatFloat(s.DayOfYear)}
		for _, v := range s.Values {
			row = append(row, formatFloat(v))
		}
		row = append(row, strconv.Itoa(s.RecordNumber), formatDays(s.Days))
		rows[i] = row
	}
	return writeAll(w, header, rows)
}

// 地図用の点のCSV形式
func MapPointsToCSV(w io.Writer, column string, points []MapPoint) error {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.Site, formatFloat(p.Lat), formatFloat(p.Lon), formatFloat(p.Value)}
	}
	return writeAll(w, []string{ColSite, ColLat, ColLon, column}, rows)
}

// 月平均値のCSV形式。最終行は月平均値の平均
func (m *MonthlySeries) ToCSV(w io.Writer) error {
	rows := make([][]string, 0, len(m.Points)+1)
	for _, p := range m.Points {
		rows = append(rows, []string{p.Month.Format("2006-01"), formatFloat(p.Mean), strconv.Itoa(p.Count)})
	}
	rows = append(rows, []string{"mean", formatFloat(m.Mean), ""})
	return writeAll(w, []string{"month", m.Column, "count"}, rows)
}

// 2変数の月平均値のCSV形式
func MonthlyPairsToCSV(w io.Writer, column1 string, column2 string, pairs []MonthlyPair) error {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.Month.Format("2006-01"), formatFloat(p.X), formatFloat(p.Y)}
	}
	return writeAll(w, []string{"month", column1, column2}, rows)
}

// 地点別粒径分布のCSV形式
func SizeSummaryToCSV(w io.Writer, bins []string, summary []SizeSummary) error {
	header := []string{ColSite, ColLat, ColLon,
		ColAOD500 + "_mean", ColAOD500 + "_count",
		ColAlpha + "_mean", ColAlpha + "_count",
		ColDVDlnr + "_count"}
	header = append(header, bins...)

	rows := make([][]string, len(summary))
	for i, s := range summary {
		row := []string{
			s.Site, formatFloat(s.Lat), formatFloat(s.Lon),
			formatFloat(s.AODMean), strconv.Itoa(s.AODCount),
			formatFloat(s.AEMean), strconv.Itoa(s.AECount),
			strconv.Itoa(s.DVCount),
		}
		for _, v := range s.BinMeans {
			row = append(row, formatFloat(v))
		}
		rows[i] = row
	}
	return writeAll(w, header, rows)
}

// 粒径分布の時系列のCSV形式。列見出しはビンの半径
func (s *SizeSeries) ToCSV(w io.Writer) error {
	header := []string{"date"}
	for _, r := range s.Radius {
		header = append(header, strconv.FormatFloat(r, 'f', 6, 64))
	}

	rows := make([][]string, len(s.Dates))
	for i, d := range s.Dates {
		row := []string{d.Format(PeriodLayout)}
		for _, v := range s.Values[i] {
			row = append(row, formatFloat(v))
		}
		rows[i] = row
	}
	return writeAll(w, header, rows)
}
