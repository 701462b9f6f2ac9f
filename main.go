// aeronet-go
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/akamensky/argparse"
	"github.com/hhkbp2/go-logging"
	"github.com/pkg/errors"
	"github.com/udawtr/aeronet-go/aeronet"
)

// 全コマンド共通の引数
type commonArgs struct {
	config     *string
	aodDir     *string
	invDir     *string
	noAOD      *bool
	noINV      *bool
	start      *string
	end        *string
	allTime    *bool
	site       *string
	wavelength *int
	workers    *int
	quiet      *bool
	output     *string
	logLevel   *string
}

func addCommonArgs(cmd *argparse.Command) *commonArgs {
	return &commonArgs{
		config: cmd.String("c", "config", &argparse.Options{
			Default: "",
			Help:    "設定ファイル(YAML)のパス"}),
		aodDir: cmd.String("", "aod_dir", &argparse.Options{
			Default: "",
			Help:    "AOD地点ファイルの格納ディレクトリ"}),
		invDir: cmd.String("", "inv_dir", &argparse.Options{
			Default: "",
			Help:    "インバージョン地点ファイルの格納ディレクトリ"}),
		noAOD: cmd.Flag("", "no_aod", &argparse.Options{
			Help: "AODを読み込まない"}),
		noINV: cmd.Flag("", "no_inv", &argparse.Options{
			Help: "インバージョンを読み込まない"}),
		start: cmd.String("", "start", &argparse.Options{
			Default: "",
			Help:    "解析期間の開始日 YYYY-MM-DD (この日を含まない)"}),
		end: cmd.String("", "end", &argparse.Options{
			Default: "",
			Help:    "解析期間の終了日 YYYY-MM-DD (この日を含まない)"}),
		allTime: cmd.Flag("", "all_time", &argparse.Options{
			Help: "期間で抽出しない"}),
		site: cmd.String("s", "site", &argparse.Options{
			Default: "",
			Help:    "地点名"}),
		wavelength: cmd.Int("", "wavelength", &argparse.Options{
			Default: 0,
			Help:    "インバージョンの変数の波長 (nm)"}),
		workers: cmd.Int("", "workers", &argparse.Options{
			Default: 0,
			Help:    "同時に読み込むファイル数"}),
		quiet: cmd.Flag("q", "quiet", &argparse.Options{
			Help: "進捗バーを表示しない"}),
		output: cmd.String("o", "output", &argparse.Options{
			Default: "",
			Help:    "保存ファイルパス"}),
		logLevel: cmd.Selector("", "log", []string{"DEBUG", "INFO", "WARN", "ERROR", "CRITICAL"}, &argparse.Options{
			Default: "ERROR",
			Help:    "ログレベルの設定"}),
	}
}

// 設定ファイルを読み込み、コマンドライン引数で上書きする
func (a *commonArgs) loadConfig() (aeronet.Config, error) {
	conf, err := aeronet.LoadConfig(*a.config)
	if err != nil {
		return conf, err
	}
	if *a.aodDir != "" {
		conf.AODDir = *a.aodDir
	}
	if *a.invDir != "" {
		conf.INVDir = *a.invDir
	}
	if *a.noAOD {
		conf.AODDir = ""
	}
	if *a.noINV {
		conf.INVDir = ""
	}
	if *a.start != "" {
		conf.TimeRange[0] = *a.start
	}
	if *a.end != "" {
		conf.TimeRange[1] = *a.end
	}
	if *a.wavelength > 0 {
		conf.Wavelength = *a.wavelength
	}
	if *a.workers > 0 {
		conf.Workers = *a.workers
	}
	if *a.quiet {
		conf.Quiet = true
	}
	return conf, conf.Validate()
}

// ログレベル設定
func setLogLevel(level string) {
	if level == "DEBUG" {
		aeronet.SetLogLevel(logging.LevelDebug)
	} else if level == "INFO" {
		aeronet.SetLogLevel(logging.LevelInfo)
	} else if level == "WARN" {
		aeronet.SetLogLevel(logging.LevelWarn)
	} else if level == "ERROR" {
		aeronet.SetLogLevel(logging.LevelError)
	} else if level == "CRITICAL" {
		aeronet.SetLogLevel(logging.LevelCritical)
	}
}

// データを読み込み、期間で抽出する
func (a *commonArgs) loadDataset(ctx context.Context) (*aeronet.Dataset, aeronet.Config, error) {
	setLogLevel(*a.logLevel)

	conf, err := a.loadConfig()
	if err != nil {
		return nil, conf, err
	}

	ds, err := aeronet.Load(ctx, conf)
	if err != nil {
		return nil, conf, err
	}

	if !*a.allTime {
		start, end, _ := conf.Period()
		ds = ds.FilterTime(start, end)
	}
	return ds, conf, nil
}

// 保存
func (a *commonArgs) save(buf *bytes.Buffer, filename string) error {
	if filename == "" {
		filename = *a.output
	}
	if filename == "" {
		fmt.Print(buf.String())
		return nil
	}
	log.Printf("CSV保存: %s", filename)
	return errors.Wrap(os.WriteFile(filename, buf.Bytes(), 0o644), "save")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(aeronet.PeriodLayout, s)
	return t, errors.Wrapf(err, "date %q", s)
}

func main() {
	log.SetFlags(log.Lmicroseconds)

	// 標準出力はCSVに使うため、ログは標準エラー出力へ
	aeronet.AddLogOutput(os.Stderr)
	defer logging.Shutdown()

	// コマンドライン引数の処理
	parser := argparse.NewParser("aeronet", "Reshapes AERONET Level 2.0 daily AOD and inversion files into tidy tables")

	tidyCmd := parser.NewCommand("tidy", "AODとインバージョンを結合した表を出力")
	tidyArgs := addCommonArgs(tidyCmd)
	tidySave := tidyCmd.Flag("", "save", &argparse.Options{
		Help: "既定のファイル名 (COM20_<期間>_<地点>.csv) で保存"})

	recCmd := parser.NewCommand("records", "記録数が min_rec を超える地点の行を出力")
	recArgs := addCommonArgs(recCmd)
	recVars := recCmd.StringList("v", "var", &argparse.Options{
		Default: []string{"aod"},
		Help:    "変数名 (aod, alfa, aod_fine, aod_coarse, aod_abs または列名)"})
	recMin := recCmd.Int("m", "min_rec", &argparse.Options{
		Default: -1,
		Help:    "記録数の下限 (既定は設定ファイルの min_rec)"})

	aveCmd := parser.NewCommand("average", "地点別の平均値を出力")
	aveArgs := addCommonArgs(aveCmd)
	aveVars := aveCmd.StringList("v", "var", &argparse.Options{
		Default: []string{"aod"},
		Help:    "変数名。SIZE は粒径ビンの全列"})
	aveMin := aveCmd.Int("m", "min_rec", &argparse.Options{
		Default: -1,
		Help:    "記録数の下限 (既定は設定ファイルの min_rec)"})
	aveMap := aveCmd.Flag("", "map", &argparse.Options{
		Help: "地図用の点 (経度0-360°) を出力"})

	sitesCmd := parser.NewCommand("sites", "緯度経度の範囲内の地点名を出力")
	sitesArgs := addCommonArgs(sitesCmd)
	latMin := sitesCmd.Float("", "lat_min", &argparse.Options{Default: aeronet.DefaultRegion.Lat[0], Help: "緯度の下限"})
	latMax := sitesCmd.Float("", "lat_max", &argparse.Options{Default: aeronet.DefaultRegion.Lat[1], Help: "緯度の上限"})
	lonMin := sitesCmd.Float("", "lon_min", &argparse.Options{Default: aeronet.DefaultRegion.Lon[0], Help: "経度の下限"})
	lonMax := sitesCmd.Float("", "lon_max", &argparse.Options{Default: aeronet.DefaultRegion.Lon[1], Help: "経度の上限"})

	monCmd := parser.NewCommand("monthly", "地点の月平均値を出力")
	monArgs := addCommonArgs(monCmd)
	monVars := monCmd.StringList("v", "var", &argparse.Options{
		Default: []string{"aod"},
		Help:    "変数名 (2つ指定すると月で結合)"})

	sizeCmd := parser.NewCommand("size", "粒径分布を出力")
	sizeArgs := addCommonArgs(sizeCmd)
	sizeNumber := sizeCmd.Flag("n", "number", &argparse.Options{
		Help: "個数粒径分布 dN/dlnr を出力"})
	sizeFrom := sizeCmd.String("", "from", &argparse.Options{
		Default: "",
		Help:    "時系列の開始日 YYYY-MM-DD"})
	sizeTo := sizeCmd.String("", "to", &argparse.Options{
		Default: "",
		Help:    "時系列の終了日 YYYY-MM-DD"})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(2)
	}

	ctx := context.Background()
	switch {
	case tidyCmd.Happened():
		err = runTidy(ctx, tidyArgs, *tidySave)
	case recCmd.Happened():
		err = runRecords(ctx, recArgs, *recVars, *recMin)
	case aveCmd.Happened():
		err = runAverage(ctx, aveArgs, *aveVars, *aveMin, *aveMap)
	case sitesCmd.Happened():
		region := aeronet.Region{Lat: [2]float64{*latMin, *latMax}, Lon: [2]float64{*lonMin, *lonMax}}
		err = runSites(ctx, sitesArgs, region)
	case monCmd.Happened():
		err = runMonthly(ctx, monArgs, *monVars)
	case sizeCmd.Happened():
		err = runSize(ctx, sizeArgs, *sizeNumber, *sizeFrom, *sizeTo)
	}
	if err != nil {
		log.Fatalf("%+v", err)
	}

	log.Printf("計算が終了しました")
}

func runTidy(ctx context.Context, a *commonArgs, saveDefault bool) error {
	ds, conf, err := a.loadDataset(ctx)
	if err != nil {
		return err
	}
	ds, err = ds.FilterSite(*a.site)
	if err != nil {
		return err
	}

	filename := ""
	if saveDefault && *a.output == "" {
		label := conf.PeriodLabel()
		if *a.allTime {
			label = "all_time"
		}
		site := ""
		if *a.site != "" {
			site = "_" + *a.site
		}
		filename = fmt.Sprintf("COM20_%s%s.csv", label, site)
	}

	buf := bytes.NewBuffer([]byte{})
	if err := ds.ToCSV(buf); err != nil {
		return err
	}
	return a.save(buf, filename)
}

func resolveColumns(conf aeronet.Config, vars []string) []string {
	names := aeronet.ColumnNames(conf.Wavelength)
	columns := make([]string, len(vars))
	for i, v := range vars {
		columns[i] = aeronet.ResolveColumn(names, v)
	}
	return columns
}

func minRecord(conf aeronet.Config, minRec int) int {
	if minRec < 0 {
		return conf.MinRec
	}
	return minRec
}

func runRecords(ctx context.Context, a *commonArgs, vars []string, minRec int) error {
	ds, conf, err := a.loadDataset(ctx)
	if err != nil {
		return err
	}
	res, err := ds.FilterRecords(minRecord(conf, minRec), resolveColumns(conf, vars))
	if err != nil {
		return err
	}

	buf := bytes.NewBuffer([]byte{})
	if err := res.ToCSV(buf); err != nil {
		return err
	}
	return a.save(buf, "")
}

func runAverage(ctx context.Context, a *commonArgs, vars []string, minRec int, asMap bool) error {
	ds, conf, err := a.loadDataset(ctx)
	if err != nil {
		return err
	}
	columns := resolveColumns(conf, vars)
	avg, err := ds.Average(columns, minRecord(conf, minRec))
	if err != nil {
		return err
	}

	buf := bytes.NewBuffer([]byte{})
	if asMap {
		if len(columns) != 1 || strings.EqualFold(columns[0], aeronet.SizeColumns) {
			return errors.New("--map needs exactly one variable")
		}
		points, err := aeronet.MapPoints(avg, columns[0])
		if err != nil {
			return err
		}
		if err := aeronet.MapPointsToCSV(buf, columns[0], points); err != nil {
			return err
		}
	} else if err := avg.ToCSV(buf); err != nil {
		return err
	}
	return a.save(buf, "")
}

func runSites(ctx context.Context, a *commonArgs, region aeronet.Region) error {
	ds, _, err := a.loadDataset(ctx)
	if err != nil {
		return err
	}
	buf := bytes.NewBuffer([]byte{})
	for _, s := range ds.SelectSites(region) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}
	return a.save(buf, "")
}

func runMonthly(ctx context.Context, a *commonArgs, vars []string) error {
	if *a.site == "" {
		return errors.New("monthly needs --site")
	}
	ds, conf, err := a.loadDataset(ctx)
	if err != nil {
		return err
	}
	site, err := ds.SingleSite(*a.site)
	if err != nil {
		return err
	}
	columns := resolveColumns(conf, vars)

	buf := bytes.NewBuffer([]byte{})
	switch len(columns) {
	case 1:
		series, err := aeronet.NewMonthlySeries(site, columns[0])
		if err != nil {
			return err
		}
		if len(series.Points) == 0 {
			log.Printf("%s (%s) の月平均値がありません", site.Name, columns[0])
		}
		if err := series.ToCSV(buf); err != nil {
			return err
		}
	case 2:
		pairs, err := aeronet.NewMonthlyPairs(site, columns[0], columns[1])
		if err != nil {
			return err
		}
		if err := aeronet.MonthlyPairsToCSV(buf, columns[0], columns[1], pairs); err != nil {
			return err
		}
	default:
		return errors.Errorf("monthly takes one or two variables, got %d", len(columns))
	}
	return a.save(buf, "")
}

func runSize(ctx context.Context, a *commonArgs, number bool, from string, to string) error {
	ds, _, err := a.loadDataset(ctx)
	if err != nil {
		return err
	}

	buf := bytes.NewBuffer([]byte{})
	if *a.site == "" {
		summary, err := ds.SizeAggregate()
		if err != nil {
			return err
		}
		if err := aeronet.SizeSummaryToCSV(buf, ds.BinColumns(), summary); err != nil {
			return err
		}
		return a.save(buf, "")
	}

	site, err := ds.SingleSite(*a.site)
	if err != nil {
		return err
	}
	start, err := parseDate(from)
	if err != nil {
		return err
	}
	end, err := parseDate(to)
	if err != nil {
		return err
	}

	series := site.SizeTimeSeries(start, end)
	if number {
		series = aeronet.VolumeToNumber(series)
	}
	if err := series.ToCSV(buf); err != nil {
		return err
	}
	return a.save(buf, "")
}
