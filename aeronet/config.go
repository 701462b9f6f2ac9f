package aeronet

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// 期間の書式
const PeriodLayout = "2006-01-02"

// 解析の設定
type Config struct {
	AODDir     string    `yaml:"aod_dir"`    // AOD地点ファイルの格納ディレクトリ
	INVDir     string    `yaml:"inv_dir"`    // インバージョン地点ファイルの格納ディレクトリ
	TimeRange  [2]string `yaml:"time_range"` // 解析期間 [開始日, 終了日] (YYYY-MM-DD)
	Wavelength int       `yaml:"wavelength"` // インバージョンの変数の波長 (単位:nm)
	MinRec     int       `yaml:"min_rec"`    // 地点別平均に必要な記録数
	Workers    int       `yaml:"workers"`    // 同時に読み込むファイル数
	Quiet      bool      `yaml:"quiet"`      // 進捗バーを表示しない
}

// 既定の設定
func DefaultConfig() Config {
	return Config{
		AODDir:     "AOD/AOD20/DAILY",
		INVDir:     "INV/LEV20/ALL/DAILY",
		TimeRange:  [2]string{"2006-01-01", "2006-12-31"},
		Wavelength: DefaultWavelength,
		MinRec:     0,
		Workers:    4,
	}
}

// """設定ファイル(YAML)を読み込みます。記載の無い項目は既定値とします。
// Args:
//
//	path(string): 設定ファイルのパス。空の場合は既定の設定を返す
//
// """
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if path == "" {
		return conf, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return conf, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return conf, errors.Wrapf(err, "parse config %s", path)
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.Wrapf(err, "config %s", path)
	}
	return conf, nil
}

func (c Config) Validate() error {
	if c.Wavelength <= 0 {
		return errors.Errorf("wavelength must be positive: %d", c.Wavelength)
	}
	if c.MinRec < 0 {
		return errors.Errorf("min_rec must not be negative: %d", c.MinRec)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1: %d", c.Workers)
	}
	if _, _, err := c.Period(); err != nil {
		return err
	}
	return nil
}

// 解析期間
func (c Config) Period() (time.Time, time.Time, error) {
	start, err := time.Parse(PeriodLayout, c.TimeRange[0])
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "time_range start")
	}
	end, err := time.Parse(PeriodLayout, c.TimeRange[1])
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "time_range end")
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, errors.Errorf("time_range start %s is not before end %s", c.TimeRange[0], c.TimeRange[1])
	}
	return start, end, nil
}

// 期間を "YYYYMMDD_YYYYMMDD" で表す
func (c Config) PeriodLabel() string {
	start, end, err := c.Period()
	if err != nil {
		return "all_time"
	}
	return start.Format("20060102") + "_" + end.Format("20060102")
}
