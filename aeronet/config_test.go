package aeronet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadConfig_Default(t *testing.T) {
	conf, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), conf)
	assert.Equal(t, "20060101_20061231", conf.PeriodLabel())
}

func Test_LoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aeronet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
aod_dir: /data/AOD
time_range: ["2007-03-01", "2007-06-30"]
wavelength: 675
min_rec: 10
`), 0o644))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/AOD", conf.AODDir)
	assert.Equal(t, DefaultConfig().INVDir, conf.INVDir)
	assert.Equal(t, 675, conf.Wavelength)
	assert.Equal(t, 10, conf.MinRec)
	assert.Equal(t, 4, conf.Workers)

	start, end, err := conf.Period()
	require.NoError(t, err)
	assert.Equal(t, date(2007, 3, 1), start)
	assert.Equal(t, date(2007, 6, 30), end)
}

func Test_LoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"bad_yaml.yaml":   "aod_dir: [",
		"wavelength.yaml": "wavelength: -1",
		"range.yaml":      `time_range: ["2007-06-30", "2007-03-01"]`,
		"date.yaml":       `time_range: ["2007/03/01", "2007-06-30"]`,
		"min_rec.yaml":    "min_rec: -2",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err, name)
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func Test_PeriodLabel_Invalid(t *testing.T) {
	conf := DefaultConfig()
	conf.TimeRange = [2]string{"", ""}
	assert.Equal(t, "all_time", conf.PeriodLabel())
}
