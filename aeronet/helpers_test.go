package aeronet

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hhkbp2/go-logging"
	"github.com/stretchr/testify/require"
)

const testPreamble = `AERONET Version 3;
Kanpur
Version 3: AOD Level 2.0
The following data are automatically cloud cleared and quality assured with pre-field and post-field calibration applied.
Contact: PI=Brent Holben; PI Email=Brent.N.Holben@nasa.gov
Daily Averages,UNITS can be found at,,, https://aeronet.gsfc.nasa.gov/new_web/units.html
`

const aodHeader = "AERONET_Site,Date(dd:mm:yyyy),Time(hh:mm:ss),Day_of_Year,AOD_500nm,440-870_Angstrom_Exponent,AERONET_Site_Name,Site_Latitude(Degrees),Site_Longitude(Degrees)"

const invHeader = "AERONET_Site,Date(dd:mm:yyyy),Time(hh:mm:ss),Day_of_Year,REff-T,REff-F,REff-C,0.086077,0.050000,0.065604,AOD_Extinction-Total[443nm],AOD_Extinction-Total[440nm],Single_Scattering_Albedo[675nm],Latitude(Degrees),Longitude(Degrees)"

// 地点ファイルを作成する
func writeSiteFile(t *testing.T, dir string, name string, header string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := testPreamble + header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// AODとインバージョンの地点ファイルを作成し、ディレクトリを返す
func writeFixtureDirs(t *testing.T) (string, string) {
	t.Helper()
	aodDir := filepath.Join(t.TempDir(), "AOD")
	invDir := filepath.Join(t.TempDir(), "INV")
	require.NoError(t, os.MkdirAll(aodDir, 0o755))
	require.NoError(t, os.MkdirAll(invDir, 0o755))

	writeSiteFile(t, aodDir, "20050101_20061231_Kanpur.lev20", aodHeader,
		"Kanpur,02:01:2006,00:00:00,2,0.5,1.1,Kanpur,26.513,80.232",
		"Kanpur,03:01:2006,00:00:00,3,-999.000000,1.2,Kanpur,26.513,80.232",
		"Kanpur,15:02:2006,00:00:00,46,0.7,1.0,Kanpur,26.513,80.232",
	)
	writeSiteFile(t, aodDir, "20050101_20061231_Ascension_Island.lev20", aodHeader,
		"Ascension_Island,02:01:2006,00:00:00,2,0.1,0.4,Ascension_Island,-7.976,-14.415",
	)

	writeSiteFile(t, invDir, "20050101_20061231_Kanpur.all", invHeader,
		"Kanpur,02:01:2006,00:00:00,2,0.5,0.15,2.0,0.03,0.01,0.02,0.45,-999.,0.9,26.513,80.232",
		"Kanpur,20:02:2006,00:00:00,51,0.6,0.16,2.1,0.06,0.04,0.05,0.3,0.35,-999.,26.513,80.232",
	)

	return aodDir, invDir
}

// 結合済みのデータ
func fixtureDataset(t *testing.T) *Dataset {
	t.Helper()
	aodDir, invDir := writeFixtureDirs(t)
	ds, err := Load(context.Background(), Config{
		AODDir:  aodDir,
		INVDir:  invDir,
		Workers: 2,
		Quiet:   true,
	})
	require.NoError(t, err)
	return ds
}

// ログを level 以上でバッファに出力する。テスト終了時に元に戻す
func captureLog(t *testing.T, level logging.LogLevelType) *bytes.Buffer {
	t.Helper()
	buf := bytes.NewBuffer([]byte{})
	prev := logger.GetLevel()
	handler := AddLogOutput(buf)
	SetLogLevel(level)
	t.Cleanup(func() {
		RemoveLogOutput(handler)
		SetLogLevel(prev)
	})
	return buf
}
