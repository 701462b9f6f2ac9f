// AERONET Level 2.0 日平均データ(AOD・インバージョン)の整形と集計
package aeronet

import (
	"github.com/hhkbp2/go-logging"
	"github.com/pkg/errors"
)

var logger = logging.GetLogger("aeronet")

// 観測プロダクトの種類
type Product string

const (
	AOD Product = "AOD" // エアロゾル光学的厚さ
	INV Product = "INV" // インバージョン(粒径分布)
)

// キー列
const (
	ColSite      = "AERONET_Site_Name"
	ColDate      = "Date(dd:mm:yyyy)"
	ColDayOfYear = "Day_of_Year"
	ColLat       = "Site_Latitude(Degrees)"
	ColLon       = "Site_Longitude(Degrees)"

	// 粒径分布ベクトル
	ColDVDlnr = "dV/dlnr"
)

// AODプロダクトで保持する列
const (
	ColAOD500 = "AOD_500nm"
	ColAlpha  = "440-870_Angstrom_Exponent"
)

// 日付の書式 dd:mm:yyyy
const DateLayout = "02:01:2006"

// 欠測値
const MissingValue = -999.0

// AERONETの体積粒径分布の22ビンの半径 (単位:μm)
var SizeBins = []float64{
	0.05, 0.065604, 0.086077, 0.112939, 0.148184,
	0.194429, 0.255105, 0.334716, 0.439173, 0.576227,
	0.756052, 0.991996, 1.301571, 1.707757, 2.240702,
	2.939966, 3.857452, 5.06126, 6.640745, 8.713145,
	11.432287, 15.0,
}

var (
	ErrSiteNotFound  = errors.New("no data at the specified site")
	ErrNoFiles       = errors.New("no observation files found")
	ErrUnknownColumn = errors.New("unknown column")
)
