package aeronet

import "fmt"

// 既定の波長 (単位:nm)
const DefaultWavelength = 440

// AODプロダクトの変数名
var aodNames = map[string]string{
	"aod":  ColAOD500,
	"alfa": ColAlpha,
}

// 波長 wavelength に対する変数名 => 列名の対応表
func ColumnNames(wavelength int) map[string]string {
	names := map[string]string{
		"aod_fine":   fmt.Sprintf("AOD_Extinction-Fine[%dnm]", wavelength),
		"aod_coarse": fmt.Sprintf("AOD_Extinction-Coarse[%dnm]", wavelength),
		"aod_abs":    fmt.Sprintf("Absorption_AOD[%dnm]", wavelength),
	}
	for k, v := range aodNames {
		names[k] = v
	}
	return names
}

// 変数名を列名に変換する。対応表に無い名前はそのまま返す
func ResolveColumn(names map[string]string, name string) string {
	if c, ok := names[name]; ok {
		return c
	}
	return name
}

