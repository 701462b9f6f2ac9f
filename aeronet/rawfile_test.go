package aeronet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SiteNameFromFile(t *testing.T) {
	assert.Equal(t, "Kanpur", SiteNameFromFile("19930101_20221231_Kanpur.lev20"))
	assert.Equal(t, "Ascension_Island", SiteNameFromFile("19930101_20221231_Ascension_Island.all"))
	assert.Equal(t, "Solar_Village", SiteNameFromFile("Solar_Village.lev20"))
	assert.Equal(t, "short", SiteNameFromFile("short"))
}

func Test_ReadSiteFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSiteFile(t, dir, "20050101_20061231_Kanpur.lev20", "A,B,C,",
		"1,2,3",
		"",
		"4,5",
		"6,7,8,9",
	)

	raw, err := ReadSiteFile(path)
	require.NoError(t, err)

	// 行末のカンマによる空の列は除く
	assert.Equal(t, []string{"A", "B", "C"}, raw.Header)
	assert.Equal(t, "Kanpur", raw.Site)
	assert.Equal(t, path, raw.Path)

	// 空行は読み飛ばし、列数はヘッダにそろえる
	assert.Equal(t, [][]string{
		{"1", "2", "3"},
		{"4", "5", ""},
		{"6", "7", "8"},
	}, raw.Rows)

	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, raw.Index())
}

func Test_ReadSiteFile_ShortPreamble(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lev20")
	require.NoError(t, os.WriteFile(path, []byte("line1\nline2\n"), 0o644))

	_, err := ReadSiteFile(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "broken.lev20"))
}

func Test_ReadSiteFile_MissingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.lev20")
	require.NoError(t, os.WriteFile(path, []byte(testPreamble), 0o644))

	_, err := ReadSiteFile(path)
	assert.Error(t, err)
}

func Test_ReadProductDir(t *testing.T) {
	aodDir, _ := writeFixtureDirs(t)

	// 隠しファイルとサブディレクトリは読まない
	require.NoError(t, os.WriteFile(filepath.Join(aodDir, ".DS_Store"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(aodDir, "sub"), 0o755))

	tables, err := ReadProductDir(context.Background(), aodDir, ReadOptions{Workers: 1, Quiet: true})
	require.NoError(t, err)
	require.Len(t, tables, 2)

	// ファイル名順
	assert.Equal(t, "Ascension_Island", tables[0].Site)
	assert.Equal(t, "Kanpur", tables[1].Site)
	assert.Len(t, tables[1].Rows, 3)
}

func Test_ReadProductDir_Order(t *testing.T) {
	dir := t.TempDir()

	// 書き込み順とファイル名順を変える。行数でファイルを見分ける
	names := []string{}
	for i := 11; i >= 0; i-- {
		site := fmt.Sprintf("Site%02d", i)
		rows := []string{}
		for n := 0; n <= i; n++ {
			rows = append(rows, fmt.Sprintf("%s,02:01:2006,00:00:00,2,0.5,1.1,%s,1,2", site, site))
		}
		writeSiteFile(t, dir, "20050101_20061231_"+site+".lev20", aodHeader, rows...)
		names = append([]string{site}, names...)
	}

	tables, err := ReadProductDir(context.Background(), dir, ReadOptions{Workers: 4, Quiet: true})
	require.NoError(t, err)
	require.Len(t, tables, len(names))

	// 並列に読み込んでもファイル名順
	for i, raw := range tables {
		assert.Equal(t, names[i], raw.Site)
		assert.Len(t, raw.Rows, i+1)
		assert.Equal(t, filepath.Join(dir, "20050101_20061231_"+names[i]+".lev20"), raw.Path)
	}
}

func Test_ReadProductDir_Empty(t *testing.T) {
	_, err := ReadProductDir(context.Background(), t.TempDir(), ReadOptions{Quiet: true})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func Test_ReadProductDir_Canceled(t *testing.T) {
	aodDir, _ := writeFixtureDirs(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadProductDir(ctx, aodDir, ReadOptions{Quiet: true})
	assert.ErrorIs(t, err, context.Canceled)
}
