package aeronet

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ヘッダ行の前にある説明行の数
const preambleLines = 6

// 地点ファイルの先頭の日付範囲 "YYYYMMDD_YYYYMMDD_" の長さ
const datePrefixLen = 18

// 地点ファイルから読み取った未加工の表
type RawTable struct {
	Path   string     // ファイルパス
	Site   string     // ファイル名から得た地点名
	Header []string   // ヘッダ行
	Rows   [][]string // データ行(ヘッダと同じ列数にそろえる)
}

// ヘッダ名から列番号への対応表。重複する列名は最初の列を使う
func (raw *RawTable) Index() map[string]int {
	idx := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// ディレクトリ読み込みの設定
type ReadOptions struct {
	Workers int  // 同時に読み込むファイル数
	Quiet   bool // 進捗バーを表示しない
}

// """地点ファイルを1つ読み込みます。
// Args:
//
//	path(string): 地点ファイルのパス
//
// Returns:
//
//	*RawTable: ヘッダとデータ行
//
// """
func ReadSiteFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open site file")
	}
	defer f.Close()

	raw, err := readSiteTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	raw.Path = path
	raw.Site = SiteNameFromFile(filepath.Base(path))
	return raw, nil
}

func readSiteTable(r io.Reader) (*RawTable, error) {
	br := bufio.NewReader(r)

	// 説明行の読み飛ばし
	for i := 0; i < preambleLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, errors.Errorf("file ends within the %d preamble lines", preambleLines)
			}
			return nil, errors.Wrap(err, "preamble")
		}
	}

	csvReader := csv.NewReader(br)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, errors.New("missing header line")
	}
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// 行末のカンマによる空の列を除く
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}

	raw := &RawTable{Header: header}
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "data line")
		}
		if isBlankRow(row) {
			continue
		}

		// 列数をヘッダにそろえる
		fixed := make([]string, len(header))
		for i := range fixed {
			if i < len(row) {
				fixed[i] = strings.TrimSpace(row[i])
			}
		}
		raw.Rows = append(raw.Rows, fixed)
	}

	return raw, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ファイル名 "YYYYMMDD_YYYYMMDD_<地点名>.<拡張子>" から地点名を取り出す
func SiteNameFromFile(name string) string {
	if len(name) > datePrefixLen && name[8] == '_' && name[datePrefixLen-1] == '_' {
		name = name[datePrefixLen:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

// """ディレクトリ内の全地点ファイルを読み込みます。
// Args:
//
//	ctx(context.Context): キャンセル用のコンテキスト
//	dir(string): 地点ファイルの格納ディレクトリ
//	opts(ReadOptions): 並列数と進捗表示の設定
//
// Returns:
//
//	[]*RawTable: ファイル名順の読み込み結果
//
// """
func ReadProductDir(ctx context.Context, dir string, opts ReadOptions) ([]*RawTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read product directory")
	}

	files := []string{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoFiles, "%s", dir)
	}
	sort.Strings(files)

	logger.Infof("地点ファイル読み込み開始 %s (%d件)", dir, len(files))

	workers := opts.Workers
	if workers < 1 {
		workers = 4
	}

	var bar *pb.ProgressBar
	if !opts.Quiet {
		bar = pb.New(len(files))
		bar.Output = os.Stderr
		bar.ShowTimeLeft = false
		bar.Start()
	}

	tables := make([]*RawTable, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for index, name := range files {
		index, name := index, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := ReadSiteFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			tables[index] = raw
			if bar != nil {
				bar.Increment()
			}
			logger.Debugf("地点ファイル読み込み完了 %s", name)
			return nil
		})
	}
	err = g.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	return tables, nil
}
