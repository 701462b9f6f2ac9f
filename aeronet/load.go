package aeronet

import (
	"context"

	"github.com/pkg/errors"
)

// """設定に従ってAODとインバージョンを読み込み、結合したデータを返します。
// ディレクトリが空文字列のプロダクトは読み込みません。
// """
func Load(ctx context.Context, conf Config) (*Dataset, error) {
	opts := ReadOptions{Workers: conf.Workers, Quiet: conf.Quiet}

	var datasets [2]*Dataset
	for i, p := range []struct {
		product Product
		dir     string
	}{{AOD, conf.AODDir}, {INV, conf.INVDir}} {
		if p.dir == "" {
			continue
		}
		tables, err := ReadProductDir(ctx, p.dir, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", p.product)
		}
		ds, err := Skim(p.product, tables)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", p.product)
		}
		datasets[i] = ds
	}

	aod, inv := datasets[0], datasets[1]
	switch {
	case aod != nil && inv != nil:
		return Combine(aod, inv), nil
	case aod != nil:
		return aod.sorted(), nil
	case inv != nil:
		return inv.sorted(), nil
	}
	return nil, errors.New("neither aod_dir nor inv_dir is set")
}
