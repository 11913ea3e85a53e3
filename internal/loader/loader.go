package loader

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lamalux/pricing/internal/pricing"
	"github.com/lamalux/pricing/internal/storage/blob"
)

func New(store datasetStore, local, remote fileReader) *Loader {
	return &Loader{
		store:  store,
		local:  local,
		remote: remote,
		now:    time.Now,
	}
}

// Loader turns price sheets into the active pricing dataset.
type Loader struct {
	store  datasetStore
	local  fileReader
	remote fileReader
	now    func() time.Time
}

type datasetStore interface {
	ReplaceActiveDataset(ctx context.Context, name string, prices []pricing.Price) (*pricing.Dataset, error)
}

type fileReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// Import reads a local path or s3:// uri and replaces the active dataset with
// its rows. An empty name becomes "Import YYYY-MM-DD HH:MM".
func (l *Loader) Import(ctx context.Context, source, name string) (*pricing.Dataset, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}

	table, err := ReadTable(path.Base(source), data)
	if err != nil {
		return nil, err
	}
	logrus.WithField("source", source).Infof("read %d rows", len(table.Rows))

	prices, err := Normalize(table)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", source, err)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%s has no price rows", source)
	}

	if name == "" {
		name = "Import " + l.now().Format("2006-01-02 15:04")
	}

	return l.store.ReplaceActiveDataset(ctx, name, prices)
}

// GenerateSample replaces the active dataset with the demo data.
func (l *Loader) GenerateSample(ctx context.Context) (*pricing.Dataset, error) {
	ds, err := l.store.ReplaceActiveDataset(ctx, SampleDatasetName, SamplePrices())
	if err != nil {
		return nil, err
	}

	logrus.WithField("dataset_id", ds.ID).Infof("generated %d sample price rows", ds.RowCount)
	return ds, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if blob.IsURI(source) {
		if l.remote == nil {
			return nil, fmt.Errorf("no s3 client configured for %s", source)
		}
		return l.remote.Read(ctx, source)
	}
	return l.local.Read(ctx, source)
}
