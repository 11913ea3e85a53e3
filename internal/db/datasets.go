package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lamalux/pricing/internal/pricing"
)

const datasetColumns = "id, name, uploaded_at, is_active, row_count"

// ActiveDataset returns the active dataset, or nil if none has been loaded.
func (r *Repo) ActiveDataset(ctx context.Context) (*pricing.Dataset, error) {
	query := r.db.Rebind("SELECT " + datasetColumns + " FROM pricing_datasets WHERE is_active = ? ORDER BY uploaded_at DESC LIMIT 1")

	var ds pricing.Dataset
	if err := r.db.GetContext(ctx, &ds, query, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.Get active dataset: %w", err)
	}

	return &ds, nil
}

func (r *Repo) GetDataset(ctx context.Context, id string) (*pricing.Dataset, error) {
	query := r.db.Rebind("SELECT " + datasetColumns + " FROM pricing_datasets WHERE id = ?")

	var ds pricing.Dataset
	if err := r.db.GetContext(ctx, &ds, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("db.Get dataset: %w", err)
	}

	return &ds, nil
}

// ListDatasets returns every dataset, newest first.
func (r *Repo) ListDatasets(ctx context.Context) ([]pricing.Dataset, error) {
	const query = "SELECT " + datasetColumns + " FROM pricing_datasets ORDER BY uploaded_at DESC"

	var datasets []pricing.Dataset
	if err := r.db.SelectContext(ctx, &datasets, query); err != nil {
		return nil, fmt.Errorf("db.Select datasets: %w", err)
	}

	return datasets, nil
}

// ActivateDataset makes id the only active dataset.
func (r *Repo) ActivateDataset(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, tx.Rebind("SELECT COUNT(*) FROM pricing_datasets WHERE id = ?"), id); err != nil {
			return fmt.Errorf("count dataset: %w", err)
		}
		if count == 0 {
			return ErrDatasetNotFound
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE pricing_datasets SET is_active = ?"), false); err != nil {
			return fmt.Errorf("deactivate datasets: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE pricing_datasets SET is_active = ? WHERE id = ?"), true, id); err != nil {
			return fmt.Errorf("activate dataset: %w", err)
		}
		return nil
	})
}

// ReplaceActiveDataset stores prices as a new dataset and makes it the only
// active one. The providers table is updated with every provider in prices.
// Either all of it happens or none of it does.
func (r *Repo) ReplaceActiveDataset(ctx context.Context, name string, prices []pricing.Price) (*pricing.Dataset, error) {
	ds := &pricing.Dataset{
		ID:         uuid.New().String(),
		Name:       name,
		UploadedAt: time.Now().UTC(),
		IsActive:   true,
		RowCount:   len(prices),
	}

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE pricing_datasets SET is_active = ?"), false); err != nil {
			return fmt.Errorf("deactivate datasets: %w", err)
		}

		_, err := tx.NamedExecContext(ctx, `INSERT INTO pricing_datasets (id, name, uploaded_at, is_active, row_count)
VALUES (:id, :name, :uploaded_at, :is_active, :row_count)`, ds)
		if err != nil {
			return fmt.Errorf("insert dataset: %w", err)
		}

		if err := insertPrices(ctx, tx, ds.ID, prices); err != nil {
			return err
		}

		return upsertProviders(ctx, tx, prices)
	})
	if err != nil {
		return nil, err
	}

	return ds, nil
}
