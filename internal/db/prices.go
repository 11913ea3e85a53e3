package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lamalux/pricing/internal/pricing"
)

const priceColumns = `id, dataset_id, age_min, age_max, zip_prefix, insurance_model, deductible,
accident_coverage, monthly_premium, annual_premium, provider_name, provider_code`

// FindPrices returns the rows of f.DatasetID matching f, cheapest first.
func (r *Repo) FindPrices(ctx context.Context, f pricing.PriceFilter) ([]pricing.Price, error) {
	var (
		where = []string{
			"dataset_id = ?",
			"zip_prefix = ?",
			"accident_coverage = ?",
			"age_min <= ?",
			"age_max >= ?",
		}
		args = []any{f.DatasetID, f.ZipPrefix, f.AccidentCoverage, f.Age, f.Age}
	)
	if f.InsuranceModel != "" {
		where = append(where, "insurance_model = ?")
		args = append(args, f.InsuranceModel)
	}
	if f.Deductible != 0 {
		where = append(where, "deductible = ?")
		args = append(args, f.Deductible)
	}

	query := r.db.Rebind("SELECT " + priceColumns + " FROM insurance_prices WHERE " +
		strings.Join(where, " AND ") + " ORDER BY monthly_premium, provider_code")

	prices := []pricing.Price{}
	if err := r.db.SelectContext(ctx, &prices, query, args...); err != nil {
		return nil, fmt.Errorf("db.Select prices: %w", err)
	}

	return prices, nil
}

func (r *Repo) DistinctModels(ctx context.Context, datasetID string) ([]string, error) {
	query := r.db.Rebind("SELECT DISTINCT insurance_model FROM insurance_prices WHERE dataset_id = ? ORDER BY insurance_model")

	var models []string
	if err := r.db.SelectContext(ctx, &models, query, datasetID); err != nil {
		return nil, fmt.Errorf("db.Select models: %w", err)
	}
	return models, nil
}

func (r *Repo) DistinctDeductibles(ctx context.Context, datasetID string) ([]int, error) {
	query := r.db.Rebind("SELECT DISTINCT deductible FROM insurance_prices WHERE dataset_id = ? ORDER BY deductible")

	var deductibles []int
	if err := r.db.SelectContext(ctx, &deductibles, query, datasetID); err != nil {
		return nil, fmt.Errorf("db.Select deductibles: %w", err)
	}
	return deductibles, nil
}

func (r *Repo) DistinctProviders(ctx context.Context, datasetID string) ([]pricing.ProviderRef, error) {
	query := r.db.Rebind(`SELECT DISTINCT provider_name, provider_code FROM insurance_prices
WHERE dataset_id = ? ORDER BY provider_name, provider_code`)

	var providers []pricing.ProviderRef
	if err := r.db.SelectContext(ctx, &providers, query, datasetID); err != nil {
		return nil, fmt.Errorf("db.Select providers: %w", err)
	}
	return providers, nil
}

func insertPrices(ctx context.Context, tx *sqlx.Tx, datasetID string, prices []pricing.Price) error {
	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO insurance_prices
(dataset_id, age_min, age_max, zip_prefix, insurance_model, deductible, accident_coverage, monthly_premium, annual_premium, provider_name, provider_code)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert price: %w", err)
	}
	defer stmt.Close()

	for i, p := range prices {
		_, err := stmt.ExecContext(ctx,
			datasetID,
			p.AgeMin,
			p.AgeMax,
			p.ZipPrefix,
			p.InsuranceModel,
			p.Deductible,
			p.AccidentCoverage,
			p.MonthlyPremium,
			p.AnnualPremium,
			p.ProviderName,
			p.ProviderCode,
		)
		if err != nil {
			return fmt.Errorf("insert price %d: %w", i, err)
		}
	}

	return nil
}
