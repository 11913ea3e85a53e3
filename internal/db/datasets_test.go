package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamalux/pricing/internal/pricing"
)

func testPrices() []pricing.Price {
	base := pricing.Price{
		AgeMin:         26,
		AgeMax:         35,
		ZipPrefix:      "800",
		InsuranceModel: "basic",
		Deductible:     300,
	}

	var prices []pricing.Price
	for _, p := range []struct {
		name, code string
		monthly    float64
	}{
		{"Helsana", "HEL", 280.84},
		{"CSS", "CSS", 266.8},
		{"Swica", "SWI", 294.88},
	} {
		row := base
		row.ProviderName = p.name
		row.ProviderCode = p.code
		row.MonthlyPremium = p.monthly
		row.AnnualPremium = pricing.Round2(p.monthly * 12)
		prices = append(prices, row)

		accident := row
		accident.AccidentCoverage = true
		accident.MonthlyPremium = pricing.Round2(p.monthly * 1.1)
		accident.AnnualPremium = pricing.Round2(accident.MonthlyPremium * 12)
		prices = append(prices, accident)
	}

	return prices
}

func TestActiveDatasetEmpty(t *testing.T) {
	r := newTestRepo(t)

	ds, err := r.ActiveDataset(context.TODO())
	assert.NoError(t, err)
	assert.Nil(t, ds)
}

func TestReplaceActiveDataset(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.TODO()

	first, err := r.ReplaceActiveDataset(ctx, "first", testPrices())
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 6, first.RowCount)
	assert.True(t, first.IsActive)

	second, err := r.ReplaceActiveDataset(ctx, "second", testPrices()[:2])
	require.NoError(t, err)

	active, err := r.ActiveDataset(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "second", active.Name)
	assert.Equal(t, 2, active.RowCount)
	assert.False(t, active.UploadedAt.IsZero())

	datasets, err := r.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	activeCount := 0
	for _, ds := range datasets {
		if ds.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)

	old, err := r.GetDataset(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
}

func TestReplaceActiveDatasetRollsBack(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.TODO()

	first, err := r.ReplaceActiveDataset(ctx, "good", testPrices())
	require.NoError(t, err)

	// Drop a table the transaction writes to so the insert fails half way.
	_, err = r.db.Exec("DROP TABLE providers")
	require.NoError(t, err)

	_, err = r.ReplaceActiveDataset(ctx, "broken", testPrices())
	assert.Error(t, err)

	active, err := r.ActiveDataset(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)
}

func TestActivateDataset(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.TODO()

	first, err := r.ReplaceActiveDataset(ctx, "first", testPrices())
	require.NoError(t, err)
	_, err = r.ReplaceActiveDataset(ctx, "second", testPrices())
	require.NoError(t, err)

	require.NoError(t, r.ActivateDataset(ctx, first.ID))

	active, err := r.ActiveDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	err = r.ActivateDataset(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrDatasetNotFound)

	_, err = r.GetDataset(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}
