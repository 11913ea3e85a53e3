package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamalux/pricing/internal/pricing"
)

func TestFindPrices(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.TODO()

	ds, err := r.ReplaceActiveDataset(ctx, "test", testPrices())
	require.NoError(t, err)

	var tests = []struct {
		name     string
		filter   pricing.PriceFilter
		expected []string
	}{
		{
			name:     "exact match cheapest first",
			filter:   pricing.PriceFilter{DatasetID: ds.ID, ZipPrefix: "800", Age: 30, InsuranceModel: "basic", Deductible: 300},
			expected: []string{"CSS", "HEL", "SWI"},
		},
		{
			name:     "age bounds are inclusive",
			filter:   pricing.PriceFilter{DatasetID: ds.ID, ZipPrefix: "800", Age: 35, InsuranceModel: "basic", Deductible: 300},
			expected: []string{"CSS", "HEL", "SWI"},
		},
		{
			name:   "age outside bracket",
			filter: pricing.PriceFilter{DatasetID: ds.ID, ZipPrefix: "800", Age: 36, InsuranceModel: "basic", Deductible: 300},
		},
		{
			name:   "other region",
			filter: pricing.PriceFilter{DatasetID: ds.ID, ZipPrefix: "801", Age: 30},
		},
		{
			name:   "other deductible",
			filter: pricing.PriceFilter{DatasetID: ds.ID, ZipPrefix: "800", Age: 30, Deductible: 500},
		},
		{
			name:     "without model and deductible",
			filter:   pricing.PriceFilter{DatasetID: ds.ID, ZipPrefix: "800", Age: 26, AccidentCoverage: true},
			expected: []string{"CSS", "HEL", "SWI"},
		},
		{
			name:   "other dataset",
			filter: pricing.PriceFilter{DatasetID: "nope", ZipPrefix: "800", Age: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices, err := r.FindPrices(ctx, tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, prices)

			var codes []string
			for _, p := range prices {
				codes = append(codes, p.ProviderCode)
				assert.Equal(t, tt.filter.AccidentCoverage, p.AccidentCoverage)
				assert.Equal(t, ds.ID, p.DatasetID)
			}
			assert.Equal(t, tt.expected, codes)
		})
	}
}

func TestDistinctValues(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.TODO()

	prices := testPrices()
	prices[0].InsuranceModel = "premium"
	prices[0].Deductible = 2500
	ds, err := r.ReplaceActiveDataset(ctx, "test", prices)
	require.NoError(t, err)

	models, err := r.DistinctModels(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"basic", "premium"}, models)

	deductibles, err := r.DistinctDeductibles(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{300, 2500}, deductibles)

	providers, err := r.DistinctProviders(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, []pricing.ProviderRef{
		{Name: "CSS", Code: "CSS"},
		{Name: "Helsana", Code: "HEL"},
		{Name: "Swica", Code: "SWI"},
	}, providers)
}

func TestListProviders(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.TODO()

	_, err := r.ReplaceActiveDataset(ctx, "first", testPrices())
	require.NoError(t, err)

	renamed := testPrices()
	for i := range renamed {
		if renamed[i].ProviderCode == "HEL" {
			renamed[i].ProviderName = "Helsana AG"
		}
	}
	_, err = r.ReplaceActiveDataset(ctx, "second", renamed)
	require.NoError(t, err)

	providers, err := r.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, providers, 3)

	var names []string
	for _, p := range providers {
		names = append(names, p.Name)
		assert.True(t, p.IsActive)
		assert.Nil(t, p.LogoURL)
	}
	assert.Equal(t, []string{"CSS", "Helsana AG", "Swica"}, names)
}
