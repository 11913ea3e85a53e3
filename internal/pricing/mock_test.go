package pricing

import (
	"context"
	"encoding/json"
)

type mockPriceRepo struct {
	ActiveDatasetDataset *Dataset
	ActiveDatasetErr     error
	FindPricesPrices     []Price
	FindPricesErr        error
	FindPricesCalls      int
	FindPricesFilter     PriceFilter
	Models               []string
	Deductibles          []int
	Providers            []ProviderRef
	PingErr              error
}

func (m *mockPriceRepo) ActiveDataset(ctx context.Context) (*Dataset, error) {
	return m.ActiveDatasetDataset, m.ActiveDatasetErr
}
func (m *mockPriceRepo) FindPrices(ctx context.Context, f PriceFilter) ([]Price, error) {
	m.FindPricesCalls++
	m.FindPricesFilter = f
	return m.FindPricesPrices, m.FindPricesErr
}
func (m *mockPriceRepo) DistinctModels(ctx context.Context, datasetID string) ([]string, error) {
	return m.Models, nil
}
func (m *mockPriceRepo) DistinctDeductibles(ctx context.Context, datasetID string) ([]int, error) {
	return m.Deductibles, nil
}
func (m *mockPriceRepo) DistinctProviders(ctx context.Context, datasetID string) ([]ProviderRef, error) {
	return m.Providers, nil
}
func (m *mockPriceRepo) Ping(ctx context.Context) error {
	return m.PingErr
}

// mockCache round-trips values through JSON like the redis cache does.
type mockCache struct {
	entries map[string][]byte
	GetErr  error
}

func (m *mockCache) Get(ctx context.Context, key string, v any) (bool, error) {
	if m.GetErr != nil {
		return false, m.GetErr
	}
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}
func (m *mockCache) Set(ctx context.Context, key string, v any) error {
	if m.entries == nil {
		m.entries = map[string][]byte{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}
