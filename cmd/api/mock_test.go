package main

import (
	"context"

	"github.com/lamalux/pricing/internal/pricing"
)

type mockService struct {
	QuoteQuotes []pricing.Quote
	QuoteErr    error
	QuoteReq    pricing.QuoteRequest

	CompareResult *pricing.Comparison
	CompareErr    error
	CompareReq    pricing.CompareRequest

	HealthResult *pricing.Health
	HealthErr    error

	OptionsResult *pricing.Options
	OptionsErr    error
}

func (m *mockService) Quote(ctx context.Context, req pricing.QuoteRequest) ([]pricing.Quote, error) {
	m.QuoteReq = req
	return m.QuoteQuotes, m.QuoteErr
}

func (m *mockService) Compare(ctx context.Context, req pricing.CompareRequest) (*pricing.Comparison, error) {
	m.CompareReq = req
	return m.CompareResult, m.CompareErr
}

func (m *mockService) Health(ctx context.Context) (*pricing.Health, error) {
	return m.HealthResult, m.HealthErr
}

func (m *mockService) Options(ctx context.Context) (*pricing.Options, error) {
	return m.OptionsResult, m.OptionsErr
}
