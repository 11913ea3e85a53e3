package pricing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

func New(repo priceRepo, cache quoteCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

type Service struct {
	repo  priceRepo
	cache quoteCache
	now   func() time.Time
}

type priceRepo interface {
	ActiveDataset(ctx context.Context) (*Dataset, error)
	FindPrices(ctx context.Context, f PriceFilter) ([]Price, error)
	DistinctModels(ctx context.Context, datasetID string) ([]string, error)
	DistinctDeductibles(ctx context.Context, datasetID string) ([]int, error)
	DistinctProviders(ctx context.Context, datasetID string) ([]ProviderRef, error)
	Ping(ctx context.Context) error
}

// quoteCache stores JSON-encodable results. Get reports whether key was found.
type quoteCache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Quote returns every provider's premium for one exact configuration.
// ErrNoActiveDataset is returned when nothing has been loaded yet and a
// *NoQuotesError when no provider prices the configuration.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) ([]Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ds, err := s.activeDataset(ctx)
	if err != nil {
		return nil, err
	}

	var (
		quotes []Quote
		key    = cacheKey("quote", ds.ID, req)
	)
	if s.cacheGet(ctx, key, &quotes) {
		return quotes, nil
	}

	prices, err := s.repo.FindPrices(ctx, req.filter(ds.ID))
	if err != nil {
		return nil, fmt.Errorf("repo.FindPrices: %w", err)
	}
	if len(prices) == 0 {
		return nil, &NoQuotesError{
			ZipPrefix:      ZipPrefix(req.ZipCode),
			Age:            req.Age,
			InsuranceModel: req.InsuranceModel,
		}
	}

	quotes = toQuotes(prices)
	s.cacheSet(ctx, key, quotes)

	return quotes, nil
}

// Compare returns all matching quotes sorted by monthly premium together with
// the cheapest one. An empty comparison is not an error.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (*Comparison, error) {
	start := s.now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ds, err := s.activeDataset(ctx)
	if err != nil {
		return nil, err
	}

	var (
		quotes []Quote
		key    = cacheKey("compare", ds.ID, req)
	)
	if !s.cacheGet(ctx, key, &quotes) {
		prices, err := s.repo.FindPrices(ctx, req.filter(ds.ID))
		if err != nil {
			return nil, fmt.Errorf("repo.FindPrices: %w", err)
		}
		quotes = toQuotes(prices)
		s.cacheSet(ctx, key, quotes)
	}

	cmp := &Comparison{Quotes: quotes}
	if len(quotes) > 0 {
		cheapest := quotes[0]
		cmp.Cheapest = &cheapest
	}
	elapsed := s.now().Sub(start)
	cmp.QueryTimeMS = Round2(float64(elapsed.Microseconds()) / 1000)

	return cmp, nil
}

// Health reports database reachability and the active dataset. The returned
// error is non-nil only when the database is unreachable.
func (s *Service) Health(ctx context.Context) (*Health, error) {
	if err := s.repo.Ping(ctx); err != nil {
		return &Health{Status: StatusUnhealthy}, fmt.Errorf("repo.Ping: %w", err)
	}

	ds, err := s.repo.ActiveDataset(ctx)
	if err != nil {
		return &Health{Status: StatusUnhealthy}, fmt.Errorf("repo.ActiveDataset: %w", err)
	}

	h := &Health{Status: StatusHealthy}
	if ds != nil {
		name := ds.Name
		h.ActiveDataset = &name
		h.RowCount = ds.RowCount
	}
	return h, nil
}

// Options lists the values the active dataset can be queried with.
func (s *Service) Options(ctx context.Context) (*Options, error) {
	opts := &Options{
		InsuranceModels: []string{},
		Deductibles:     []int{},
		Providers:       []ProviderRef{},
	}

	ds, err := s.repo.ActiveDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.ActiveDataset: %w", err)
	}
	if ds == nil {
		return opts, nil
	}

	models, err := s.repo.DistinctModels(ctx, ds.ID)
	if err != nil {
		return nil, fmt.Errorf("repo.DistinctModels: %w", err)
	}
	deductibles, err := s.repo.DistinctDeductibles(ctx, ds.ID)
	if err != nil {
		return nil, fmt.Errorf("repo.DistinctDeductibles: %w", err)
	}
	providers, err := s.repo.DistinctProviders(ctx, ds.ID)
	if err != nil {
		return nil, fmt.Errorf("repo.DistinctProviders: %w", err)
	}

	sort.Strings(models)
	sort.Ints(deductibles)
	sort.Slice(providers, func(i, j int) bool {
		if providers[i].Name != providers[j].Name {
			return providers[i].Name < providers[j].Name
		}
		return providers[i].Code < providers[j].Code
	})

	opts.InsuranceModels = append(opts.InsuranceModels, models...)
	opts.Deductibles = append(opts.Deductibles, deductibles...)
	opts.Providers = append(opts.Providers, providers...)

	return opts, nil
}

func (s *Service) activeDataset(ctx context.Context) (*Dataset, error) {
	ds, err := s.repo.ActiveDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.ActiveDataset: %w", err)
	}
	if ds == nil {
		return nil, ErrNoActiveDataset
	}
	return ds, nil
}

// Cache failures never fail a request; the lookup falls through to the db.
func (s *Service) cacheGet(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, v)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("quote cache get")
		return false
	}
	if ok {
		cacheHits.Inc()
	} else {
		cacheMisses.Inc()
	}
	return ok
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("quote cache set")
	}
}

// toQuotes converts rows to quotes ordered by monthly premium, then provider.
func toQuotes(prices []Price) []Quote {
	quotes := make([]Quote, 0, len(prices))
	for _, p := range prices {
		quotes = append(quotes, quoteFromPrice(p))
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].MonthlyPremium != quotes[j].MonthlyPremium {
			return quotes[i].MonthlyPremium < quotes[j].MonthlyPremium
		}
		return quotes[i].ProviderCode < quotes[j].ProviderCode
	})
	return quotes
}

// cacheKey derives a stable key from the operation, the dataset and the
// validated request. Keys for a replaced dataset are never read again.
func cacheKey(op, datasetID string, req any) string {
	data, _ := json.Marshal(map[string]any{
		"d": datasetID,
		"r": req,
	})
	sum := sha256.Sum256(data)
	return "pricing:" + op + ":" + hex.EncodeToString(sum[:16])
}

// IsNotFound reports whether err means the request matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoActiveDataset) || errors.Is(err, ErrNoQuotes)
}
