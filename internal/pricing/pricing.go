package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinAge        = 18
	MaxAge        = 100
	zipCodeLength = 5
	zipPrefixLen  = 3
)

// Dataset is one imported price sheet. Only one dataset is active at a time.
type Dataset struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	RowCount   int       `db:"row_count" json:"row_count"`
}

// Price is a single row of a dataset: the premium one provider charges for one
// combination of age bracket, region, model, deductible and accident cover.
type Price struct {
	ID               int64   `db:"id"`
	DatasetID        string  `db:"dataset_id"`
	AgeMin           int     `db:"age_min"`
	AgeMax           int     `db:"age_max"`
	ZipPrefix        string  `db:"zip_prefix"`
	InsuranceModel   string  `db:"insurance_model"`
	Deductible       int     `db:"deductible"`
	AccidentCoverage bool    `db:"accident_coverage"`
	MonthlyPremium   float64 `db:"monthly_premium"`
	AnnualPremium    float64 `db:"annual_premium"`
	ProviderName     string  `db:"provider_name"`
	ProviderCode     string  `db:"provider_code"`
}

// Provider is an insurer that appears in at least one loaded dataset.
type Provider struct {
	ID       int64   `db:"id" json:"-"`
	Code     string  `db:"code" json:"code"`
	Name     string  `db:"name" json:"name"`
	LogoURL  *string `db:"logo_url" json:"logo_url,omitempty"`
	IsActive bool    `db:"is_active" json:"-"`
}

// ProviderRef is the name/code pair exposed to clients.
type ProviderRef struct {
	Name string `db:"provider_name" json:"name"`
	Code string `db:"provider_code" json:"code"`
}

// PriceFilter selects rows of one dataset. Zero values of InsuranceModel and
// Deductible match every model and deductible.
type PriceFilter struct {
	DatasetID        string
	ZipPrefix        string
	Age              int
	AccidentCoverage bool
	InsuranceModel   string
	Deductible       int
}

type QuoteRequest struct {
	Age              int    `json:"age"`
	ZipCode          string `json:"zip_code"`
	InsuranceModel   string `json:"insurance_model"`
	Deductible       int    `json:"deductible"`
	AccidentCoverage bool   `json:"accident_coverage"`
}

// Validate checks the request and normalises the insurance model.
func (r *QuoteRequest) Validate() error {
	if err := validateCustomer(r.Age, r.ZipCode); err != nil {
		return err
	}
	r.InsuranceModel = normalizeModel(r.InsuranceModel)
	if r.InsuranceModel == "" {
		return invalidf("insurance_model is required")
	}
	if r.Deductible <= 0 {
		return invalidf("deductible must be a positive amount")
	}
	return nil
}

func (r QuoteRequest) filter(datasetID string) PriceFilter {
	return PriceFilter{
		DatasetID:        datasetID,
		ZipPrefix:        ZipPrefix(r.ZipCode),
		Age:              r.Age,
		AccidentCoverage: r.AccidentCoverage,
		InsuranceModel:   r.InsuranceModel,
		Deductible:       r.Deductible,
	}
}

type CompareRequest struct {
	Age              int     `json:"age"`
	ZipCode          string  `json:"zip_code"`
	InsuranceModel   *string `json:"insurance_model"`
	Deductible       *int    `json:"deductible"`
	AccidentCoverage bool    `json:"accident_coverage"`
}

// Validate checks the request. An empty model or a zero deductible widens the
// comparison to every model or deductible.
func (r *CompareRequest) Validate() error {
	if err := validateCustomer(r.Age, r.ZipCode); err != nil {
		return err
	}
	if r.InsuranceModel != nil {
		m := normalizeModel(*r.InsuranceModel)
		r.InsuranceModel = &m
	}
	if r.Deductible != nil && *r.Deductible < 0 {
		return invalidf("deductible must not be negative")
	}
	return nil
}

func (r CompareRequest) filter(datasetID string) PriceFilter {
	f := PriceFilter{
		DatasetID:        datasetID,
		ZipPrefix:        ZipPrefix(r.ZipCode),
		Age:              r.Age,
		AccidentCoverage: r.AccidentCoverage,
	}
	if r.InsuranceModel != nil {
		f.InsuranceModel = *r.InsuranceModel
	}
	if r.Deductible != nil {
		f.Deductible = *r.Deductible
	}
	return f
}

type Quote struct {
	ProviderName     string  `json:"provider_name"`
	ProviderCode     string  `json:"provider_code"`
	MonthlyPremium   float64 `json:"monthly_premium"`
	AnnualPremium    float64 `json:"annual_premium"`
	Deductible       int     `json:"deductible"`
	InsuranceModel   string  `json:"insurance_model"`
	AccidentCoverage bool    `json:"accident_coverage"`
}

func quoteFromPrice(p Price) Quote {
	return Quote{
		ProviderName:     p.ProviderName,
		ProviderCode:     p.ProviderCode,
		MonthlyPremium:   Round2(p.MonthlyPremium),
		AnnualPremium:    Round2(p.AnnualPremium),
		Deductible:       p.Deductible,
		InsuranceModel:   p.InsuranceModel,
		AccidentCoverage: p.AccidentCoverage,
	}
}

type Comparison struct {
	Quotes      []Quote `json:"quotes"`
	Cheapest    *Quote  `json:"cheapest"`
	QueryTimeMS float64 `json:"query_time_ms"`
}

type Options struct {
	InsuranceModels []string      `json:"insurance_models"`
	Deductibles     []int         `json:"deductibles"`
	Providers       []ProviderRef `json:"providers"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type Health struct {
	Status        string  `json:"status"`
	ActiveDataset *string `json:"active_dataset"`
	RowCount      int     `json:"row_count"`
}

// ZipPrefix returns the first three characters of a ZIP code, which is the
// granularity prices are stored at.
func ZipPrefix(zip string) string {
	zip = strings.TrimSpace(zip)
	if len(zip) < zipPrefixLen {
		return zip
	}
	return zip[:zipPrefixLen]
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalizeModel(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}

func validateCustomer(age int, zip string) error {
	if age < MinAge || age > MaxAge {
		return invalidf("age must be between %d and %d", MinAge, MaxAge)
	}
	if len(zip) != zipCodeLength {
		return invalidf("zip_code must be exactly %d characters", zipCodeLength)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
