package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamalux/pricing/internal/pricing"
)

func TestNormalizeColumn(t *testing.T) {
	var tests = []struct {
		in       string
		expected string
	}{
		{"Monthly Premium", "monthly_premium"},
		{"  ZIP_CODE ", "zip_code"},
		{"age_min", "age_min"},
		{"Insurance Model", "insurance_model"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeColumn(tt.in))
	}
}

func TestNormalize(t *testing.T) {
	table := &Table{
		Header: []string{"Age Min", "Age Max", "Zip Prefix", "Insurance Model", "Deductible", "Accident Coverage", "Monthly Premium", "Annual Premium", "Provider Name", "Provider Code"},
		Rows: [][]string{
			{"26", "35", "800", "Basic", "300", "yes", "280.84", "3370.08", "Helsana", "HEL"},
			{"", "", "", "", "", "", "", "", "", ""},
			{"36", "45", "801", "PREMIUM", "1000.0", "no", "350.5", "4206", "CSS", "CSS"},
		},
	}

	prices, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, prices, 2)

	assert.Equal(t, pricing.Price{
		AgeMin:           26,
		AgeMax:           35,
		ZipPrefix:        "800",
		InsuranceModel:   "basic",
		Deductible:       300,
		AccidentCoverage: true,
		MonthlyPremium:   280.84,
		AnnualPremium:    3370.08,
		ProviderName:     "Helsana",
		ProviderCode:     "HEL",
	}, prices[0])

	assert.Equal(t, "premium", prices[1].InsuranceModel)
	assert.Equal(t, 1000, prices[1].Deductible)
	assert.False(t, prices[1].AccidentCoverage)
}

func TestNormalizeDerivedColumns(t *testing.T) {
	table := &Table{
		Header: []string{"age", "zip_code", "insurance_model", "deductible", "monthly_premium", "provider_name", "provider_code"},
		Rows: [][]string{
			{"30", "80012", "standard", "500", "300", "Swica", "SWI"},
		},
	}

	prices, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, prices, 1)

	p := prices[0]
	assert.Equal(t, 30, p.AgeMin)
	assert.Equal(t, 30, p.AgeMax)
	assert.Equal(t, "800", p.ZipPrefix)
	assert.Equal(t, 3600.0, p.AnnualPremium)
	assert.False(t, p.AccidentCoverage)
}

func TestNormalizeAccidentCoverage(t *testing.T) {
	var tests = []struct {
		value    string
		expected bool
	}{
		{"yes", true},
		{"Y", true},
		{"TRUE", true},
		{"1", true},
		{"no", false},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			table := &Table{
				Header: []string{"age", "zip_prefix", "insurance_model", "deductible", "accident_coverage", "monthly_premium", "provider_name", "provider_code"},
				Rows:   [][]string{{"30", "800", "basic", "300", tt.value, "250", "CSS", "CSS"}},
			}

			prices, err := Normalize(table)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, prices[0].AccidentCoverage)
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	header := []string{"age_min", "age_max", "zip_prefix", "insurance_model", "deductible", "monthly_premium", "provider_name", "provider_code"}

	var tests = []struct {
		name   string
		header []string
		row    []string
		errMsg string
	}{
		{
			name:   "missing column",
			header: []string{"age", "zip_prefix", "insurance_model", "deductible", "monthly_premium", "provider_name"},
			row:    []string{"30", "800", "basic", "300", "250", "CSS"},
			errMsg: `missing required column "provider_code"`,
		},
		{
			name:   "bad deductible",
			header: header,
			row:    []string{"26", "35", "800", "basic", "lots", "250", "CSS", "CSS"},
			errMsg: `row 2: column "deductible": "lots" is not a number`,
		},
		{
			name:   "fractional age",
			header: header,
			row:    []string{"26.5", "35", "800", "basic", "300", "250", "CSS", "CSS"},
			errMsg: `row 2: column "age_min": "26.5" is not a whole number`,
		},
		{
			name:   "inverted age bracket",
			header: header,
			row:    []string{"40", "35", "800", "basic", "300", "250", "CSS", "CSS"},
			errMsg: `row 2: column "age_min": age_min 40 is greater than age_max 35`,
		},
		{
			name:   "missing premium",
			header: header,
			row:    []string{"26", "35", "800", "basic", "300", "", "CSS", "CSS"},
			errMsg: `row 2: column "monthly_premium": empty value`,
		},
		{
			name:   "short row",
			header: header,
			row:    []string{"26", "35", "800"},
			errMsg: `row 2: column "insurance_model": empty value`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(&Table{Header: tt.header, Rows: [][]string{tt.row}})
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}

func TestDenormalizeRoundTrip(t *testing.T) {
	prices := SamplePrices()[:20]

	got, err := Normalize(Denormalize(prices))
	require.NoError(t, err)
	assert.Equal(t, prices, got)
}
