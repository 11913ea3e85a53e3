package loader

import (
	"github.com/lamalux/pricing/internal/pricing"
)

const (
	SampleDatasetName = "Demo Pricing Data"

	// CHF per month before any factor is applied.
	sampleBaseMonthly = 280.0
)

type sampleProvider struct {
	name, code string
	factor     float64
}

var (
	sampleProviders = []sampleProvider{
		{"Helsana", "HEL", 1.0},
		{"CSS", "CSS", 0.95},
		{"Swica", "SWI", 1.05},
		{"Sanitas", "SAN", 0.98},
		{"Concordia", "CON", 0.92},
	}
	sampleAgeBrackets = [][2]int{
		{18, 25},
		{26, 35},
		{36, 45},
		{46, 55},
		{56, 65},
		{66, 100},
	}
	sampleZipPrefixes = []string{"800", "801", "802", "803", "810", "820", "830", "840", "850", "860"}
	sampleModels      = []struct {
		name   string
		factor float64
	}{
		{"basic", 1.0},
		{"standard", 1.15},
		{"premium", 1.35},
	}
	sampleDeductibles = []int{300, 500, 1000, 1500, 2000, 2500}
)

// SamplePrices generates the demo dataset of Swiss health insurance premiums:
// every provider, age bracket, region, model, deductible and accident option.
func SamplePrices() []pricing.Price {
	prices := make([]pricing.Price, 0,
		len(sampleProviders)*len(sampleAgeBrackets)*len(sampleZipPrefixes)*len(sampleModels)*len(sampleDeductibles)*2)

	for _, provider := range sampleProviders {
		for _, bracket := range sampleAgeBrackets {
			ageFactor := 1.0 + float64(bracket[0]-25)*0.015

			for _, zip := range sampleZipPrefixes {
				regionFactor := 0.9 + float64(zip[1]-'0')*0.02

				for _, model := range sampleModels {
					for _, deductible := range sampleDeductibles {
						// Higher deductible, lower premium.
						deductibleFactor := 1.0 - float64(deductible-300)*0.0002

						for _, accident := range []bool{false, true} {
							accidentFactor := 1.0
							if accident {
								accidentFactor = 1.10
							}

							monthly := sampleBaseMonthly *
								provider.factor *
								ageFactor *
								regionFactor *
								model.factor *
								deductibleFactor *
								accidentFactor

							prices = append(prices, pricing.Price{
								AgeMin:           bracket[0],
								AgeMax:           bracket[1],
								ZipPrefix:        zip,
								InsuranceModel:   model.name,
								Deductible:       deductible,
								AccidentCoverage: accident,
								MonthlyPremium:   pricing.Round2(monthly),
								AnnualPremium:    pricing.Round2(monthly * 12),
								ProviderName:     provider.name,
								ProviderCode:     provider.code,
							})
						}
					}
				}
			}
		}
	}

	return prices
}
