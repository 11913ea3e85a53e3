package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lamalux/pricing/internal/pricing"
)

const (
	colAge              = "age"
	colAgeMin           = "age_min"
	colAgeMax           = "age_max"
	colZipCode          = "zip_code"
	colZipPrefix        = "zip_prefix"
	colInsuranceModel   = "insurance_model"
	colDeductible       = "deductible"
	colAccidentCoverage = "accident_coverage"
	colMonthlyPremium   = "monthly_premium"
	colAnnualPremium    = "annual_premium"
	colProviderName     = "provider_name"
	colProviderCode     = "provider_code"
)

// Columns is the canonical header used when writing price sheets.
var Columns = []string{
	colAgeMin,
	colAgeMax,
	colZipPrefix,
	colInsuranceModel,
	colDeductible,
	colAccidentCoverage,
	colMonthlyPremium,
	colAnnualPremium,
	colProviderName,
	colProviderCode,
}

// NormalizeColumn lower-cases a header cell, trims it and replaces spaces with
// underscores, so "Monthly Premium " becomes "monthly_premium".
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(name)), " ", "_")
}

// Normalize converts a table into price rows.
//
// A single "age" column fills both age_min and age_max, a "zip_code" column
// is cut down to its three digit prefix, a missing annual premium is twelve
// monthly premiums and accident coverage is true only for yes/true/1/y.
func Normalize(t *Table) ([]pricing.Price, error) {
	idx := map[string]int{}
	for i, h := range t.Header {
		name := NormalizeColumn(h)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	has := func(col string) bool {
		_, ok := idx[col]
		return ok
	}

	ageMinCol, ageMaxCol := colAgeMin, colAgeMax
	if has(colAge) && !has(colAgeMin) {
		ageMinCol, ageMaxCol = colAge, colAge
	}
	zipCol, zipFromCode := colZipPrefix, false
	if has(colZipCode) && !has(colZipPrefix) {
		zipCol, zipFromCode = colZipCode, true
	}

	for _, col := range []string{ageMinCol, ageMaxCol, zipCol, colInsuranceModel, colDeductible, colMonthlyPremium, colProviderName, colProviderCode} {
		if !has(col) {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var prices []pricing.Price
	for i, row := range t.Rows {
		if blankRow(row) {
			continue
		}

		// Spreadsheet row number: the header is row 1.
		rowNum := i + 2
		cell := func(col string) string {
			j, ok := idx[col]
			if !ok || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		var (
			p   pricing.Price
			err error
		)
		if p.AgeMin, err = parseInt(cell(ageMinCol)); err != nil {
			return nil, rowError(rowNum, ageMinCol, err)
		}
		if p.AgeMax, err = parseInt(cell(ageMaxCol)); err != nil {
			return nil, rowError(rowNum, ageMaxCol, err)
		}
		if p.AgeMin > p.AgeMax {
			return nil, rowError(rowNum, ageMinCol, fmt.Errorf("age_min %d is greater than age_max %d", p.AgeMin, p.AgeMax))
		}

		p.ZipPrefix = cell(zipCol)
		if zipFromCode {
			p.ZipPrefix = pricing.ZipPrefix(p.ZipPrefix)
		}
		if p.ZipPrefix == "" {
			return nil, rowError(rowNum, zipCol, fmt.Errorf("empty value"))
		}

		p.InsuranceModel = strings.ToLower(cell(colInsuranceModel))
		if p.InsuranceModel == "" {
			return nil, rowError(rowNum, colInsuranceModel, fmt.Errorf("empty value"))
		}

		if p.Deductible, err = parseInt(cell(colDeductible)); err != nil {
			return nil, rowError(rowNum, colDeductible, err)
		}

		p.AccidentCoverage = parseBool(cell(colAccidentCoverage))

		if p.MonthlyPremium, err = parseFloat(cell(colMonthlyPremium)); err != nil {
			return nil, rowError(rowNum, colMonthlyPremium, err)
		}
		if annual := cell(colAnnualPremium); annual != "" {
			if p.AnnualPremium, err = parseFloat(annual); err != nil {
				return nil, rowError(rowNum, colAnnualPremium, err)
			}
		} else {
			p.AnnualPremium = p.MonthlyPremium * 12
		}

		p.ProviderName = cell(colProviderName)
		p.ProviderCode = cell(colProviderCode)
		if p.ProviderName == "" || p.ProviderCode == "" {
			return nil, rowError(rowNum, colProviderCode, fmt.Errorf("provider name and code are required"))
		}

		prices = append(prices, p)
	}

	return prices, nil
}

// Denormalize is the inverse of Normalize for writing price sheets.
func Denormalize(prices []pricing.Price) *Table {
	t := &Table{Header: append([]string(nil), Columns...)}
	for _, p := range prices {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(p.AgeMin),
			strconv.Itoa(p.AgeMax),
			p.ZipPrefix,
			p.InsuranceModel,
			strconv.Itoa(p.Deductible),
			strconv.FormatBool(p.AccidentCoverage),
			strconv.FormatFloat(p.MonthlyPremium, 'f', -1, 64),
			strconv.FormatFloat(p.AnnualPremium, 'f', -1, 64),
			p.ProviderName,
			p.ProviderCode,
		})
	}
	return t
}

func rowError(row int, col string, err error) error {
	return fmt.Errorf("row %d: column %q: %w", row, col, err)
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseInt accepts whole numbers written as floats ("300.0"), which is how
// spreadsheets often store them.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "1", "y":
		return true
	default:
		return false
	}
}
