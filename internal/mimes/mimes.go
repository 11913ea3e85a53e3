package mimes

import (
	"bytes"
	"path"
	"strings"
	"unicode/utf8"
)

const (
	SheetXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetXLSM = "application/vnd.ms-excel.sheet.macroEnabled.12"
	TextCSV   = "text/csv"
)

// zip local file header; every OOXML workbook starts with it.
var zipMagic = []byte("PK\x03\x04")

func FromFilename(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return SheetXLSX
	case strings.HasSuffix(name, ".xlsm"):
		return SheetXLSM
	case strings.HasSuffix(name, ".csv"):
		return TextCSV
	default:
		return ""
	}
}

// Detect guesses the sheet format of data. Zip archives are taken to be
// workbooks and valid UTF-8 text to be CSV.
func Detect(data []byte) string {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return SheetXLSX
	case len(data) > 0 && utf8.Valid(head(data, 512)):
		return TextCSV
	default:
		return ""
	}
}

// FromFile trusts the extension of name and sniffs data only when name has
// none, as with s3 keys written by other tools.
func FromFile(name string, data []byte) string {
	if path.Ext(name) != "" {
		return FromFilename(name)
	}
	return Detect(data)
}

func head(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	// Don't cut a multi-byte rune in half.
	for n > 0 && !utf8.RuneStart(data[n]) {
		n--
	}
	return data[:n]
}
