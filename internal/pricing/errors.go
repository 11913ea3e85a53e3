package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveDataset = errors.New("no active pricing dataset")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNoQuotes        = errors.New("no quotes found")
)

// NoQuotesError describes the lookup that came back empty.
type NoQuotesError struct {
	ZipPrefix      string
	Age            int
	InsuranceModel string
}

func (e *NoQuotesError) Error() string {
	return fmt.Sprintf("no quotes found for ZIP %s*, age %d, %s", e.ZipPrefix, e.Age, e.InsuranceModel)
}

func (e *NoQuotesError) Unwrap() error {
	return ErrNoQuotes
}
