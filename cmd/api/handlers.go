package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/lamalux/pricing/internal/pricing"
)

const maxBodyBytes = 1 << 16

type pricingService interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) ([]pricing.Quote, error)
	Compare(ctx context.Context, req pricing.CompareRequest) (*pricing.Comparison, error)
	Health(ctx context.Context) (*pricing.Health, error)
	Options(ctx context.Context) (*pricing.Options, error)
}

type handlers struct {
	svc pricingService
}

// handleQuote prices one exact configuration across all providers
func (h *handlers) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req pricing.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	quotes, err := h.svc.Quote(r.Context(), req)
	if err != nil {
		if errors.Is(err, pricing.ErrNoQuotes) {
			quoteMissCounter.Inc()
		}
		writeError(w, r, err)
		return
	}

	quoteCounter.Inc()
	writeJSON(w, http.StatusOK, quotes)
}

// handleCompare lists every matching quote with the cheapest one
func (h *handlers) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req pricing.CompareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cmp, err := h.svc.Compare(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comparisonCounter.Inc()
	writeJSON(w, http.StatusOK, cmp)
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.svc.Health(r.Context())
	if err != nil {
		logrus.WithError(err).Error("health check failed")
		if health == nil {
			health = &pricing.Health{Status: pricing.StatusUnhealthy}
		}
		writeJSON(w, http.StatusServiceUnavailable, health)
		return
	}

	writeJSON(w, http.StatusOK, health)
}

func (h *handlers) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, opts)
}

// requestError is a client error detected before the service is called.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var (
			syntaxErr *json.SyntaxError
			typeErr   *json.UnmarshalTypeError
			tooBigErr *http.MaxBytesError
		)
		switch {
		case errors.Is(err, io.EOF):
			return &requestError{http.StatusBadRequest, "request body is empty"}
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return &requestError{http.StatusBadRequest, "request body is not valid JSON"}
		case errors.As(err, &typeErr):
			return &requestError{http.StatusUnprocessableEntity, fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)}
		case errors.As(err, &tooBigErr):
			return &requestError{http.StatusRequestEntityTooLarge, "request body is too large"}
		default:
			return &requestError{http.StatusBadRequest, err.Error()}
		}
	}
	return nil
}

// writeError maps err to a status code and a {"detail": ...} body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr *requestError
		status int
		detail string
	)
	switch {
	case errors.As(err, &reqErr):
		status, detail = reqErr.status, reqErr.msg
	case errors.Is(err, pricing.ErrInvalidRequest):
		status = http.StatusUnprocessableEntity
		detail = strings.TrimPrefix(err.Error(), pricing.ErrInvalidRequest.Error()+": ")
	case pricing.IsNotFound(err):
		status, detail = http.StatusNotFound, err.Error()
	default:
		logrus.WithError(err).
			WithField("request_id", middleware.GetReqID(r.Context())).
			WithField("path", r.URL.Path).
			Error("request failed")
		status, detail = http.StatusInternalServerError, "internal server error"
	}

	writeJSON(w, status, map[string]string{"detail": capitalize(detail)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
