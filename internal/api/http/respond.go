package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// statusError carries a transport-level failure such as 401 or 403.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string { return e.message }

func unauthorized(msg string) error { return &statusError{status: http.StatusUnauthorized, message: msg} }
func forbidden(msg string) error    { return &statusError{status: http.StatusForbidden, message: msg} }

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// listBody is the envelope for paged collections.
type listBody struct {
	Items    any   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page,omitempty"`
	PageSize int32 `json:"page_size,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps err onto a status code. Unclassified errors become a
// generic 500 and the detail only goes to the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var se *statusError
	switch {
	case errors.As(err, &se):
		status, message = se.status, se.message
	case domain.KindOf(err) == domain.KindValidation:
		status, message = http.StatusBadRequest, err.Error()
	case domain.KindOf(err) == domain.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case domain.KindOf(err) == domain.KindInvalidOperation:
		status, message = http.StatusConflict, err.Error()
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: message, RequestID: logger.RequestID(r.Context())})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("request body is required")
		}
		return domain.Validation("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validation("invalid %s %q", name, raw)
	}
	return int32(id), nil
}

// queryInt reads an optional positive integer query parameter.
func queryInt(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return 0, domain.Validation("invalid %s %q", name, raw)
	}
	return int32(v), nil
}

// jsonOptional records whether a field was present in the body at all, so
// an explicit null can be told apart from an omitted field.
type jsonOptional[T any] struct {
	set   bool
	value T
}

func (o *jsonOptional[T]) UnmarshalJSON(b []byte) error {
	o.set = true
	return json.Unmarshal(b, &o.value)
}

// unescapePlus restores "+" in blood groups sent unencoded in a query
// string, where "A+" arrives as "A ".
func unescapePlus(s string) string {
	return strings.ReplaceAll(s, " ", "+")
}
