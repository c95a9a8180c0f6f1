package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/couchcryptid/baseball-program-finder/internal/adapter/mapbox"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/shortlist"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client gone
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &requestError{msg: fmt.Sprintf("malformed request body: %v", err)}
	}
	return validateStruct(dst)
}

func programIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "programID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &requestError{msg: fmt.Sprintf("invalid program id %q", raw)}
	}
	return id, nil
}

func userIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "userID")
	if err := validateVar(id, "required,max=128,printascii"); err != nil {
		return "", &requestError{msg: fmt.Sprintf("invalid user id %q", id)}
	}
	return id, nil
}

// writeError maps service errors to status codes. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr     *requestError
		invalidErr *fit.InvalidProgramError
	)
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: reqErr.msg, Fields: reqErr.fields})
	case errors.Is(err, shortlist.ErrProgramNotFound), errors.Is(err, fit.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &invalidErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, fit.ErrInvalidClassification), errors.Is(err, mapbox.ErrInvalidZIP):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, shortlist.ErrGeocoderUnavailable),
		errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
