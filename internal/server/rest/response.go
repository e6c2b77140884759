package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
)

const maxBodyBytes = 1 << 20

// envelope is the body of every JSON response.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func (s *RESTServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn(r.Context(), "write response failed", "error", err)
	}
}

func (s *RESTServer) writeOK(w http.ResponseWriter, r *http.Request, data any, message string) {
	s.writeJSON(w, r, http.StatusOK, data, message)
}

// writeError logs unexpected failures and answers with the mapped status.
func (s *RESTServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, r, status, nil, message)
}

// decodeJSON reads a JSON body into dst. An empty body is allowed when
// optional is true.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", common.ErrorValidation, err)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("%w: body too large", common.ErrorValidation)
	}
	if len(body) == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: request body is required", common.ErrorValidation)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %s: wrong type", common.ErrorValidation, typeErr.Field)
		}
		return fmt.Errorf("%w: malformed JSON", common.ErrorValidation)
	}
	return nil
}
