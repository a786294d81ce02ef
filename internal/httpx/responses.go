package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Timestamp string        `json:"timestamp"`
	Status    int           `json:"status"`
	Error     string        `json:"error"`
	Errors    []ErrorDetail `json:"errors"`
	Path      string        `json:"path"`
	RequestID string        `json:"request_id,omitempty"`
}

// ErrorDetail is one problem with a request. Field is empty when the problem
// is not tied to a single input.
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func JSONSuccess(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func JSONSuccessCreated(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// JSONError writes an ErrorResponse. When details is empty, message becomes
// the single entry.
func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, message string, details []ErrorDetail) {
	if len(details) == 0 {
		details = []ErrorDetail{{Message: message}}
	}
	JSON(w, statusCode, ErrorResponse{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Status:    statusCode,
		Error:     http.StatusText(statusCode),
		Errors:    details,
		Path:      r.URL.Path,
		RequestID: RequestIDFrom(r),
	})
}
