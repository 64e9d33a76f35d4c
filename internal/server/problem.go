package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/matzehuels/precedence/pkg/errors"
	"github.com/matzehuels/precedence/pkg/observability"
)

// Problem is the JSON body of every error response.
type Problem struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Detail    string `json:"detail"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Status:    status,
		Code:      code,
		Detail:    detail,
		Instance:  r.URL.Path,
		RequestID: requestIDFrom(r.Context()),
	})
}

// writeError maps err to a status and writes it as a problem. Internal
// errors are logged and not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeProblem(w, r, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
		return
	}

	code := errors.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", "err", err, "request_id", requestIDFrom(r.Context()))
		if code == "" {
			code = errors.ErrCodeInternal
		}
		writeProblem(w, r, status, string(code), "an unexpected error occurred")
		return
	}
	writeProblem(w, r, status, string(code), errors.UserMessage(err))
}

// statusFor returns the HTTP status for an error code.
func statusFor(code errors.Code) int {
	switch {
	case strings.HasPrefix(string(code), "MALFORMED_"), strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeUnsatisfiable:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == errors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
