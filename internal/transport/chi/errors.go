package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldex/internal/domain"
)

// ErrorCode is the machine-readable error code of an API error response.
type ErrorCode string

// API error codes.
const (
	CodeInvalidRequest ErrorCode = "invalid_request"
	CodeUnauthorized   ErrorCode = "unauthorized"
	CodeUnknownField   ErrorCode = "unknown_field"
	CodeUnknownType    ErrorCode = "unknown_type"
	CodeDuplicateField ErrorCode = "duplicate_field"
	CodeDuplicateType  ErrorCode = "duplicate_type"
	CodeParseError     ErrorCode = "parse_error"
	CodeEngineError    ErrorCode = "engine_error"
	CodeBatchAborted   ErrorCode = "batch_aborted"
	CodeCanceled       ErrorCode = "canceled"
	CodeInternalError  ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type errorMapping struct {
	sentinel error
	status   int
	code     ErrorCode
	// public means err.Error() is safe to return; otherwise the sentinel text is used.
	public bool
}

var errorMappings = []errorMapping{
	{domain.ErrUnknownField, http.StatusNotFound, CodeUnknownField, true},
	{domain.ErrUnknownType, http.StatusBadRequest, CodeUnknownType, true},
	{domain.ErrDuplicateField, http.StatusConflict, CodeDuplicateField, true},
	{domain.ErrDuplicateType, http.StatusConflict, CodeDuplicateType, true},
	{domain.ErrParse, http.StatusUnprocessableEntity, CodeParseError, true},
	{domain.ErrInvalidField, http.StatusBadRequest, CodeInvalidRequest, true},
	{domain.ErrInvalidDocument, http.StatusBadRequest, CodeInvalidRequest, true},
	{domain.ErrBatchAborted, http.StatusConflict, CodeBatchAborted, true},
	{domain.ErrEngine, http.StatusBadGateway, CodeEngineError, false},
	{context.Canceled, 499, CodeCanceled, false},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, CodeCanceled, false},
}

// classify maps err to its status, code and client-safe message.
func classify(err error) (int, ErrorCode, string) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		if m.public {
			return m.status, m.code, err.Error()
		}
		return m.status, m.code, m.sentinel.Error()
	}
	return http.StatusInternalServerError, CodeInternalError, "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	} else {
		s.logger.Debug("domain error", zap.Error(err))
	}
	writeError(w, status, code, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
