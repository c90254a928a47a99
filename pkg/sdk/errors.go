package sdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/fieldex/internal/domain"
	chitransport "github.com/kailas-cloud/fieldex/internal/transport/chi"
)

// Errors without a domain counterpart.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrServer         = errors.New("server error")
)

var codeSentinels = map[chitransport.ErrorCode]error{
	chitransport.CodeInvalidRequest: ErrInvalidRequest,
	chitransport.CodeUnauthorized:   ErrUnauthorized,
	chitransport.CodeUnknownField:   domain.ErrUnknownField,
	chitransport.CodeUnknownType:    domain.ErrUnknownType,
	chitransport.CodeDuplicateField: domain.ErrDuplicateField,
	chitransport.CodeDuplicateType:  domain.ErrDuplicateType,
	chitransport.CodeParseError:     domain.ErrParse,
	chitransport.CodeEngineError:    domain.ErrEngine,
	chitransport.CodeBatchAborted:   domain.ErrBatchAborted,
	chitransport.CodeCanceled:       context.Canceled,
	chitransport.CodeInternalError:  ErrServer,
}

// APIError is a non-2xx response of the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fieldex api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the error code to a sentinel, so errors.Is works across the wire.
func (e *APIError) Unwrap() error {
	if s, ok := codeSentinels[chitransport.ErrorCode(e.Code)]; ok {
		return s
	}
	if e.StatusCode >= 500 {
		return ErrServer
	}
	return nil
}
