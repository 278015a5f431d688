package parser

import (
	"errors"
	"fmt"

	"stmtview/internal/domain"
)

// TransportError indicates the request never produced an HTTP response
// (DNS failure, connection refused, transport timeout, cancelled context).
type TransportError struct {
	Err error
	URL string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling parse service %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError indicates the parse service answered but did not report success.
// Message is the service-provided text and may be empty.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("parse service failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("parse service failed (status %d): %s", e.StatusCode, e.Message)
}

// FailureMessage converts a settlement error into the text shown in the failed state.
// Transport failures never surface service text.
func FailureMessage(err error) string {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return domain.MsgBackendUnreachable
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Message != "" {
		return serviceErr.Message
	}
	return domain.MsgParseFailed
}
