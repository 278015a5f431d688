package domain

import "errors"

var (
	ErrNoFileSelected    = errors.New("no file selected")
	ErrSubmitInProgress  = errors.New("a submission is already in progress")
	ErrNoStatement       = errors.New("no parsed statement available")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrUnsupportedExport = errors.New("unsupported export format")
)

// Messages shown in the failed state when the service gave no usable text.
const (
	MsgBackendUnreachable = "Unable to reach the parse service. Check that it is running."
	MsgParseFailed        = "The parse service could not process this statement."
	MsgSelectFileFirst    = "Please select a PDF file first."
)

// ValidationError reports a local precondition violation. No request is made.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
