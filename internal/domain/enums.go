package domain

// UploadState represents the lifecycle of a single statement upload.
type UploadState string

const (
	UploadStateIdle       UploadState = "idle"
	UploadStateReady      UploadState = "ready"
	UploadStateSubmitting UploadState = "submitting"
	UploadStateSucceeded  UploadState = "succeeded"
	UploadStateFailed     UploadState = "failed"
)

// AllUploadStates lists every state in lifecycle order.
var AllUploadStates = []UploadState{
	UploadStateIdle,
	UploadStateReady,
	UploadStateSubmitting,
	UploadStateSucceeded,
	UploadStateFailed,
}

// CanSubmit reports whether a submit action is accepted from this state.
func (s UploadState) CanSubmit() bool {
	switch s {
	case UploadStateReady, UploadStateSucceeded, UploadStateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the state holds a settled result.
func (s UploadState) IsTerminal() bool {
	return s == UploadStateSucceeded || s == UploadStateFailed
}

// Placeholder is substituted for every missing display value.
const Placeholder = "-"

// ExportFormat enumerates the supported statement export formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportContentTypes maps an ExportFormat to its MIME content type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
