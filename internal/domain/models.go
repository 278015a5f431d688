package domain

import "time"

// SelectedFile is the user-chosen statement held by the upload controller.
type SelectedFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// ParseResponse is the decoded reply of the remote parse service.
// Bank and Fields are the raw decoded JSON values and may have any shape.
type ParseResponse struct {
	Success bool
	Bank    any
	Fields  any
	Error   string
}

// Transaction is one statement line.
type Transaction struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// NormalizedStatement is the display-safe rendering of a parse result.
// Every scalar is either the service value or Placeholder, and Transactions is never nil.
type NormalizedStatement struct {
	Bank              string        `json:"bank"`
	Last4             string        `json:"last4"`
	StatementDate     string        `json:"statement_date"`
	BillingCycleStart string        `json:"billing_cycle_start"`
	BillingCycleEnd   string        `json:"billing_cycle_end"`
	PaymentDueDate    string        `json:"payment_due_date"`
	TotalBalance      string        `json:"total_balance"`
	MinimumDue        string        `json:"minimum_due"`
	Transactions      []Transaction `json:"transactions"`
}

// UploadView is the read-only observation exposed to the view layer.
type UploadView struct {
	State     UploadState          `json:"state"`
	FileName  string               `json:"file_name,omitempty"`
	Error     string               `json:"error,omitempty"`
	Statement *NormalizedStatement `json:"statement,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Transition describes one committed state change of the upload controller.
type Transition struct {
	From UploadState
	To   UploadState
	View UploadView
}
