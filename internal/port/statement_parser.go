package port

import (
	"context"

	"stmtview/internal/domain"
)

// StatementParser abstracts the remote statement parse service.
// Parse performs exactly one request. A nil error means the service reported success.
type StatementParser interface {
	Parse(ctx context.Context, file domain.SelectedFile) (*domain.ParseResponse, error)
}
