// Package records stores the append-only medication history of each user.
package records

import (
	"context"

	"github.com/dmitrijs2005/carescan/internal/server/models"
)

type Repository interface {
	// ListRecent returns up to limit records of userID, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.MedicationRecord, error)

	// Create appends a record, filling ID (when empty) and CreatedAt.
	Create(ctx context.Context, record *models.MedicationRecord) error
}
