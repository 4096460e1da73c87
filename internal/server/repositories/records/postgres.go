package records

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carescan/internal/dbx"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.MedicationRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `SELECT id, user_id, created_at, payload FROM medication_records
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := make([]*models.MedicationRecord, 0, limit)
	for rows.Next() {
		var (
			item    models.MedicationRecord
			payload []byte
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.CreatedAt, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		item.Payload = payload
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.MedicationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `INSERT INTO medication_records (id, user_id, payload)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, record.ID, record.UserID, string(record.Payload)).
		Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
