package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/carescan/internal/common"
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

const selectUser = `SELECT id, username, COALESCE(email, ''), COALESCE(phone_number, ''),
		password_hash, age, COALESCE(medical_history, ''), created_at
		FROM users`

// FindByAnyIdentifier matches identifier against all three identifier
// columns. Write-time uniqueness makes more than one match impossible; the
// ORDER BY only keeps the result deterministic if that is ever violated.
func (r *PostgresRepository) FindByAnyIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := selectUser + `
		WHERE username = $1 OR email = $1 OR phone_number = $1
		ORDER BY created_at, id
		LIMIT 1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}
	query := selectUser + `
		WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var age sql.NullInt64

	err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.PhoneNumber,
		&user.PasswordHash, &age, &user.MedicalHistory, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	return user, nil
}

func (r *PostgresRepository) IdentifiersTaken(ctx context.Context, ids ...string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	set := strings.Join(placeholders, ", ")

	query := fmt.Sprintf(`SELECT EXISTS (
		SELECT 1 FROM users
		WHERE username IN (%[1]s) OR email IN (%[1]s) OR phone_number IN (%[1]s)
	)`, set)

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, email, phone_number, password_hash, age, medical_history)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.UserName, nullString(user.Email), nullString(user.PhoneNumber),
		user.PasswordHash, nullInt(user.Age), nullString(user.MedicalHistory),
	).Scan(&user.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, age *int, medicalHistory string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrNotFound
	}

	query :=
		`UPDATE users SET age = $2, medical_history = $3
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, nullInt(age), nullString(medicalHistory))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
