package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/dbx"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/records"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memUsers keeps identities in memory and matches identifiers across all
// three columns like the PostgreSQL repository.
type memUsers struct {
	mu    sync.Mutex
	users []*models.User
	calls int

	findErr   error
	createErr error
	updateErr error
}

func (m *memUsers) FindByAnyIdentifier(_ context.Context, identifier string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.UserName == identifier || (u.Email != "" && u.Email == identifier) || (u.PhoneNumber != "" && u.PhoneNumber == identifier) {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) IdentifiersTaken(_ context.Context, ids ...string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, u := range m.users {
		for _, have := range u.Identifiers() {
			for _, id := range ids {
				if have == id {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id string, age *int, medicalHistory string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.updateErr != nil {
		return m.updateErr
	}
	for _, u := range m.users {
		if u.ID == id {
			u.Age = age
			u.MedicalHistory = medicalHistory
			return nil
		}
	}
	return common.ErrNotFound
}

type memRecords struct {
	mu      sync.Mutex
	records []*models.MedicationRecord
	listErr error
	lastLim int
}

// ListRecent assumes records were appended oldest first.
func (m *memRecords) ListRecent(_ context.Context, userID string, limit int) ([]*models.MedicationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLim = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.MedicationRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].UserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *memRecords) Create(_ context.Context, r *models.MedicationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now()
	m.records = append(m.records, r)
	return nil
}

type fakeRepoManager struct {
	users   *memUsers
	records *memRecords
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: &memUsers{}, records: &memRecords{}}
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return f.users }
func (f *fakeRepoManager) Records(dbx.DBTX) records.Repository        { return f.records }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

// fakeCompleter records every prompt it receives.
type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	block   bool
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func intPtr(v int) *int { return &v }
