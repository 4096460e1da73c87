package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/dbx"
	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/repomanager"
)

// HistoryPageSize bounds the history listing.
const HistoryPageSize = 20

// RecordService is the read/append path for medication records.
type RecordService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewRecordService(db dbx.DBTX, m repomanager.RepositoryManager, l logging.Logger) *RecordService {
	return &RecordService{db: db, repomanager: m, logger: l.With("module", "records")}
}

// History returns the newest records of userID.
func (s *RecordService) History(ctx context.Context, userID string) ([]*models.MedicationRecord, error) {
	recs, err := s.repomanager.Records(s.db).ListRecent(ctx, userID, HistoryPageSize)
	if err != nil {
		s.logger.Error(ctx, "history lookup failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if recs == nil {
		recs = []*models.MedicationRecord{}
	}
	return recs, nil
}

// Ingest stores one extraction result for userID. Every medicine needs a name.
func (s *RecordService) Ingest(ctx context.Context, userID string, medicines []models.Medicine) (*models.MedicationRecord, error) {
	if len(medicines) == 0 {
		return nil, fmt.Errorf("%w: at least one medicine is required", common.ErrValidation)
	}
	for i, m := range medicines {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("%w: medicine %d has no name", common.ErrValidation, i)
		}
	}

	payload, err := json.Marshal(models.MedicinePayload{Medicines: medicines})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	rec := &models.MedicationRecord{UserID: userID, Payload: payload}
	if err := s.repomanager.Records(s.db).Create(ctx, rec); err != nil {
		s.logger.Error(ctx, "record insert failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.logger.Info(ctx, "record stored", "user_id", userID, "record_id", rec.ID, "medicines", len(medicines))
	return rec, nil
}
