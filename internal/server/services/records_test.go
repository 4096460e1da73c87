package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordService_IngestAndHistory(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewRecordService(nil, rm, logging.Nop{})
	ctx := context.Background()

	rec, err := s.Ingest(ctx, "u1", []models.Medicine{{Name: "Metformin", Dosage: "500mg"}})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.JSONEq(t, `{"medicines":[{"name":"Metformin","dosage":"500mg"}]}`, string(rec.Payload))

	_, err = s.Ingest(ctx, "u1", []models.Medicine{{Name: "Aspirin"}})
	require.NoError(t, err)

	got, err := s.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, HistoryPageSize, rm.records.lastLim)

	var first models.MedicinePayload
	require.NoError(t, json.Unmarshal(got[0].Payload, &first))
	assert.Equal(t, "Aspirin", first.Medicines[0].Name)
}

func TestRecordService_HistoryEmptyIsNotNil(t *testing.T) {
	s := NewRecordService(nil, newFakeRepoManager(), logging.Nop{})

	got, err := s.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecordService_Errors(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewRecordService(nil, rm, logging.Nop{})

	_, err := s.Ingest(context.Background(), "u1", nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Ingest(context.Background(), "u1", []models.Medicine{{Dosage: "5mg"}})
	assert.ErrorIs(t, err, common.ErrValidation)

	rm.records.listErr = errors.New("down")
	_, err = s.History(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrInternal)
}
