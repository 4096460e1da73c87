package models

import (
	"encoding/json"
	"time"
)

// MedicationRecord is one extraction result stored for a user. Records are
// append-only; Payload is kept as produced by the extraction pipeline.
type MedicationRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"data"`
}

// Medicine is the usual shape of a payload entry. Fields other than Name
// are optional.
type Medicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Timing    string `json:"timing,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// MedicinePayload is the payload envelope written by the ingestion endpoint.
type MedicinePayload struct {
	Medicines []Medicine `json:"medicines"`
}
