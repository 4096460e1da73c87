package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/carescan/internal/dbx"
	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/repomanager"
)

// RecentRecordLimit is how many medication records feed a personalization block.
const RecentRecordLimit = 3

const (
	markerAgeMissing        = "Not specified"
	markerConditionsMissing = "None documented"
	markerRecordsMissing    = "None on file"
)

// Assembler builds the personalization block for an identity.
type Assembler struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewAssembler(db dbx.DBTX, m repomanager.RepositoryManager, l logging.Logger) *Assembler {
	return &Assembler{db: db, repomanager: m, logger: l.With("module", "assembler")}
}

// Assemble returns the block for identityID, or the empty block when
// identityID is empty or the identity cannot be loaded. A failure to load
// records degrades to the "None on file" marker. It never fails the caller.
func (a *Assembler) Assemble(ctx context.Context, identityID string) models.PersonalizationBlock {
	if identityID == "" {
		return models.PersonalizationBlock{}
	}

	user, err := a.repomanager.Users(a.db).FindByID(ctx, identityID)
	if err != nil {
		a.logger.Warn(ctx, "personalization skipped: identity lookup failed", "user_id", identityID, "error", err)
		return models.PersonalizationBlock{}
	}

	recs, err := a.repomanager.Records(a.db).ListRecent(ctx, identityID, RecentRecordLimit)
	if err != nil {
		a.logger.Warn(ctx, "recent records unavailable", "user_id", identityID, "error", err)
		recs = nil
	}

	return models.NewPersonalizationBlock(renderProfile(user, recs))
}

func renderProfile(u *models.User, recs []*models.MedicationRecord) string {
	age := markerAgeMissing
	if u.Age != nil {
		age = strconv.Itoa(*u.Age)
	}

	conditions := markerConditionsMissing
	if u.MedicalHistory != "" {
		conditions = u.MedicalHistory
	}

	prescriptions := markerRecordsMissing
	if len(recs) > 0 {
		parts := make([]string, 0, len(recs))
		for _, r := range recs {
			if s := flattenRecord(r.Payload); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			prescriptions = strings.Join(parts, "; ")
		}
	}

	var sb strings.Builder
	sb.WriteString("PATIENT PROFILE:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", u.UserName)
	fmt.Fprintf(&sb, "- Age: %s\n", age)
	fmt.Fprintf(&sb, "- Medical Conditions: %s\n", conditions)
	fmt.Fprintf(&sb, "- Recent Prescriptions: %s", prescriptions)
	return sb.String()
}

// flattenRecord renders a medicine payload as "Name (dosage, frequency), ...".
// Payloads of any other shape are rendered as compact JSON.
func flattenRecord(payload json.RawMessage) string {
	if len(bytes.TrimSpace(payload)) == 0 {
		return ""
	}

	var p models.MedicinePayload
	if err := json.Unmarshal(payload, &p); err == nil && len(p.Medicines) > 0 {
		entries := make([]string, 0, len(p.Medicines))
		for _, m := range p.Medicines {
			if e := flattenMedicine(m); e != "" {
				entries = append(entries, e)
			}
		}
		if len(entries) > 0 {
			return strings.Join(entries, ", ")
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return string(payload)
	}
	return buf.String()
}

func flattenMedicine(m models.Medicine) string {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return ""
	}

	var details []string
	for _, d := range []string{m.Dosage, m.Frequency, m.Timing, m.Duration} {
		if d = strings.TrimSpace(d); d != "" {
			details = append(details, d)
		}
	}
	if len(details) == 0 {
		return name
	}
	return name + " (" + strings.Join(details, ", ") + ")"
}
