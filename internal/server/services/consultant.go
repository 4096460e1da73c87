package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/inference"
	"github.com/dmitrijs2005/carescan/internal/server/models"
)

// HistoryWindow is the number of trailing conversation turns kept in a prompt.
const HistoryWindow = 5

const instructionBlock = `You are CareScan AI, an assistant specialised in medication information.
Your goal is to help users understand their medications, dosages and safety restrictions.`

const guidelineBlock = `Guidelines:
1. Give clear, medically grounded information about medications.
2. When asked about side effects or restrictions, be thorough but easy to understand.
3. Always remind the user that you are an AI and that they should consult a doctor or pharmacist before changing any treatment.
4. Do not diagnose conditions. Focus on medication information.
5. If a patient profile is given, take the listed conditions and prescriptions into account and point out possible interactions.
6. Use short paragraphs or bullet points.`

// Consultant assembles the consultation prompt and makes one inference call.
type Consultant struct {
	completer inference.Completer
	timeout   time.Duration
	logger    logging.Logger
}

// NewConsultant returns a Consultant. A non-positive timeout leaves the
// caller's context as the only bound.
func NewConsultant(c inference.Completer, timeout time.Duration, l logging.Logger) *Consultant {
	return &Consultant{completer: c, timeout: timeout, logger: l.With("module", "consultant")}
}

// Consult returns the model's reply to message. Only the last HistoryWindow
// turns of history are used. The reply is returned as produced.
func (c *Consultant) Consult(ctx context.Context, message string, history []models.Turn, block models.PersonalizationBlock) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", common.ErrMissingMessage
	}

	prompt := BuildPrompt(message, history, block)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	reply, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		c.logger.Error(ctx, "inference failed", "error", err, "elapsed", time.Since(started))
		return "", fmt.Errorf("%w: %v", common.ErrInferenceUnavailable, err)
	}
	if strings.TrimSpace(reply) == "" {
		c.logger.Error(ctx, "inference returned an empty reply")
		return "", fmt.Errorf("%w: %v", common.ErrInferenceUnavailable, inference.ErrEmptyResponse)
	}

	c.logger.Debug(ctx, "consultation answered",
		"personalized", !block.IsEmpty(), "turns", len(lastTurns(history, HistoryWindow)), "elapsed", time.Since(started))
	return reply, nil
}

// BuildPrompt renders the single prompt sent to the model.
func BuildPrompt(message string, history []models.Turn, block models.PersonalizationBlock) string {
	var sb strings.Builder

	sb.WriteString(instructionBlock)
	sb.WriteString("\n\n")
	if !block.IsEmpty() {
		sb.WriteString(block.String())
		sb.WriteString("\n\n")
	}
	sb.WriteString(guidelineBlock)
	sb.WriteString("\n\n")

	sb.WriteString("User Message: ")
	sb.WriteString(message)
	sb.WriteString("\n\n")

	sb.WriteString("Previous Chat History:\n")
	sb.WriteString(renderHistory(lastTurns(history, HistoryWindow)))

	return sb.String()
}

func lastTurns(history []models.Turn, n int) []models.Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func renderHistory(turns []models.Turn) string {
	if len(turns) == 0 {
		return "None"
	}
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = t.Role + ": " + t.Content
	}
	return strings.Join(lines, "\n")
}
