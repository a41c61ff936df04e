package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/irlens/dsscheck/internal/decode"
	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/model"
)

// Corrector asks the oracle for a corrected rendition of the summary that
// fixes the numeric mismatches and the major interpretation issues.
type Corrector struct {
	oracle llm.Oracle
	log    *zap.Logger
}

// NewCorrector creates a corrector
func NewCorrector(oracle llm.Oracle, log *zap.Logger) *Corrector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Corrector{oracle: oracle, log: log}
}

type correctionEnvelope struct {
	CorrectedDSS string `json:"corrected_dss"`
}

// Correct returns the corrected summary text. On an unparseable response the
// original summary comes back unchanged rather than an error; a correction
// that cannot be produced must not break the report.
func (c *Corrector) Correct(ctx context.Context, originalDSS, sourceText string, corrections []model.NumericCorrection, issues []model.ValidationOutcome) (string, error) {
	response, err := c.oracle.Complete(ctx, llm.Request{
		Prompt:      llm.BuildCorrectionPrompt(originalDSS, sourceText, corrections, issues),
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("correction request: %w", err)
	}

	for _, candidate := range decode.Candidates(response) {
		var env correctionEnvelope
		if jsonErr := json.Unmarshal([]byte(candidate), &env); jsonErr == nil && strings.TrimSpace(env.CorrectedDSS) != "" {
			return env.CorrectedDSS, nil
		}
	}

	c.log.Debug("correction response unparseable, keeping original summary")
	return originalDSS, nil
}
