// Package extract pulls structured financial metrics out of free-text
// documents through the oracle.
package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/irlens/dsscheck/internal/decode"
	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/model"
)

// Extractor asks the oracle for the financial metrics in a document
type Extractor struct {
	oracle llm.Oracle
	log    *zap.Logger
}

// NewExtractor creates an extractor
func NewExtractor(oracle llm.Oracle, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{oracle: oracle, log: log}
}

// batchEnvelope keeps the raw key payloads so "key absent" and "key present
// but empty" stay distinguishable; only the former means a bad shape.
type batchEnvelope struct {
	EarningCall json.RawMessage `json:"earning_call"`
	DSS         json.RawMessage `json:"dss"`
}

// ExtractBoth extracts metrics from the transcript and the summary in one
// combined oracle call, splitting into per-document fallback calls when the
// combined response comes back in an unusable shape.
func (e *Extractor) ExtractBoth(ctx context.Context, ecText, dssText string) (ec, dss []model.MetricRecord, err error) {
	response, err := e.oracle.Complete(ctx, llm.Request{
		Prompt:      llm.BuildBatchExtractionPrompt(ecText, dssText),
		Temperature: 0,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("batch extraction: %w", err)
	}

	for _, text := range decode.Candidates(response) {
		var env batchEnvelope
		if jsonErr := json.Unmarshal([]byte(text), &env); jsonErr == nil && (env.EarningCall != nil || env.DSS != nil) {
			var ecRecords, dssRecords []model.MetricRecord
			if env.EarningCall != nil {
				if jsonErr := json.Unmarshal(env.EarningCall, &ecRecords); jsonErr != nil {
					continue
				}
			}
			if env.DSS != nil {
				if jsonErr := json.Unmarshal(env.DSS, &dssRecords); jsonErr != nil {
					continue
				}
			}
			return Normalize(ecRecords), Normalize(dssRecords), nil
		}

		// Some models answer with one flat array covering both documents.
		// Splitting it in half is a guess; prefer the fallback calls when
		// the halves would be empty.
		var flat []model.MetricRecord
		if jsonErr := json.Unmarshal([]byte(text), &flat); jsonErr == nil && len(flat) >= 2 {
			mid := len(flat) / 2
			return Normalize(flat[:mid]), Normalize(flat[mid:]), nil
		}
	}

	e.log.Debug("batch extraction response unusable, falling back to per-document calls")

	ec, err = e.Extract(ctx, ecText, model.RoleSource)
	if err != nil {
		return nil, nil, err
	}
	dss, err = e.Extract(ctx, dssText, model.RoleSummary)
	if err != nil {
		return nil, nil, err
	}
	return ec, dss, nil
}

// Extract extracts metrics from a single document
func (e *Extractor) Extract(ctx context.Context, text string, role model.DocumentRole) ([]model.MetricRecord, error) {
	response, err := e.oracle.Complete(ctx, llm.Request{
		Prompt:      llm.BuildExtractionPrompt(text, role),
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("metric extraction (%s): %w", role, err)
	}

	for _, candidate := range decode.Candidates(response) {
		var records []model.MetricRecord
		if jsonErr := json.Unmarshal([]byte(candidate), &records); jsonErr == nil {
			return Normalize(records), nil
		}

		var single model.MetricRecord
		if jsonErr := json.Unmarshal([]byte(candidate), &single); jsonErr == nil && single.Metric != "" {
			return Normalize([]model.MetricRecord{single}), nil
		}
	}

	return nil, fmt.Errorf("metric extraction (%s): unparseable response", role)
}
