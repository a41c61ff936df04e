package extract

import (
	"math"
	"strings"

	"github.com/irlens/dsscheck/internal/model"
)

// differenceTolerancePct treats sub-0.1% differences as rounding, not errors
const differenceTolerancePct = 0.1

// Compare matches summary metrics against transcript metrics by
// (period, metric, unit) and reports every numeric mismatch. The transcript
// value is authoritative; unmatched records on either side are not errors,
// just coverage gaps.
func Compare(ec, dss []model.MetricRecord) []model.NumericCorrection {
	type key struct{ period, metric, unit string }

	reference := make(map[key]model.MetricRecord, len(ec))
	for _, record := range ec {
		k := key{record.Period, record.Metric, strings.TrimSpace(record.Unit)}
		if _, exists := reference[k]; !exists {
			reference[k] = record
		}
	}

	var corrections []model.NumericCorrection
	for _, record := range dss {
		ref, found := reference[key{record.Period, record.Metric, strings.TrimSpace(record.Unit)}]
		if !found {
			continue
		}

		diff := differencePct(record.Value, ref.Value)
		if math.Abs(diff) <= differenceTolerancePct {
			continue
		}

		corrections = append(corrections, model.NumericCorrection{
			Company:          firstNonEmpty(record.Company, ref.Company),
			Period:           record.Period,
			Metric:           record.Metric,
			DSSValue:         record.Value,
			EarningCallValue: ref.Value,
			Unit:             ref.Unit,
			DifferencePct:    diff,
		})
	}
	return corrections
}

func differencePct(dss, ec float64) float64 {
	if ec == 0 {
		if dss == 0 {
			return 0
		}
		return 100
	}
	return (dss - ec) / math.Abs(ec) * 100
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
