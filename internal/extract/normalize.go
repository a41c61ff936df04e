package extract

import (
	"regexp"
	"strings"

	"github.com/irlens/dsscheck/internal/model"
)

var yearPattern = regexp.MustCompile(`20\d{2}`)

// quarterMarkers map Korean quarter phrases to the canonical suffix
var quarterMarkers = []struct {
	phrase string
	suffix string
}{
	{"1분기", "Q1"},
	{"2분기", "Q2"},
	{"3분기", "Q3"},
	{"4분기", "Q4"},
}

// metricSynonyms fold variant metric names onto one standard label. The
// standard name itself always wins; alternatives match case-insensitively as
// substrings.
var metricSynonyms = []struct {
	standard     string
	alternatives []string
}{
	{"매출액", []string{"매출", "Revenue", "Sales"}},
	{"영업이익", []string{"영업익", "Operating Income", "Operating Profit"}},
	{"당기순이익", []string{"순이익", "Net Income", "Net Profit"}},
	{"현금및현금성자산", []string{"현금", "Cash and Cash Equivalents", "Cash"}},
}

// Normalize standardizes metric and period labels and drops duplicate
// (company, period, metric) records, keeping the first occurrence.
func Normalize(records []model.MetricRecord) []model.MetricRecord {
	type key struct{ company, period, metric string }

	seen := make(map[key]bool)
	normalized := make([]model.MetricRecord, 0, len(records))
	for _, record := range records {
		k := key{
			company: strings.TrimSpace(record.Company),
			period:  strings.TrimSpace(record.Period),
			metric:  strings.TrimSpace(record.Metric),
		}
		if seen[k] {
			continue
		}
		seen[k] = true

		record.Company = k.company
		record.Period = NormalizePeriod(k.period)
		record.Metric = NormalizeMetric(k.metric)
		record.Unit = strings.TrimSpace(record.Unit)
		record.Context = strings.TrimSpace(record.Context)
		record.Type = strings.TrimSpace(record.Type)
		normalized = append(normalized, record)
	}
	return normalized
}

// NormalizePeriod rewrites Korean period phrases into the canonical
// "YYYY-Qn" / "YYYY-연간" form. Periods already canonical, or with no
// recognizable year, pass through unchanged.
func NormalizePeriod(period string) string {
	period = strings.TrimSpace(period)
	if strings.Contains(period, "-Q") || strings.Contains(period, "-연간") {
		return period
	}

	year := yearPattern.FindString(period)
	if year == "" {
		return period
	}

	for _, marker := range quarterMarkers {
		if strings.Contains(period, marker.phrase) {
			return year + "-" + marker.suffix
		}
	}
	if strings.Contains(period, "연간") {
		return year + "-연간"
	}
	return period
}

// NormalizeMetric folds metric-name synonyms onto the standard Korean label
func NormalizeMetric(metric string) string {
	metric = strings.TrimSpace(metric)
	lower := strings.ToLower(metric)

	for _, entry := range metricSynonyms {
		if metric == entry.standard {
			return entry.standard
		}
		for _, alt := range entry.alternatives {
			if strings.Contains(lower, strings.ToLower(alt)) {
				return entry.standard
			}
		}
	}
	return metric
}
