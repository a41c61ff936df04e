package extract

import (
	"testing"

	"github.com/irlens/dsscheck/internal/model"
)

func TestNormalizePeriod(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-Q4", "2024-Q4"},
		{"2025-연간", "2025-연간"},
		{"2024년 4분기", "2024-Q4"},
		{"2026년 1분기", "2026-Q1"},
		{"2025년 연간", "2025-연간"},
		{"올해 4분기", "올해 4분기"}, // no year to anchor on
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizePeriod(tc.in); got != tc.want {
			t.Errorf("NormalizePeriod(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeMetric(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"매출액", "매출액"},
		{"매출", "매출액"},
		{"Revenue", "매출액"},
		{"영업익", "영업이익"},
		{"Operating Profit", "영업이익"},
		{"순이익", "당기순이익"},
		{"EBITDA", "EBITDA"}, // no synonym, passthrough
	}

	for _, tc := range cases {
		if got := NormalizeMetric(tc.in); got != tc.want {
			t.Errorf("NormalizeMetric(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalize_Dedupe(t *testing.T) {
	records := []model.MetricRecord{
		{Company: "삼성전자", Period: "2024-Q4", Metric: "매출액", Value: 1250, Unit: "억원"},
		{Company: "삼성전자", Period: "2024-Q4", Metric: "매출액", Value: 9999, Unit: "억원"},
		{Company: "삼성전자", Period: "2024-Q4", Metric: "영업이익", Value: 500, Unit: "억원"},
	}

	normalized := Normalize(records)
	if len(normalized) != 2 {
		t.Fatalf("Expected 2 records after dedupe, got %d", len(normalized))
	}
	if normalized[0].Value != 1250 {
		t.Errorf("Expected first occurrence kept, got value %g", normalized[0].Value)
	}
}

func TestCompare_ReportsMismatch(t *testing.T) {
	ec := []model.MetricRecord{
		{Company: "크래프톤", Period: "2025-Q4", Metric: "매출액", Value: 3.451, Unit: "조원"},
		{Company: "크래프톤", Period: "2025-Q4", Metric: "영업이익", Value: 1.2, Unit: "조원"},
	}
	dss := []model.MetricRecord{
		{Period: "2025-Q4", Metric: "매출액", Value: 5, Unit: "조원"},
		{Period: "2025-Q4", Metric: "영업이익", Value: 1.2, Unit: "조원"},
	}

	corrections := Compare(ec, dss)
	if len(corrections) != 1 {
		t.Fatalf("Expected 1 correction, got %d", len(corrections))
	}

	c := corrections[0]
	if c.Metric != "매출액" || c.DSSValue != 5 || c.EarningCallValue != 3.451 {
		t.Errorf("Unexpected correction: %+v", c)
	}
	if c.DifferencePct < 44 || c.DifferencePct > 46 {
		t.Errorf("Expected difference around 44.9%%, got %g", c.DifferencePct)
	}
	if c.Company != "크래프톤" {
		t.Errorf("Expected company backfilled from transcript record, got %q", c.Company)
	}
}

func TestCompare_ToleratesRounding(t *testing.T) {
	ec := []model.MetricRecord{{Period: "2025-Q1", Metric: "매출액", Value: 1000.0, Unit: "억원"}}
	dss := []model.MetricRecord{{Period: "2025-Q1", Metric: "매출액", Value: 1000.5, Unit: "억원"}}

	if corrections := Compare(ec, dss); len(corrections) != 0 {
		t.Errorf("Expected sub-tolerance difference ignored, got %d corrections", len(corrections))
	}
}

func TestCompare_UnmatchedRecordsIgnored(t *testing.T) {
	ec := []model.MetricRecord{{Period: "2025-Q1", Metric: "매출액", Value: 100, Unit: "억원"}}
	dss := []model.MetricRecord{{Period: "2025-Q2", Metric: "매출액", Value: 999, Unit: "억원"}}

	if corrections := Compare(ec, dss); len(corrections) != 0 {
		t.Errorf("Expected no corrections for unmatched periods, got %d", len(corrections))
	}
}
