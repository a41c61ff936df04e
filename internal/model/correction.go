package model

// NumericCorrection is one numeric discrepancy between the summary and the
// transcript, produced by the metric comparison step. Values stay in the
// units the documents use.
type NumericCorrection struct {
	Company          string  `json:"company"`
	Period           string  `json:"period"`
	Metric           string  `json:"metric"`
	DSSValue         float64 `json:"dss_value"`
	EarningCallValue float64 `json:"earning_call_value"`
	Unit             string  `json:"unit"`
	DifferencePct    float64 `json:"difference_pct"`
}
