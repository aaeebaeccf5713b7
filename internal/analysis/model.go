package analysis

// MetricStatus classifies a single measured value in a report.
type MetricStatus string

const (
	StatusNormal     MetricStatus = "normal"
	StatusBorderline MetricStatus = "borderline"
	StatusAbnormal   MetricStatus = "abnormal"
	StatusGood       MetricStatus = "good"
)

// Urgency is the four-level triage signal attached to every analysis.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// KeyMetric is one named value pulled from a report.
type KeyMetric struct {
	Name   string       `json:"name" firestore:"name"`
	Value  string       `json:"value" firestore:"value"`
	Status MetricStatus `json:"status" firestore:"status"`
}

// Analysis is the structured interpretation of a scanned medical report.
// Slices are never nil so they always encode as JSON arrays.
type Analysis struct {
	Summary         string      `json:"summary" firestore:"summary"`
	KeyMetrics      []KeyMetric `json:"keyMetrics" firestore:"keyMetrics"`
	RiskFactors     []string    `json:"riskFactors" firestore:"riskFactors"`
	Recommendations []string    `json:"recommendations" firestore:"recommendations"`
	Urgency         Urgency     `json:"urgency" firestore:"urgency"`

	// Provenance. ExtractedText is the verbatim OCR output; AnalysisMethod
	// names the backend chain that produced the result.
	ExtractedText  string `json:"extractedText,omitempty" firestore:"extractedText,omitempty"`
	AnalysisMethod string `json:"analysisMethod,omitempty" firestore:"analysisMethod,omitempty"`

	// Set only on simulated results.
	Disclaimer string `json:"disclaimer,omitempty" firestore:"disclaimer,omitempty"`
	ReportType string `json:"reportType,omitempty" firestore:"reportType,omitempty"`
}

// IsSimulated reports whether the analysis was produced from canned data.
func (a *Analysis) IsSimulated() bool {
	return a.Disclaimer != ""
}

// Clone returns a deep copy.
func (a Analysis) Clone() Analysis {
	out := a
	out.KeyMetrics = append(make([]KeyMetric, 0, len(a.KeyMetrics)), a.KeyMetrics...)
	out.RiskFactors = append(make([]string, 0, len(a.RiskFactors)), a.RiskFactors...)
	out.Recommendations = append(make([]string, 0, len(a.Recommendations)), a.Recommendations...)
	return out
}

func newAnalysis() Analysis {
	return Analysis{
		KeyMetrics:      []KeyMetric{},
		RiskFactors:     []string{},
		Recommendations: []string{},
		Urgency:         UrgencyMedium,
	}
}
