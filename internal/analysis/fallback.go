package analysis

import "math/rand/v2"

const (
	// SimulatedDisclaimer marks every result built from canned data.
	SimulatedDisclaimer = "This is a simulated analysis for demonstration purposes. Always consult with your healthcare provider for actual medical interpretation."

	simulatedMethod = "Simulated Analysis"
)

// Picker returns an index in [0, n).
type Picker func(n int) int

var archetypes = []Analysis{
	{
		ReportType: "Lipid Panel",
		Summary:    "Comprehensive lipid panel analysis shows mostly normal cholesterol levels with slightly elevated LDL. Overall cardiovascular risk appears low to moderate.",
		KeyMetrics: []KeyMetric{
			{Name: "Total Cholesterol", Value: "192 mg/dL", Status: StatusNormal},
			{Name: "LDL Cholesterol", Value: "125 mg/dL", Status: StatusBorderline},
			{Name: "HDL Cholesterol", Value: "58 mg/dL", Status: StatusGood},
			{Name: "Triglycerides", Value: "145 mg/dL", Status: StatusNormal},
			{Name: "VLDL Cholesterol", Value: "29 mg/dL", Status: StatusNormal},
		},
		RiskFactors: []string{"Slightly elevated LDL cholesterol", "Borderline triglyceride levels"},
		Recommendations: []string{
			"Increase dietary fiber intake",
			"Reduce saturated fat consumption",
			"Engage in regular aerobic exercise (30 minutes daily)",
			"Consider omega-3 supplements",
			"Recheck lipid panel in 6 months",
		},
		Urgency: UrgencyLow,
	},
	{
		ReportType: "Blood Pressure Analysis",
		Summary:    "Blood pressure readings indicate prehypertension stage. Lifestyle modifications recommended to prevent progression to hypertension.",
		KeyMetrics: []KeyMetric{
			{Name: "Systolic BP", Value: "135 mmHg", Status: StatusBorderline},
			{Name: "Diastolic BP", Value: "85 mmHg", Status: StatusBorderline},
			{Name: "Mean Arterial Pressure", Value: "102 mmHg", Status: StatusNormal},
			{Name: "Pulse Pressure", Value: "50 mmHg", Status: StatusNormal},
			{Name: "Heart Rate", Value: "76 bpm", Status: StatusNormal},
		},
		RiskFactors: []string{"Prehypertension", "Increased cardiovascular risk"},
		Recommendations: []string{
			"Reduce sodium intake to <2,300mg/day",
			"Implement DASH eating plan",
			"Maintain healthy weight",
			"Limit alcohol consumption",
			"Monitor BP weekly and track trends",
		},
		Urgency: UrgencyMedium,
	},
	{
		ReportType: "Complete Blood Count",
		Summary:    "CBC results are within normal limits. No signs of anemia, infection, or blood disorders detected.",
		KeyMetrics: []KeyMetric{
			{Name: "Hemoglobin", Value: "14.8 g/dL", Status: StatusNormal},
			{Name: "Hematocrit", Value: "44.2%", Status: StatusNormal},
			{Name: "WBC Count", Value: "6.8 x10³/µL", Status: StatusNormal},
			{Name: "RBC Count", Value: "4.95 x10⁶/µL", Status: StatusNormal},
			{Name: "Platelet Count", Value: "285 x10³/µL", Status: StatusNormal},
		},
		RiskFactors: []string{"No significant risk factors identified"},
		Recommendations: []string{
			"Continue current health maintenance",
			"Routine CBC monitoring as per healthcare provider schedule",
			"Maintain balanced diet rich in iron and vitamins",
		},
		Urgency: UrgencyLow,
	},
}

// FallbackGenerator produces simulated analyses from a fixed set of
// report archetypes.
type FallbackGenerator struct {
	pick Picker
}

// NewFallbackGenerator creates a generator. A nil picker selects uniformly
// at random.
func NewFallbackGenerator(pick Picker) *FallbackGenerator {
	if pick == nil {
		pick = rand.IntN
	}
	return &FallbackGenerator{pick: pick}
}

// Generate returns a fresh copy of one archetype, marked as simulated.
func (g *FallbackGenerator) Generate() Analysis {
	i := g.pick(len(archetypes))
	if i < 0 || i >= len(archetypes) {
		i = 0
	}
	a := archetypes[i].Clone()
	a.Disclaimer = SimulatedDisclaimer
	a.AnalysisMethod = simulatedMethod
	return a
}

// Archetypes returns copies of every canned report.
func Archetypes() []Analysis {
	out := make([]Analysis, len(archetypes))
	for i, a := range archetypes {
		out[i] = a.Clone()
	}
	return out
}
