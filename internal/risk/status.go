package risk

// BMIStatus classifies a BMI value.
func BMIStatus(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// BloodPressure is a blood pressure category with its clinical label.
type BloodPressure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BloodPressureStatus classifies a systolic/diastolic reading in mmHg.
func BloodPressureStatus(systolic, diastolic float64) BloodPressure {
	switch {
	case systolic < 90 || diastolic < 60:
		return BloodPressure{"Low", "Hypotension"}
	case systolic < 120 && diastolic < 80:
		return BloodPressure{"Normal", "Optimal"}
	case systolic < 130 && diastolic < 80:
		return BloodPressure{"Elevated", "Prehypertension"}
	case systolic < 140 || diastolic < 90:
		return BloodPressure{"High", "Stage 1 Hypertension"}
	default:
		return BloodPressure{"Very High", "Stage 2 Hypertension"}
	}
}

// Cholesterol is a lipid panel category and the findings behind it.
type Cholesterol struct {
	Status string   `json:"status"`
	Risks  []string `json:"risks"`
}

// CholesterolStatus classifies total, HDL and LDL cholesterol in mg/dL.
func CholesterolStatus(total, hdl, ldl float64) Cholesterol {
	risks := []string{}
	if total > 240 {
		risks = append(risks, "High total cholesterol")
	}
	if hdl < 40 {
		risks = append(risks, "Low HDL (good cholesterol)")
	}
	if ldl > 160 {
		risks = append(risks, "High LDL (bad cholesterol)")
	}

	switch len(risks) {
	case 0:
		return Cholesterol{Status: "Optimal", Risks: risks}
	case 1:
		return Cholesterol{Status: "Borderline", Risks: risks}
	default:
		return Cholesterol{Status: "High Risk", Risks: risks}
	}
}

// HeartRateStatus classifies a resting heart rate in bpm.
func HeartRateStatus(bpm float64) string {
	switch {
	case bpm < 60:
		return "Low"
	case bpm <= 100:
		return "Normal"
	case bpm <= 120:
		return "Elevated"
	default:
		return "High"
	}
}

// HeartRateZone returns the training zone for a heart rate, using
// 220 minus age as the maximum.
func HeartRateZone(bpm, age float64) string {
	maxRate := 220 - age
	if maxRate <= 0 {
		return "Maximum"
	}
	pct := bpm / maxRate * 100
	switch {
	case pct < 50:
		return "Resting"
	case pct < 60:
		return "Light"
	case pct < 70:
		return "Moderate"
	case pct < 85:
		return "Vigorous"
	default:
		return "Maximum"
	}
}
