package risk

import "math"

// Level is a step function of the risk score.
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Assessment is the result of scoring a Profile.
type Assessment struct {
	RiskScore   int      `json:"riskScore"`
	RiskLevel   Level    `json:"riskLevel"`
	RiskFactors []string `json:"riskFactors"`
	// BMI is 0 when height or weight is missing.
	BMI float64 `json:"bmi"`
}

// Assess scores a profile. Contributions are evaluated in a fixed order;
// any contribution whose inputs are missing or non-numeric is skipped.
func Assess(p Profile) Assessment {
	a := Assessment{RiskFactors: []string{}}
	add := func(points int, label string) {
		a.RiskScore += points
		a.RiskFactors = append(a.RiskFactors, label)
	}

	if age, ok := p.Age.Float(); ok {
		switch {
		case age > 65:
			add(2, "Age over 65")
		case age > 45:
			add(1, "Age over 45")
		}
	}

	sys, sysOK := p.Systolic.Float()
	dia, diaOK := p.Diastolic.Float()
	if (sysOK && sys > 140) || (diaOK && dia > 90) {
		add(2, "High blood pressure")
	}

	if chol, ok := p.TotalCholesterol.Float(); ok && chol > 240 {
		add(2, "High cholesterol")
	}

	if p.Smoker {
		add(3, "Smoking")
	}

	if p.Diabetic {
		add(2, "Diabetes")
	}

	if bmi, ok := profileBMI(p); ok {
		a.BMI = bmi
		if bmi >= 30 {
			add(2, "Obesity")
		}
	}

	if p.FamilyHistory {
		add(1, "Family history of heart disease")
	}

	a.RiskLevel = LevelFor(a.RiskScore)
	return a
}

// LevelFor maps a cumulative score to a level.
func LevelFor(score int) Level {
	switch {
	case score <= 2:
		return LevelLow
	case score <= 5:
		return LevelModerate
	case score <= 8:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// CalculateBMI returns weight / height² rounded to one decimal, with
// height in centimetres. Non-positive height yields 0.
func CalculateBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

func profileBMI(p Profile) (float64, bool) {
	w, wOK := p.Weight.Float()
	h, hOK := p.Height.Float()
	if !wOK || !hOK || w <= 0 || h <= 0 {
		return 0, false
	}
	return CalculateBMI(w, h), true
}
