package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess_AllFactors(t *testing.T) {
	got := Assess(Profile{
		Age:              M(70),
		Systolic:         M(150),
		Diastolic:        M(95),
		TotalCholesterol: M(250),
		Smoker:           true,
		Diabetic:         true,
		Height:           M(170),
		Weight:           M(100),
		FamilyHistory:    true,
	})

	assert.Equal(t, 14, got.RiskScore)
	assert.Equal(t, LevelCritical, got.RiskLevel)
	assert.Equal(t, []string{
		"Age over 65",
		"High blood pressure",
		"High cholesterol",
		"Smoking",
		"Diabetes",
		"Obesity",
		"Family history of heart disease",
	}, got.RiskFactors)
	assert.Equal(t, 34.6, got.BMI)
}

func TestAssess_NoFactors(t *testing.T) {
	got := Assess(Profile{
		Age:              M(30),
		Systolic:         M(115),
		Diastolic:        M(75),
		TotalCholesterol: M(180),
		Height:           M(175),
		Weight:           M(70),
	})

	assert.Equal(t, 0, got.RiskScore)
	assert.Equal(t, LevelLow, got.RiskLevel)
	assert.NotNil(t, got.RiskFactors)
	assert.Empty(t, got.RiskFactors)
	assert.Equal(t, 22.9, got.BMI)
}

func TestAssess_AgeBandsExclusive(t *testing.T) {
	tests := []struct {
		age    float64
		score  int
		factor string
	}{
		{45, 0, ""},
		{46, 1, "Age over 45"},
		{65, 1, "Age over 45"},
		{66, 2, "Age over 65"},
	}
	for _, tt := range tests {
		got := Assess(Profile{Age: M(tt.age)})
		assert.Equal(t, tt.score, got.RiskScore, "age %v", tt.age)
		if tt.factor == "" {
			assert.Empty(t, got.RiskFactors)
		} else {
			assert.Equal(t, []string{tt.factor}, got.RiskFactors)
		}
	}
}

func TestAssess_BloodPressureEitherReading(t *testing.T) {
	assert.Equal(t, 2, Assess(Profile{Systolic: M(141)}).RiskScore)
	assert.Equal(t, 2, Assess(Profile{Diastolic: M(91)}).RiskScore)
	assert.Equal(t, 0, Assess(Profile{Systolic: M(140), Diastolic: M(90)}).RiskScore)
}

func TestAssess_BMIUsesRoundedValue(t *testing.T) {
	// 29.96 rounds to 30.0.
	got := Assess(Profile{Height: M(100), Weight: M(29.96)})
	assert.Equal(t, 30.0, got.BMI)
	assert.Equal(t, []string{"Obesity"}, got.RiskFactors)
}

func TestAssess_PartialAndMalformedInput(t *testing.T) {
	got := Assess(Profile{
		Age:              "",
		Height:           "abc",
		Weight:           M(120),
		Systolic:         "NaN",
		TotalCholesterol: " 260 ",
		Smoker:           true,
	})

	assert.Equal(t, 5, got.RiskScore)
	assert.Equal(t, LevelModerate, got.RiskLevel)
	assert.Equal(t, []string{"High cholesterol", "Smoking"}, got.RiskFactors)
	assert.Equal(t, 0.0, got.BMI)
}

func TestAssess_ZeroProfile(t *testing.T) {
	got := Assess(Profile{})
	assert.Equal(t, 0, got.RiskScore)
	assert.Equal(t, LevelLow, got.RiskLevel)
}

func TestAssess_Deterministic(t *testing.T) {
	p := Profile{Age: M(50), Smoker: true, Height: M(160), Weight: M(90)}
	assert.Equal(t, Assess(p), Assess(p))
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{0, LevelLow}, {2, LevelLow},
		{3, LevelModerate}, {5, LevelModerate},
		{6, LevelHigh}, {8, LevelHigh},
		{9, LevelCritical}, {15, LevelCritical},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCalculateBMI(t *testing.T) {
	assert.Equal(t, 22.9, CalculateBMI(70, 175))
	assert.Equal(t, 0.0, CalculateBMI(70, 0))
	assert.Equal(t, 0.0, CalculateBMI(70, -10))
}

func TestProfile_UnmarshalLenient(t *testing.T) {
	raw := `{
		"age": "52",
		"height": 180,
		"weight": 81.5,
		"systolic": null,
		"diastolic": "",
		"totalCholesterol": "n/a",
		"smoker": "yes",
		"diabetic": false,
		"familyHistory": 1
	}`
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	age, ok := p.Age.Float()
	assert.True(t, ok)
	assert.Equal(t, 52.0, age)
	h, _ := p.Height.Float()
	assert.Equal(t, 180.0, h)
	w, _ := p.Weight.Float()
	assert.Equal(t, 81.5, w)
	_, ok = p.Systolic.Float()
	assert.False(t, ok)
	_, ok = p.TotalCholesterol.Float()
	assert.False(t, ok)
	assert.True(t, bool(p.Smoker))
	assert.False(t, bool(p.Diabetic))
	assert.True(t, bool(p.FamilyHistory))
}

func TestMeasure_UnmarshalRejectsObjects(t *testing.T) {
	var m Measure
	assert.Error(t, json.Unmarshal([]byte(`{"v":1}`), &m))
}
