// Package risk computes cardiovascular risk scores and display statuses
// from user-entered biometrics.
package risk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Measure is a user-entered numeric value. It is kept as text and parsed
// on use, so partial or malformed input never fails decoding.
type Measure string

// M formats a number as a Measure.
func M(v float64) Measure {
	return Measure(strconv.FormatFloat(v, 'f', -1, 64))
}

// Float parses the measure. It reports false for blank, non-numeric or
// non-finite values.
func (m Measure) Float() (float64, bool) {
	s := strings.TrimSpace(string(m))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts a JSON string, number or null.
func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*m = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Measure(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("measure: expected string or number, got %s", data)
		}
		*m = Measure(n.String())
	}
	return nil
}

// Flag is a yes/no answer that also accepts "true", "yes" and "1" strings.
type Flag bool

// UnmarshalJSON accepts a JSON bool, string, number or null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*f = false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1":
			*f = true
		default:
			*f = false
		}
	case string(data) == "true":
		*f = true
	case string(data) == "false":
		*f = false
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("flag: expected bool, got %s", data)
		}
		*f = n != 0
	}
	return nil
}

// Profile holds the inputs to a risk assessment.
type Profile struct {
	Age              Measure `json:"age" firestore:"age"`
	Height           Measure `json:"height" firestore:"height"` // cm
	Weight           Measure `json:"weight" firestore:"weight"` // kg
	Systolic         Measure `json:"systolic" firestore:"systolic"`
	Diastolic        Measure `json:"diastolic" firestore:"diastolic"`
	TotalCholesterol Measure `json:"totalCholesterol" firestore:"totalCholesterol"`
	Smoker           Flag    `json:"smoker" firestore:"smoker"`
	Diabetic         Flag    `json:"diabetic" firestore:"diabetic"`
	FamilyHistory    Flag    `json:"familyHistory" firestore:"familyHistory"`
}
