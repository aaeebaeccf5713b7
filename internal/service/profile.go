package service

import (
	"net/http"

	"github.com/castlemilk/cardiagno/internal/auth"
	"github.com/castlemilk/cardiagno/internal/risk"
	"github.com/castlemilk/cardiagno/internal/store"
)

type saveProfileRequest struct {
	Name    string       `json:"name"`
	Profile risk.Profile `json:"profile"`
}

// riskReport is an assessment plus the display statuses for the inputs
// that are present.
type riskReport struct {
	Assessment    risk.Assessment     `json:"assessment"`
	BMIStatus     string              `json:"bmiStatus,omitempty"`
	BloodPressure *risk.BloodPressure `json:"bloodPressure,omitempty"`
	Cholesterol   string              `json:"cholesterolStatus,omitempty"`
}

func buildRiskReport(p risk.Profile) riskReport {
	report := riskReport{Assessment: risk.Assess(p)}
	if report.Assessment.BMI > 0 {
		report.BMIStatus = risk.BMIStatus(report.Assessment.BMI)
	}
	sys, okSys := p.Systolic.Float()
	dia, okDia := p.Diastolic.Float()
	if okSys && okDia {
		bp := risk.BloodPressureStatus(sys, dia)
		report.BloodPressure = &bp
	}
	if total, ok := p.TotalCholesterol.Float(); ok {
		// Only total cholesterol is collected; HDL and LDL are passed as
		// neutral values so the status reflects the total alone.
		report.Cholesterol = risk.CholesterolStatus(total, 60, 0).Status
	}
	return report
}

// assessRisk scores a posted profile without storing it.
func (s *Service) assessRisk(w http.ResponseWriter, r *http.Request, _ string) error {
	var p risk.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		return err
	}
	s.writeJSON(w, http.StatusOK, buildRiskReport(p))
	return nil
}

func (s *Service) getProfile(w http.ResponseWriter, r *http.Request, userID string) error {
	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		return auth.WrapStoreError("get profile", err)
	}
	s.writeJSON(w, http.StatusOK, profile)
	return nil
}

func (s *Service) saveProfile(w http.ResponseWriter, r *http.Request, userID string) error {
	var req saveProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	record := &store.ProfileRecord{
		UserID:  userID,
		Name:    req.Name,
		Profile: req.Profile,
	}
	if err := s.store.SaveProfile(r.Context(), record); err != nil {
		return auth.WrapStoreError("save profile", err)
	}
	s.writeJSON(w, http.StatusOK, record)
	return nil
}

func (s *Service) profileRisk(w http.ResponseWriter, r *http.Request, userID string) error {
	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		return auth.WrapStoreError("get profile", err)
	}
	s.writeJSON(w, http.StatusOK, buildRiskReport(profile.Profile))
	return nil
}
