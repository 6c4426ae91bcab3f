package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/mederp/practice-admin/internal/practice"
)

type ClinicRequest struct {
	Name     string  `json:"name"`
	Address  *string `json:"address"`
	Contact  *string `json:"contact"`
	Timezone string  `json:"timezone"`
	IsActive *bool   `json:"is_active"`
}

type ClinicResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	Contact   *string   `json:"contact"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClinicResponse(c *practice.Clinic) ClinicResponse {
	return ClinicResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Contact:   c.Contact,
		Timezone:  c.Timezone,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type DoctorRequest struct {
	ClinicID  string  `json:"clinic_id"`
	Name      string  `json:"name"`
	Contact   *string `json:"contact"`
	Specialty *string `json:"specialty"`
}

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	Name      string    `json:"name"`
	Contact   *string   `json:"contact"`
	Specialty *string   `json:"specialty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDoctorResponse(d *practice.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:        d.ID,
		ClinicID:  d.ClinicID,
		Name:      d.Name,
		Contact:   d.Contact,
		Specialty: d.Specialty,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type PatientRequest struct {
	Name        string  `json:"name"`
	Contact     *string `json:"contact"`
	DateOfBirth *string `json:"date_of_birth"` // 2006-01-02
	MedicalID   *string `json:"medical_id"`
}

type PatientResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Contact     *string    `json:"contact"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	MedicalID   *string    `json:"medical_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toPatientResponse(p *practice.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID,
		Name:        p.Name,
		Contact:     p.Contact,
		DateOfBirth: p.DateOfBirth,
		MedicalID:   p.MedicalID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type AppointmentRequest struct {
	ClinicID           string    `json:"clinic_id"`
	DoctorID           string    `json:"doctor_id"`
	PatientID          string    `json:"patient_id"`
	StartAt            time.Time `json:"start_at"`
	DurationMinutes    int       `json:"duration_minutes"`
	Status             string    `json:"status"`
	DiseaseName        *string   `json:"disease_name"`
	ViralityRate       *float64  `json:"virality_rate"`
	PatientAgeAtVisit  *int      `json:"patient_age_at_visit"`
	AvgMonthlyCityTemp *float64  `json:"avg_monthly_city_temp"`
	Country            *string   `json:"country"`
	Continent          *string   `json:"continent"`
	TypeOrReason       *string   `json:"type_or_reason"`
	Notes              *string   `json:"notes"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID `json:"id"`
	ClinicID           uuid.UUID `json:"clinic_id"`
	DoctorID           uuid.UUID `json:"doctor_id"`
	PatientID          uuid.UUID `json:"patient_id"`
	StartAt            time.Time `json:"start_at"`
	DurationMinutes    int       `json:"duration_minutes"`
	Status             string    `json:"status"`
	DiseaseName        *string   `json:"disease_name"`
	ViralityRate       *float64  `json:"virality_rate"`
	PatientAgeAtVisit  *int      `json:"patient_age_at_visit"`
	AvgMonthlyCityTemp *float64  `json:"avg_monthly_city_temp"`
	Country            *string   `json:"country"`
	Continent          *string   `json:"continent"`
	TypeOrReason       *string   `json:"type_or_reason"`
	Notes              *string   `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *practice.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                 a.ID,
		ClinicID:           a.ClinicID,
		DoctorID:           a.DoctorID,
		PatientID:          a.PatientID,
		StartAt:            a.StartAt,
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		DiseaseName:        a.DiseaseName,
		ViralityRate:       a.ViralityRate,
		PatientAgeAtVisit:  a.PatientAgeAtVisit,
		AvgMonthlyCityTemp: a.AvgMonthlyCityTemp,
		Country:            a.Country,
		Continent:          a.Continent,
		TypeOrReason:       a.TypeOrReason,
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
