package practice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClinicNotFound      = errors.New("clinic not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// AppointmentFilter narrows appointment listings. A nil ClinicID means all
// clinics; Limit <= 0 means no paging (the report service reads the full set).
type AppointmentFilter struct {
	ClinicID *uuid.UUID
	Limit    int
	Offset   int
}

// Repository contains all DB interactions needed by the services.
type Repository interface {
	ListClinics(ctx context.Context) ([]Clinic, error)
	GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	CreateClinic(ctx context.Context, c Clinic) (*Clinic, error)
	UpdateClinic(ctx context.Context, c Clinic) (*Clinic, error)
	DeleteClinic(ctx context.Context, id uuid.UUID) error

	ListDoctors(ctx context.Context) ([]Doctor, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error

	ListPatients(ctx context.Context) ([]Patient, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	CreatePatient(ctx context.Context, p Patient) (*Patient, error)
	UpdatePatient(ctx context.Context, p Patient) (*Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error

	ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	UpdateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// Dashboard counters
	CountAppointments(ctx context.Context) (int64, error)
	CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountPatients(ctx context.Context) (int64, error)
}
