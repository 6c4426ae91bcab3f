package practice

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// StatusOrder is the fixed display ordering for status breakdowns.
var StatusOrder = []AppointmentStatus{
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Clinic struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	Contact   *string
	Timezone  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Doctor struct {
	ID        uuid.UUID
	ClinicID  uuid.UUID
	Name      string
	Contact   *string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Patient struct {
	ID          uuid.UUID
	Name        string
	Contact     *string
	DateOfBirth *time.Time
	MedicalID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Appointment is the row the reporting engine consumes. StartAt and Status are
// always present; every other clinical field is nullable.
type Appointment struct {
	ID                 uuid.UUID
	ClinicID           uuid.UUID
	DoctorID           uuid.UUID
	PatientID          uuid.UUID
	StartAt            time.Time
	DurationMinutes    int
	Status             AppointmentStatus
	DiseaseName        *string
	ViralityRate       *float64
	PatientAgeAtVisit  *int
	AvgMonthlyCityTemp *float64
	Country            *string
	Continent          *string
	TypeOrReason       *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
