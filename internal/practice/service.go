package practice

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	redisclient "github.com/mederp/practice-admin/internal/redis"
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidStatus   = errors.New("status is not a known appointment status")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// Service owns validation and referential checks for the practice tables.
// The database remains the source of truth; the report cache is a derived
// copy that every successful mutation invalidates.
type Service struct {
	repo  Repository
	cache redisclient.Cache
}

func NewService(repo Repository, cache redisclient.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// Clinics

func (s *Service) ListClinics(ctx context.Context) ([]Clinic, error) {
	return s.repo.ListClinics(ctx)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetClinicByID(ctx, id)
}

func (s *Service) CreateClinic(ctx context.Context, c Clinic) (*Clinic, error) {
	if c.Name == "" {
		return nil, ErrNameRequired
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}

	created, err := s.repo.CreateClinic(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}
	s.invalidateReports(ctx)
	return created, nil
}

func (s *Service) UpdateClinic(ctx context.Context, c Clinic) (*Clinic, error) {
	if c.Name == "" {
		return nil, ErrNameRequired
	}

	updated, err := s.repo.UpdateClinic(ctx, c)
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return updated, nil
}

func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteClinic(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// Doctors

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return s.repo.ListDoctors(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByID(ctx, id)
}

func (s *Service) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	if d.Name == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.repo.GetClinicByID(ctx, d.ClinicID); err != nil {
		if errors.Is(err, ErrClinicNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load clinic: %w", err)
	}

	created, err := s.repo.CreateDoctor(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	s.invalidateReports(ctx)
	return created, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	if d.Name == "" {
		return nil, ErrNameRequired
	}

	updated, err := s.repo.UpdateDoctor(ctx, d)
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return updated, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteDoctor(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// Patients

func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	return s.repo.ListPatients(ctx)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

func (s *Service) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	if p.Name == "" {
		return nil, ErrNameRequired
	}

	created, err := s.repo.CreatePatient(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.invalidateReports(ctx)
	return created, nil
}

func (s *Service) UpdatePatient(ctx context.Context, p Patient) (*Patient, error) {
	if p.Name == "" {
		return nil, ErrNameRequired
	}

	updated, err := s.repo.UpdatePatient(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return updated, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePatient(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// Appointments

func (s *Service) ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	if f.Limit <= 0 {
		f.Limit = 50 // default page size for the CRUD listing
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.ListAppointments(ctx, f)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

// CreateAppointment validates the referenced clinic, doctor, and patient
// before inserting; referential integrity beyond that belongs to Postgres.
func (s *Service) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	if err := s.validateAppointment(ctx, a); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateAppointment(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.invalidateReports(ctx)
	return created, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	if err := s.validateAppointment(ctx, a); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateAppointment(ctx, a)
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return updated, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) validateAppointment(ctx context.Context, a Appointment) error {
	if !a.Status.Valid() {
		return ErrInvalidStatus
	}
	if a.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}

	if _, err := s.repo.GetClinicByID(ctx, a.ClinicID); err != nil {
		if errors.Is(err, ErrClinicNotFound) {
			return err
		}
		return fmt.Errorf("load clinic: %w", err)
	}
	if _, err := s.repo.GetDoctorByID(ctx, a.DoctorID); err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return err
		}
		return fmt.Errorf("load doctor: %w", err)
	}
	if _, err := s.repo.GetPatientByID(ctx, a.PatientID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return err
		}
		return fmt.Errorf("load patient: %w", err)
	}

	return nil
}

// invalidateReports is best effort: a failed bump only means reports stay
// stale until the cache TTL passes.
func (s *Service) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("failed to invalidate report cache: %v", err)
	}
}
