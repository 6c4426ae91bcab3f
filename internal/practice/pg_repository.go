package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the repository needs. It exists so tests
// can inject a pgxmock pool.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgRepository struct {
	db DB
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

// NewPgRepositoryWithDB allows injecting a mock database for testing.
func NewPgRepositoryWithDB(db DB) *PgRepository {
	return &PgRepository{db: db}
}

// Scan helpers

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.Contact,
		&c.Timezone,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.ClinicID,
		&d.Name,
		&d.Contact,
		&d.Specialty,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Contact,
		&p.DateOfBirth,
		&p.MedicalID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

const appointmentColumns = `id, clinic_id, doctor_id, patient_id, start_at, duration_minutes, status,
		disease_name, virality_rate, patient_age_at_visit, avg_monthly_city_temp,
		country, continent, type_or_reason, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.ClinicID,
		&a.DoctorID,
		&a.PatientID,
		&a.StartAt,
		&a.DurationMinutes,
		&a.Status,
		&a.DiseaseName,
		&a.ViralityRate,
		&a.PatientAgeAtVisit,
		&a.AvgMonthlyCityTemp,
		&a.Country,
		&a.Continent,
		&a.TypeOrReason,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

// Clinics

func (r *PgRepository) ListClinics(ctx context.Context) ([]Clinic, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, address, contact, timezone, is_active, created_at, updated_at
		FROM clinics
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, address, contact, timezone, is_active, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`, id)
	return scanClinic(row)
}

func (r *PgRepository) CreateClinic(ctx context.Context, c Clinic) (*Clinic, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO clinics (id, name, address, contact, timezone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, name, address, contact, timezone, is_active, created_at, updated_at
	`, id, c.Name, c.Address, c.Contact, c.Timezone, c.IsActive)

	return scanClinic(row)
}

func (r *PgRepository) UpdateClinic(ctx context.Context, c Clinic) (*Clinic, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE clinics
		SET name = $2,
		    address = $3,
		    contact = $4,
		    timezone = $5,
		    is_active = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, address, contact, timezone, is_active, created_at, updated_at
	`, c.ID, c.Name, c.Address, c.Contact, c.Timezone, c.IsActive)

	return scanClinic(row)
}

func (r *PgRepository) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClinicNotFound
	}
	return nil
}

// Doctors

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, clinic_id, name, contact, specialty, created_at, updated_at
		FROM doctors
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, clinic_id, name, contact, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO doctors (id, clinic_id, name, contact, specialty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, clinic_id, name, contact, specialty, created_at, updated_at
	`, id, d.ClinicID, d.Name, d.Contact, d.Specialty)

	return scanDoctor(row)
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE doctors
		SET clinic_id = $2,
		    name = $3,
		    contact = $4,
		    specialty = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, clinic_id, name, contact, specialty, created_at, updated_at
	`, d.ID, d.ClinicID, d.Name, d.Contact, d.Specialty)

	return scanDoctor(row)
}

func (r *PgRepository) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// Patients

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, contact, date_of_birth, medical_id, created_at, updated_at
		FROM patients
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, contact, date_of_birth, medical_id, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO patients (id, name, contact, date_of_birth, medical_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, name, contact, date_of_birth, medical_id, created_at, updated_at
	`, id, p.Name, p.Contact, p.DateOfBirth, p.MedicalID)

	return scanPatient(row)
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p Patient) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE patients
		SET name = $2,
		    contact = $3,
		    date_of_birth = $4,
		    medical_id = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, contact, date_of_birth, medical_id, created_at, updated_at
	`, p.ID, p.Name, p.Contact, p.DateOfBirth, p.MedicalID)

	return scanPatient(row)
}

func (r *PgRepository) DeletePatient(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// Appointments

func (r *PgRepository) ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments`

	var args []any
	if f.ClinicID != nil {
		args = append(args, *f.ClinicID)
		query += ` WHERE clinic_id = $1`
	}
	query += ` ORDER BY start_at`

	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, clinic_id, doctor_id, patient_id, start_at, duration_minutes, status,
			disease_name, virality_rate, patient_age_at_visit, avg_monthly_city_temp,
			country, continent, type_or_reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, a.ClinicID, a.DoctorID, a.PatientID, a.StartAt, a.DurationMinutes, a.Status,
		a.DiseaseName, a.ViralityRate, a.PatientAgeAtVisit, a.AvgMonthlyCityTemp,
		a.Country, a.Continent, a.TypeOrReason, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET clinic_id = $2,
		    doctor_id = $3,
		    patient_id = $4,
		    start_at = $5,
		    duration_minutes = $6,
		    status = $7,
		    disease_name = $8,
		    virality_rate = $9,
		    patient_age_at_visit = $10,
		    avg_monthly_city_temp = $11,
		    country = $12,
		    continent = $13,
		    type_or_reason = $14,
		    notes = $15,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, a.ID, a.ClinicID, a.DoctorID, a.PatientID, a.StartAt, a.DurationMinutes, a.Status,
		a.DiseaseName, a.ViralityRate, a.PatientAgeAtVisit, a.AvgMonthlyCityTemp,
		a.Country, a.Continent, a.TypeOrReason, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// Dashboard counters

func (r *PgRepository) CountAppointments(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&n)
	return n, err
}

func (r *PgRepository) CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE start_at >= $1 AND start_at < $2
	`, from, to).Scan(&n)
	return n, err
}

func (r *PgRepository) CountPatients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}
