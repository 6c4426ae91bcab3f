package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mederp/practice-admin/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	clinicIDs, err := seedClinics(context.Background(), pool, 10)
	if err != nil {
		log.Fatalf("seed clinics: %v", err)
	}
	doctorIDs, err := seedDoctors(context.Background(), pool, clinicIDs, 60)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	patientIDs, err := seedPatients(context.Background(), pool, 2000)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, clinicIDs, doctorIDs, patientIDs, 8000); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var diseases = []string{
	"COVID",
	"Influenza",
	"Measles",
	"Dengue",
	"Malaria",
	"Tuberculosis",
	"Cholera",
	"Hepatitis A",
	"Zika",
	"Norovirus",
}

// geo pairs country with its continent so seeded rows stay consistent.
type geo struct {
	country   string
	continent string
}

var geos = []geo{
	{"United States", "North America"},
	{"Canada", "North America"},
	{"Mexico", "North America"},
	{"Brazil", "South America"},
	{"Argentina", "South America"},
	{"United Kingdom", "Europe"},
	{"Germany", "Europe"},
	{"France", "Europe"},
	{"Spain", "Europe"},
	{"Nigeria", "Africa"},
	{"Kenya", "Africa"},
	{"Egypt", "Africa"},
	{"India", "Asia"},
	{"Japan", "Asia"},
	{"Vietnam", "Asia"},
	{"Australia", "Oceania"},
}

var timezones = []string{
	"America/New_York",
	"America/Chicago",
	"Europe/London",
	"Europe/Berlin",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// pickStatus skews toward completed visits the way a live practice looks.
func pickStatus() string {
	r := gofakeit.Number(1, 100)
	switch {
	case r <= 45:
		return "completed"
	case r <= 75:
		return "scheduled"
	case r <= 90:
		return "cancelled"
	default:
		return "no_show"
	}
}

func seedClinics(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d clinics", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.City() + " Medical Center"
		address := gofakeit.Street() + ", " + gofakeit.City()
		contact := gofakeit.Phone()
		tz := timezones[gofakeit.Number(0, len(timezones)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO clinics (id, name, address, contact, timezone, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, now(), now())
		`, id, name, address, contact, tz)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("clinics seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, clinicIDs []uuid.UUID, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		clinicID := clinicIDs[gofakeit.Number(0, len(clinicIDs)-1)]
		name := "Dr. " + gofakeit.Name()
		contact := gofakeit.Email()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, clinic_id, name, contact, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, clinicID, name, contact, spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	ids := make([]uuid.UUID, 0, count)
	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			name := gofakeit.Name()
			contact := gofakeit.Email()
			dob := gofakeit.DateRange(
				time.Date(1935, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
			)
			medicalID := gofakeit.DigitN(9)

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, contact, date_of_birth, medical_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, now(), now())
			`, id, name, contact, dob, medicalID)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}
			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, clinicIDs, doctorIDs, patientIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d appointments", count)

	const batchSize = 500

	now := time.Now()
	earliest := now.AddDate(-1, 0, 0)
	latest := now.AddDate(0, 1, 0)

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			clinicID := clinicIDs[gofakeit.Number(0, len(clinicIDs)-1)]
			doctorID := doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)]
			patientID := patientIDs[gofakeit.Number(0, len(patientIDs)-1)]
			startAt := gofakeit.DateRange(earliest, latest)
			duration := []int{15, 30, 45, 60}[gofakeit.Number(0, 3)]
			status := pickStatus()

			// Roughly one row in ten keeps its clinical fields empty, so the
			// reports always have an "Unknown" slice to render.
			var disease, country, continent *string
			var virality, temp *float64
			var age *int
			if gofakeit.Number(1, 10) > 1 {
				d := diseases[gofakeit.Number(0, len(diseases)-1)]
				g := geos[gofakeit.Number(0, len(geos)-1)]
				v := gofakeit.Float64Range(0.1, 9.5)
				t := gofakeit.Float64Range(-10, 38)
				a := gofakeit.Number(1, 95)
				disease, country, continent = &d, &g.country, &g.continent
				virality, temp, age = &v, &t, &a
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO appointments (id, clinic_id, doctor_id, patient_id, start_at, duration_minutes, status,
					disease_name, virality_rate, patient_age_at_visit, avg_monthly_city_temp,
					country, continent, type_or_reason, notes, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULL, NULL, now(), now())
			`, id, clinicID, doctorID, patientID, startAt, duration, status,
				disease, virality, age, temp, country, continent)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("appointments seeded: %d/%d", end, count)
	}

	log.Println("appointments seeded")
	return nil
}
