package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mederp/practice-admin/internal/practice"
	"github.com/mederp/practice-admin/internal/report"
)

type RouterConfig struct {
	Practice *practice.Service
	Reports  *report.Service
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Clinic endpoints
	r.Get("/clinics", listClinicsHandler(cfg.Practice))
	r.Post("/clinics", createClinicHandler(cfg.Practice))
	r.Get("/clinics/{id}", getClinicHandler(cfg.Practice))
	r.Put("/clinics/{id}", updateClinicHandler(cfg.Practice))
	r.Delete("/clinics/{id}", deleteClinicHandler(cfg.Practice))

	// Doctor endpoints
	r.Get("/doctors", listDoctorsHandler(cfg.Practice))
	r.Post("/doctors", createDoctorHandler(cfg.Practice))
	r.Get("/doctors/{id}", getDoctorHandler(cfg.Practice))
	r.Put("/doctors/{id}", updateDoctorHandler(cfg.Practice))
	r.Delete("/doctors/{id}", deleteDoctorHandler(cfg.Practice))

	// Patient endpoints
	r.Get("/patients", listPatientsHandler(cfg.Practice))
	r.Post("/patients", createPatientHandler(cfg.Practice))
	r.Get("/patients/{id}", getPatientHandler(cfg.Practice))
	r.Put("/patients/{id}", updatePatientHandler(cfg.Practice))
	r.Delete("/patients/{id}", deletePatientHandler(cfg.Practice))

	// Appointment endpoints
	r.Get("/appointments", listAppointmentsHandler(cfg.Practice))
	r.Post("/appointments", createAppointmentHandler(cfg.Practice))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Practice))
	r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Practice))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Practice))

	// Report endpoints
	r.Get("/reports/overview", overviewHandler(cfg.Reports))
	r.Get("/reports/appointments", appointmentReportHandler(cfg.Reports))
	r.Get("/reports/appointments/export", exportReportHandler(cfg.Reports))

	return r
}
