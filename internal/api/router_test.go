package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mederp/practice-admin/internal/practice"
	"github.com/mederp/practice-admin/internal/report"
)

// memRepo backs the handler tests with an in-memory store so the full
// router can be exercised without Postgres.
type memRepo struct {
	clinics  map[uuid.UUID]practice.Clinic
	doctors  map[uuid.UUID]practice.Doctor
	patients map[uuid.UUID]practice.Patient
	appts    []practice.Appointment
}

func newMemRepo() *memRepo {
	return &memRepo{
		clinics:  make(map[uuid.UUID]practice.Clinic),
		doctors:  make(map[uuid.UUID]practice.Doctor),
		patients: make(map[uuid.UUID]practice.Patient),
	}
}

func (m *memRepo) ListClinics(context.Context) ([]practice.Clinic, error) {
	out := make([]practice.Clinic, 0, len(m.clinics))
	for _, c := range m.clinics {
		out = append(out, c)
	}
	return out, nil
}

func (m *memRepo) GetClinicByID(_ context.Context, id uuid.UUID) (*practice.Clinic, error) {
	c, ok := m.clinics[id]
	if !ok {
		return nil, practice.ErrClinicNotFound
	}
	return &c, nil
}

func (m *memRepo) CreateClinic(_ context.Context, c practice.Clinic) (*practice.Clinic, error) {
	c.ID = uuid.New()
	m.clinics[c.ID] = c
	return &c, nil
}

func (m *memRepo) UpdateClinic(_ context.Context, c practice.Clinic) (*practice.Clinic, error) {
	if _, ok := m.clinics[c.ID]; !ok {
		return nil, practice.ErrClinicNotFound
	}
	m.clinics[c.ID] = c
	return &c, nil
}

func (m *memRepo) DeleteClinic(_ context.Context, id uuid.UUID) error {
	if _, ok := m.clinics[id]; !ok {
		return practice.ErrClinicNotFound
	}
	delete(m.clinics, id)
	return nil
}

func (m *memRepo) ListDoctors(context.Context) ([]practice.Doctor, error) {
	out := make([]practice.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (m *memRepo) GetDoctorByID(_ context.Context, id uuid.UUID) (*practice.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, practice.ErrDoctorNotFound
	}
	return &d, nil
}

func (m *memRepo) CreateDoctor(_ context.Context, d practice.Doctor) (*practice.Doctor, error) {
	d.ID = uuid.New()
	m.doctors[d.ID] = d
	return &d, nil
}

func (m *memRepo) UpdateDoctor(_ context.Context, d practice.Doctor) (*practice.Doctor, error) {
	if _, ok := m.doctors[d.ID]; !ok {
		return nil, practice.ErrDoctorNotFound
	}
	m.doctors[d.ID] = d
	return &d, nil
}

func (m *memRepo) DeleteDoctor(_ context.Context, id uuid.UUID) error {
	if _, ok := m.doctors[id]; !ok {
		return practice.ErrDoctorNotFound
	}
	delete(m.doctors, id)
	return nil
}

func (m *memRepo) ListPatients(context.Context) ([]practice.Patient, error) {
	out := make([]practice.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) GetPatientByID(_ context.Context, id uuid.UUID) (*practice.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, practice.ErrPatientNotFound
	}
	return &p, nil
}

func (m *memRepo) CreatePatient(_ context.Context, p practice.Patient) (*practice.Patient, error) {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return &p, nil
}

func (m *memRepo) UpdatePatient(_ context.Context, p practice.Patient) (*practice.Patient, error) {
	if _, ok := m.patients[p.ID]; !ok {
		return nil, practice.ErrPatientNotFound
	}
	m.patients[p.ID] = p
	return &p, nil
}

func (m *memRepo) DeletePatient(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return practice.ErrPatientNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *memRepo) ListAppointments(_ context.Context, f practice.AppointmentFilter) ([]practice.Appointment, error) {
	var out []practice.Appointment
	for _, a := range m.appts {
		if f.ClinicID != nil && a.ClinicID != *f.ClinicID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*practice.Appointment, error) {
	for i := range m.appts {
		if m.appts[i].ID == id {
			a := m.appts[i]
			return &a, nil
		}
	}
	return nil, practice.ErrAppointmentNotFound
}

func (m *memRepo) CreateAppointment(_ context.Context, a practice.Appointment) (*practice.Appointment, error) {
	a.ID = uuid.New()
	m.appts = append(m.appts, a)
	return &a, nil
}

func (m *memRepo) UpdateAppointment(_ context.Context, a practice.Appointment) (*practice.Appointment, error) {
	for i := range m.appts {
		if m.appts[i].ID == a.ID {
			m.appts[i] = a
			return &a, nil
		}
	}
	return nil, practice.ErrAppointmentNotFound
}

func (m *memRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	for i := range m.appts {
		if m.appts[i].ID == id {
			m.appts = append(m.appts[:i], m.appts[i+1:]...)
			return nil
		}
	}
	return practice.ErrAppointmentNotFound
}

func (m *memRepo) CountAppointments(context.Context) (int64, error) {
	return int64(len(m.appts)), nil
}

func (m *memRepo) CountAppointmentsBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, a := range m.appts {
		if !a.StartAt.Before(from) && a.StartAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) CountPatients(context.Context) (int64, error) {
	return int64(len(m.patients)), nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	router := NewRouter(RouterConfig{
		Practice: practice.NewService(repo, nil),
		Reports:  report.NewService(repo, nil, time.UTC),
		Env:      "test",
		Version:  "test",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, repo
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestLiveness(t *testing.T) {
	srv, _ := newTestServer(t)

	var got LivenessResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/health/live", nil, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "test", got.Env)
}

func TestClinicCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	var created ClinicResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/clinics",
		ClinicRequest{Name: "Hillview Clinic", Timezone: "Europe/Berlin"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEqual(t, uuid.Nil, created.ID)

	var fetched ClinicResponse
	resp = doJSON(t, http.MethodGet, srv.URL+"/clinics/"+created.ID.String(), nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hillview Clinic", fetched.Name)

	var updated ClinicResponse
	resp = doJSON(t, http.MethodPut, srv.URL+"/clinics/"+created.ID.String(),
		ClinicRequest{Name: "Hillview Medical", Timezone: "Europe/Berlin"}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hillview Medical", updated.Name)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/clinics/"+created.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var errResp ErrorResponse
	resp = doJSON(t, http.MethodGet, srv.URL+"/clinics/"+created.ID.String(), nil, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "clinic_not_found", errResp.Error)
}

func TestCreateClinicRequiresName(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp ErrorResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/clinics", ClinicRequest{}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name_required", errResp.Error)
}

func TestInvalidIDParam(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp ErrorResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/clinics/not-a-uuid", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_id", errResp.Error)
}

func seedPracticeEntities(t *testing.T, srv *httptest.Server) (clinic ClinicResponse, doctor DoctorResponse, patient PatientResponse) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, srv.URL+"/clinics", ClinicRequest{Name: "Riverside"}, &clinic)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/doctors",
		DoctorRequest{ClinicID: clinic.ID.String(), Name: "Dr. Okafor"}, &doctor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/patients", PatientRequest{Name: "Ana Silva"}, &patient)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return clinic, doctor, patient
}

func TestAppointmentLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	clinic, doctor, patient := seedPracticeEntities(t, srv)

	req := AppointmentRequest{
		ClinicID:        clinic.ID.String(),
		DoctorID:        doctor.ID.String(),
		PatientID:       patient.ID.String(),
		StartAt:         time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          "scheduled",
	}

	var created AppointmentResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", req, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req.Status = "completed"
	var updated AppointmentResponse
	resp = doJSON(t, http.MethodPut, srv.URL+"/appointments/"+created.ID.String(), req, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", updated.Status)

	var listed []AppointmentResponse
	resp = doJSON(t, http.MethodGet, srv.URL+"/appointments?clinic_id="+clinic.ID.String(), nil, &listed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed, 1)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/appointments/"+created.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateAppointmentRejectsBadStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	clinic, doctor, patient := seedPracticeEntities(t, srv)

	req := AppointmentRequest{
		ClinicID:        clinic.ID.String(),
		DoctorID:        doctor.ID.String(),
		PatientID:       patient.ID.String(),
		StartAt:         time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          "postponed",
	}

	var errResp ErrorResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", req, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_status", errResp.Error)
}

func TestListAppointmentsRejectsBadPaging(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp ErrorResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/appointments?limit=ten", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_limit", errResp.Error)

	resp = doJSON(t, http.MethodGet, srv.URL+"/appointments?offset=2.5", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_offset", errResp.Error)
}

func TestCreateDoctorUnknownClinic(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp ErrorResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/doctors",
		DoctorRequest{ClinicID: uuid.NewString(), Name: "Dr. Nobody"}, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "clinic_not_found", errResp.Error)
}

func seedReportData(repo *memRepo, clinicID uuid.UUID) {
	mk := func(start time.Time, status practice.AppointmentStatus, disease string) practice.Appointment {
		a := practice.Appointment{
			ID:       uuid.New(),
			ClinicID: clinicID,
			StartAt:  start,
			Status:   status,
		}
		if disease != "" {
			a.DiseaseName = &disease
		}
		return a
	}

	repo.appts = append(repo.appts,
		mk(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), practice.StatusCompleted, "COVID"),
		mk(time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC), practice.StatusScheduled, "COVID"),
		mk(time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC), practice.StatusCompleted, ""),
	)
}

func TestAppointmentReportEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	clinicID := uuid.New()
	seedReportData(repo, clinicID)

	var rep report.Report
	resp := doJSON(t, http.MethodGet,
		srv.URL+"/reports/appointments?date_from=2025-01-01&date_to=2025-01-31", nil, &rep)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, []report.CategoryCount{
		{Label: "scheduled", Count: 1},
		{Label: "completed", Count: 1},
	}, rep.ByStatus)
	require.Len(t, rep.MonthlyByDisease, 1)
	assert.Equal(t, "2025-01", rep.MonthlyByDisease[0].Key)
	assert.Equal(t, "Jan 2025", rep.MonthlyByDisease[0].Label)
}

func TestClinicScopedReportListsDays(t *testing.T) {
	srv, repo := newTestServer(t)
	clinicID := uuid.New()
	seedReportData(repo, clinicID)

	var rep report.Report
	resp := doJSON(t, http.MethodGet,
		srv.URL+"/reports/appointments?clinic_id="+clinicID.String(), nil, &rep)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, rep.Daily, 3)
	assert.Equal(t, "2025-01-10", rep.Daily[0].Key)
	assert.Equal(t, "Fri, Jan 10, 2025", rep.Daily[0].Label)
	require.Len(t, rep.Daily[0].Appointments, 1)
	assert.Equal(t, "completed", rep.Daily[0].Appointments[0].Status)

	// Unscoped report stays aggregate-only.
	var unscoped report.Report
	resp = doJSON(t, http.MethodGet, srv.URL+"/reports/appointments", nil, &unscoped)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, unscoped.Daily)
}

func TestReportEndpointBadParams(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp ErrorResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/reports/appointments?clinic_id=nope", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_clinic_id", errResp.Error)

	resp = doJSON(t, http.MethodGet, srv.URL+"/reports/appointments?date_from=01-2025", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_date_from", errResp.Error)
}

func TestReportEndpointInvertedRangeIsEmpty(t *testing.T) {
	srv, repo := newTestServer(t)
	seedReportData(repo, uuid.New())

	var rep report.Report
	resp := doJSON(t, http.MethodGet,
		srv.URL+"/reports/appointments?date_from=2025-03-01&date_to=2025-01-01", nil, &rep)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, rep.Total)
}

func TestOverviewEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	seedReportData(repo, uuid.New())

	var ov report.Overview
	resp := doJSON(t, http.MethodGet, srv.URL+"/reports/overview", nil, &ov)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), ov.TotalAppointments)
}

func TestExportEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	seedReportData(repo, uuid.New())

	resp, err := http.Get(srv.URL + "/reports/appointments/export?date_from=2025-01-01&date_to=2025-01-31")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="mederp-report-2025-01-01-2025-01-31.csv"`,
		resp.Header.Get("Content-Disposition"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "start_at,disease_name")
	assert.Contains(t, body, "2025-01-10T09:00:00Z,COVID")
	assert.NotContains(t, body, "2025-03-05")
}
