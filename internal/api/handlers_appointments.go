package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mederp/practice-admin/internal/practice"
)

func listAppointmentsHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter practice.AppointmentFilter

		if v := r.URL.Query().Get("clinic_id"); v != "" {
			clinicID, err := uuid.Parse(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
				return
			}
			filter.ClinicID = &clinicID
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
				return
			}
			filter.Limit = n
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
				return
			}
			filter.Offset = n
		}

		appts, err := svc.ListAppointments(r.Context(), filter)
		if err != nil {
			handlePracticeError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func appointmentFromRequest(w http.ResponseWriter, req AppointmentRequest) (practice.Appointment, bool) {
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
		return practice.Appointment{}, false
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
		return practice.Appointment{}, false
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
		return practice.Appointment{}, false
	}
	if req.StartAt.IsZero() {
		writeError(w, http.StatusBadRequest, "invalid_start_at", "start_at is required")
		return practice.Appointment{}, false
	}

	return practice.Appointment{
		ClinicID:           clinicID,
		DoctorID:           doctorID,
		PatientID:          patientID,
		StartAt:            req.StartAt,
		DurationMinutes:    req.DurationMinutes,
		Status:             practice.AppointmentStatus(req.Status),
		DiseaseName:        req.DiseaseName,
		ViralityRate:       req.ViralityRate,
		PatientAgeAtVisit:  req.PatientAgeAtVisit,
		AvgMonthlyCityTemp: req.AvgMonthlyCityTemp,
		Country:            req.Country,
		Continent:          req.Continent,
		TypeOrReason:       req.TypeOrReason,
		Notes:              req.Notes,
	}, true
}

func createAppointmentHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, ok := appointmentFromRequest(w, req)
		if !ok {
			return
		}

		created, err := svc.CreateAppointment(r.Context(), appt)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(created))
	}
}

func updateAppointmentHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, ok := appointmentFromRequest(w, req)
		if !ok {
			return
		}
		appt.ID = id

		updated, err := svc.UpdateAppointment(r.Context(), appt)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(updated))
	}
}

func deleteAppointmentHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteAppointment(r.Context(), id); err != nil {
			handlePracticeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
