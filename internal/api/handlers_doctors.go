package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mederp/practice-admin/internal/practice"
)

func listDoctorsHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListDoctors(r.Context())
		if err != nil {
			handlePracticeError(w, err)
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for i := range doctors {
			resp = append(resp, toDoctorResponse(&doctors[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getDoctorHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		doctor, err := svc.GetDoctor(r.Context(), id)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(doctor))
	}
}

func doctorFromRequest(w http.ResponseWriter, req DoctorRequest) (practice.Doctor, bool) {
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
		return practice.Doctor{}, false
	}

	return practice.Doctor{
		ClinicID:  clinicID,
		Name:      req.Name,
		Contact:   req.Contact,
		Specialty: req.Specialty,
	}, true
}

func createDoctorHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctor, ok := doctorFromRequest(w, req)
		if !ok {
			return
		}

		created, err := svc.CreateDoctor(r.Context(), doctor)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDoctorResponse(created))
	}
}

func updateDoctorHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req DoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctor, ok := doctorFromRequest(w, req)
		if !ok {
			return
		}
		doctor.ID = id

		updated, err := svc.UpdateDoctor(r.Context(), doctor)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(updated))
	}
}

func deleteDoctorHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteDoctor(r.Context(), id); err != nil {
			handlePracticeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
