package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mederp/practice-admin/internal/practice"
)

func listPatientsHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListPatients(r.Context())
		if err != nil {
			handlePracticeError(w, err)
			return
		}

		resp := make([]PatientResponse, 0, len(patients))
		for i := range patients {
			resp = append(resp, toPatientResponse(&patients[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getPatientHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		patient, err := svc.GetPatient(r.Context(), id)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(patient))
	}
}

func patientFromRequest(w http.ResponseWriter, req PatientRequest) (practice.Patient, bool) {
	p := practice.Patient{
		Name:      req.Name,
		Contact:   req.Contact,
		MedicalID: req.MedicalID,
	}

	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_of_birth", "date_of_birth must be YYYY-MM-DD")
			return practice.Patient{}, false
		}
		p.DateOfBirth = &dob
	}

	return p, true
}

func createPatientHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patient, ok := patientFromRequest(w, req)
		if !ok {
			return
		}

		created, err := svc.CreatePatient(r.Context(), patient)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(created))
	}
}

func updatePatientHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patient, ok := patientFromRequest(w, req)
		if !ok {
			return
		}
		patient.ID = id

		updated, err := svc.UpdatePatient(r.Context(), patient)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(updated))
	}
}

func deletePatientHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		if err := svc.DeletePatient(r.Context(), id); err != nil {
			handlePracticeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
