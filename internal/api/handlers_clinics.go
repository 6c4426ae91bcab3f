package api

import (
	"encoding/json"
	"net/http"

	"github.com/mederp/practice-admin/internal/practice"
)

func listClinicsHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinics, err := svc.ListClinics(r.Context())
		if err != nil {
			handlePracticeError(w, err)
			return
		}

		resp := make([]ClinicResponse, 0, len(clinics))
		for i := range clinics {
			resp = append(resp, toClinicResponse(&clinics[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getClinicHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		clinic, err := svc.GetClinic(r.Context(), id)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toClinicResponse(clinic))
	}
}

func clinicFromRequest(req ClinicRequest) practice.Clinic {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return practice.Clinic{
		Name:     req.Name,
		Address:  req.Address,
		Contact:  req.Contact,
		Timezone: req.Timezone,
		IsActive: active,
	}
}

func createClinicHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinic, err := svc.CreateClinic(r.Context(), clinicFromRequest(req))
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toClinicResponse(clinic))
	}
}

func updateClinicHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req ClinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinic := clinicFromRequest(req)
		clinic.ID = id

		updated, err := svc.UpdateClinic(r.Context(), clinic)
		if err != nil {
			handlePracticeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toClinicResponse(updated))
	}
}

func deleteClinicHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteClinic(r.Context(), id); err != nil {
			handlePracticeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
