package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mederp/practice-admin/internal/report"
)

const dateLayout = "2006-01-02"

// parseReportParams reads clinic_id, date_from and date_to query params.
// Dates are calendar dates interpreted in the report calendar, so range
// boundaries land on the same midnight the bucketing uses.
func parseReportParams(w http.ResponseWriter, r *http.Request, loc *time.Location) (report.Params, bool) {
	var p report.Params
	q := r.URL.Query()

	if v := q.Get("clinic_id"); v != "" {
		clinicID, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
			return report.Params{}, false
		}
		p.ClinicID = &clinicID
	}
	if v := q.Get("date_from"); v != "" {
		from, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_from", "date_from must be YYYY-MM-DD")
			return report.Params{}, false
		}
		p.Range.From = from
	}
	if v := q.Get("date_to"); v != "" {
		to, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_to", "date_to must be YYYY-MM-DD")
			return report.Params{}, false
		}
		p.Range.To = to
	}

	return p, true
}

func overviewHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ov, err := svc.Overview(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ov)
	}
}

func appointmentReportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := parseReportParams(w, r, svc.Location())
		if !ok {
			return
		}

		rep, err := svc.ClinicReport(r.Context(), params)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func exportReportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := parseReportParams(w, r, svc.Location())
		if !ok {
			return
		}

		filename, data, err := svc.ExportCSV(r.Context(), params)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			return
		}
	}
}
