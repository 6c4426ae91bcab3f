package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/mederp/practice-admin/internal/practice"
)

// csvColumns is the fixed export column order.
var csvColumns = []string{
	"start_at",
	"disease_name",
	"virality_rate",
	"patient_age_at_visit",
	"avg_monthly_city_temp",
	"country",
	"continent",
	"status",
}

// ExportCSV serializes the filtered (not bucketed) rows. Missing fields
// become empty cells, not "Unknown": the download keeps raw nulls visible
// while the on-screen aggregation collapses them. Values are joined with
// commas and not quoted.
func ExportCSV(appts []practice.Appointment, r DateRange) (filename string, data []byte) {
	lines := make([]string, 0, len(appts)+1)
	lines = append(lines, strings.Join(csvColumns, ","))

	for _, a := range appts {
		fields := []string{
			a.StartAt.Format(time.RFC3339),
			strOrEmpty(a.DiseaseName),
			floatOrEmpty(a.ViralityRate),
			intOrEmpty(a.PatientAgeAtVisit),
			floatOrEmpty(a.AvgMonthlyCityTemp),
			strOrEmpty(a.Country),
			strOrEmpty(a.Continent),
			string(a.Status),
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return exportFilename(r), []byte(strings.Join(lines, "\n"))
}

// exportFilename encodes the active bounds, or "all" for an unset bound.
func exportFilename(r DateRange) string {
	return "mederp-report-" + boundToken(r.From) + "-" + boundToken(r.To) + ".csv"
}

func boundToken(t time.Time) string {
	if t.IsZero() {
		return "all"
	}
	return t.Format("2006-01-02")
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
