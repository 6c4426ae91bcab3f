package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mederp/practice-admin/internal/practice"
)

// DayAppointment is one row of a day's listing. DiseaseName stays null when
// missing; the listing shows raw rows, only the charts collapse to "Unknown".
type DayAppointment struct {
	ID          uuid.UUID `json:"id"`
	StartAt     time.Time `json:"start_at"`
	DiseaseName *string   `json:"disease_name"`
	Status      string    `json:"status"`
}

// DayBucket is one calendar day of the clinic listing. Key sorts
// chronologically ("2006-01-02"); Label is the human form. Appointments are
// ordered by start time within the day.
type DayBucket struct {
	Key          string           `json:"key"`
	Label        string           `json:"label"`
	Appointments []DayAppointment `json:"appointments"`
}

// DayKey derives the bucket key from the appointment's calendar date in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// DayLabel renders a bucket key for display.
func DayLabel(key string) string {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return key
	}
	return t.Format("Mon, Jan 2, 2006")
}

// Daily groups appointments by calendar day for the per-clinic listing. Days
// present in the data only, sorted by key; like month keys, the fixed-width
// day key makes lexicographic order chronological.
func Daily(appts []practice.Appointment, loc *time.Location) []DayBucket {
	byDay := make(map[string][]DayAppointment)
	var dayKeys []string
	for _, a := range appts {
		dk := DayKey(a.StartAt, loc)
		if _, ok := byDay[dk]; !ok {
			dayKeys = append(dayKeys, dk)
		}
		byDay[dk] = append(byDay[dk], DayAppointment{
			ID:          a.ID,
			StartAt:     a.StartAt,
			DiseaseName: a.DiseaseName,
			Status:      string(a.Status),
		})
	}

	sort.Strings(dayKeys)

	result := make([]DayBucket, 0, len(dayKeys))
	for _, dk := range dayKeys {
		rows := byDay[dk]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].StartAt.Before(rows[j].StartAt)
		})
		result = append(result, DayBucket{
			Key:          dk,
			Label:        DayLabel(dk),
			Appointments: rows,
		})
	}
	return result
}
