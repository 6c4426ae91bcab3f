package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mederp/practice-admin/internal/practice"
)

func strptr(s string) *string { return &s }

func appt(start time.Time, status practice.AppointmentStatus, disease, country, continent *string) practice.Appointment {
	return practice.Appointment{
		StartAt:     start,
		Status:      status,
		DiseaseName: disease,
		Country:     country,
		Continent:   continent,
	}
}

func sumCounts(cats []CategoryCount) int {
	total := 0
	for _, c := range cats {
		total += c.Count
	}
	return total
}

func TestFilterByDate(t *testing.T) {
	loc := time.UTC
	day := func(d int, hour, min, sec, ms int) practice.Appointment {
		return appt(time.Date(2025, 3, d, hour, min, sec, ms*1_000_000, loc), practice.StatusScheduled, nil, nil, nil)
	}

	appts := []practice.Appointment{
		day(9, 23, 59, 59, 999),  // just before the range
		day(10, 0, 0, 0, 0),      // first instant inside
		day(15, 12, 30, 0, 0),    // middle
		day(20, 23, 59, 59, 999), // last instant inside
		day(21, 0, 0, 0, 0),      // just after the range
	}

	t.Run("inclusive bounds", func(t *testing.T) {
		r := DateRange{
			From: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
			To:   time.Date(2025, 3, 20, 0, 0, 0, 0, loc),
		}
		kept := FilterByDate(appts, r, loc)
		require.Len(t, kept, 3)
		assert.Equal(t, appts[1].StartAt, kept[0].StartAt)
		assert.Equal(t, appts[3].StartAt, kept[2].StartAt)
	})

	t.Run("no bounds passes through", func(t *testing.T) {
		kept := FilterByDate(appts, DateRange{}, loc)
		assert.Len(t, kept, len(appts))
	})

	t.Run("from only", func(t *testing.T) {
		r := DateRange{From: time.Date(2025, 3, 15, 0, 0, 0, 0, loc)}
		kept := FilterByDate(appts, r, loc)
		assert.Len(t, kept, 3)
	})

	t.Run("to only", func(t *testing.T) {
		r := DateRange{To: time.Date(2025, 3, 9, 0, 0, 0, 0, loc)}
		kept := FilterByDate(appts, r, loc)
		assert.Len(t, kept, 1)
	})

	t.Run("inverted range is empty, not an error", func(t *testing.T) {
		r := DateRange{
			From: time.Date(2025, 3, 20, 0, 0, 0, 0, loc),
			To:   time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		}
		kept := FilterByDate(appts, r, loc)
		assert.Empty(t, kept)
	})

	t.Run("time of day on the bound values is ignored", func(t *testing.T) {
		// Bounds arrive as calendar dates; a stray time component must not
		// shrink the window.
		r := DateRange{
			From: time.Date(2025, 3, 10, 18, 45, 0, 0, loc),
			To:   time.Date(2025, 3, 20, 3, 0, 0, 0, loc),
		}
		kept := FilterByDate(appts, r, loc)
		assert.Len(t, kept, 3)
	})
}

func TestByStatus(t *testing.T) {
	now := time.Now()
	appts := []practice.Appointment{
		appt(now, practice.StatusNoShow, nil, nil, nil),
		appt(now, practice.StatusCompleted, nil, nil, nil),
		appt(now, practice.StatusScheduled, nil, nil, nil),
		appt(now, practice.StatusCompleted, nil, nil, nil),
	}

	got := ByStatus(appts)

	require.Equal(t, []CategoryCount{
		{Label: "scheduled", Count: 1},
		{Label: "completed", Count: 2},
		{Label: "no_show", Count: 1},
	}, got)
	assert.Equal(t, len(appts), sumCounts(got))
}

func TestByStatusEmptyInput(t *testing.T) {
	assert.Empty(t, ByStatus(nil))
	assert.Empty(t, ByDisease(nil))
	assert.Empty(t, ByCountry(nil))
	assert.Empty(t, ByContinent(nil))
}

func TestByDiseaseCollapsesMissingToUnknown(t *testing.T) {
	now := time.Now()
	appts := []practice.Appointment{
		appt(now, practice.StatusCompleted, nil, nil, nil),
		appt(now, practice.StatusCompleted, strptr(""), nil, nil),
		appt(now, practice.StatusCompleted, strptr("COVID"), nil, nil),
	}

	got := ByDisease(appts)

	// nil and empty string land in the same bucket, alphabetical order.
	require.Equal(t, []CategoryCount{
		{Label: "COVID", Count: 1},
		{Label: UnknownLabel, Count: 2},
	}, got)
	assert.Equal(t, len(appts), sumCounts(got))
}

func TestByDiseaseAlphabetical(t *testing.T) {
	now := time.Now()
	appts := []practice.Appointment{
		appt(now, practice.StatusCompleted, strptr("Zika"), nil, nil),
		appt(now, practice.StatusCompleted, strptr("Dengue"), nil, nil),
		appt(now, practice.StatusCompleted, strptr("Influenza"), nil, nil),
		appt(now, practice.StatusCompleted, strptr("Dengue"), nil, nil),
	}

	got := ByDisease(appts)
	require.Len(t, got, 3)
	assert.Equal(t, "Dengue", got[0].Label)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "Influenza", got[1].Label)
	assert.Equal(t, "Zika", got[2].Label)
}

func TestByCountryFirstSeenOrder(t *testing.T) {
	now := time.Now()
	appts := []practice.Appointment{
		appt(now, practice.StatusCompleted, nil, strptr("Vietnam"), nil),
		appt(now, practice.StatusCompleted, nil, strptr("Brazil"), nil),
		appt(now, practice.StatusCompleted, nil, strptr("Vietnam"), nil),
		appt(now, practice.StatusCompleted, nil, nil, nil),
	}

	got := ByCountry(appts)

	require.Equal(t, []CategoryCount{
		{Label: "Vietnam", Count: 2},
		{Label: "Brazil", Count: 1},
		{Label: UnknownLabel, Count: 1},
	}, got)
}

func TestByContinentAlphabetical(t *testing.T) {
	now := time.Now()
	appts := []practice.Appointment{
		appt(now, practice.StatusCompleted, nil, nil, strptr("Oceania")),
		appt(now, practice.StatusCompleted, nil, nil, strptr("Africa")),
		appt(now, practice.StatusCompleted, nil, nil, strptr("Europe")),
	}

	got := ByContinent(appts)
	require.Len(t, got, 3)
	assert.Equal(t, "Africa", got[0].Label)
	assert.Equal(t, "Europe", got[1].Label)
	assert.Equal(t, "Oceania", got[2].Label)
}

func TestAggregationIsDeterministic(t *testing.T) {
	now := time.Now()
	appts := []practice.Appointment{
		appt(now, practice.StatusCompleted, strptr("COVID"), strptr("India"), strptr("Asia")),
		appt(now, practice.StatusScheduled, nil, strptr("Brazil"), strptr("South America")),
		appt(now, practice.StatusCancelled, strptr("Dengue"), nil, nil),
	}

	first := Build(appts, time.UTC)
	second := Build(appts, time.UTC)
	assert.Equal(t, first, second)
}
