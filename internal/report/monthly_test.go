package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mederp/practice-admin/internal/practice"
)

func TestMonthKeyAndLabel(t *testing.T) {
	loc := time.UTC
	key := MonthKey(time.Date(2025, 1, 15, 10, 0, 0, 0, loc), loc)
	assert.Equal(t, "2025-01", key)
	assert.Equal(t, "Jan 2025", MonthLabel(key))

	// Zero padding keeps lexicographic order chronological.
	assert.Less(t, MonthKey(time.Date(2025, 9, 1, 0, 0, 0, 0, loc), loc),
		MonthKey(time.Date(2025, 10, 1, 0, 0, 0, 0, loc), loc))

	// Malformed keys fall back to themselves.
	assert.Equal(t, "not-a-month", MonthLabel("not-a-month"))
}

func TestMonthKeyUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2025-01-31 23:00 UTC is already February in Tokyo.
	at := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01", MonthKey(at, time.UTC))
	assert.Equal(t, "2025-02", MonthKey(at, tokyo))
}

func TestMonthlyByDisease(t *testing.T) {
	loc := time.UTC
	jan := time.Date(2025, 1, 10, 9, 0, 0, 0, loc)
	mar := time.Date(2025, 3, 5, 14, 0, 0, 0, loc)

	appts := []practice.Appointment{
		appt(mar, practice.StatusCompleted, strptr("Dengue"), nil, nil),
		appt(jan, practice.StatusCompleted, strptr("COVID"), nil, nil),
		appt(jan, practice.StatusCompleted, strptr("COVID"), nil, nil),
		appt(jan, practice.StatusCompleted, nil, nil, nil),
	}

	buckets := MonthlyByDisease(appts, loc)

	// February has no data and is not fabricated; present months sort ascending.
	require.Len(t, buckets, 2)
	assert.Equal(t, "2025-01", buckets[0].Key)
	assert.Equal(t, "Jan 2025", buckets[0].Label)
	assert.Equal(t, "2025-03", buckets[1].Key)

	// Every discovered category appears in every bucket, zero-filled.
	require.Equal(t, map[string]int{
		"COVID": 2, UnknownLabel: 1, "Dengue": 0,
	}, buckets[0].Counts)
	require.Equal(t, map[string]int{
		"COVID": 0, UnknownLabel: 0, "Dengue": 1,
	}, buckets[1].Counts)
}

func TestMonthlyBucketsConserveTotal(t *testing.T) {
	loc := time.UTC
	var appts []practice.Appointment
	for i := 0; i < 40; i++ {
		start := time.Date(2025, time.Month(1+i%5), 1+i%27, i%24, 0, 0, 0, loc)
		var disease *string
		if i%4 != 0 {
			disease = strptr(fmt.Sprintf("disease-%d", i%3))
		}
		appts = append(appts, appt(start, practice.StatusCompleted, disease, nil, nil))
	}

	buckets := MonthlyByDisease(appts, loc)

	total := 0
	for _, b := range buckets {
		for _, n := range b.Counts {
			total += n
		}
	}
	assert.Equal(t, len(appts), total)
}

func TestMonthlyByCountryTopFivePlusOther(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)

	// Seven countries with totals 50,40,30,20,10,5,3.
	totals := []struct {
		country string
		count   int
	}{
		{"United States", 50},
		{"Brazil", 40},
		{"Germany", 30},
		{"India", 20},
		{"Kenya", 10},
		{"Japan", 5},
		{"Chile", 3},
	}

	var appts []practice.Appointment
	for _, tc := range totals {
		for i := 0; i < tc.count; i++ {
			appts = append(appts, appt(start, practice.StatusCompleted, nil, strptr(tc.country), nil))
		}
	}

	buckets := MonthlyByCountry(appts, loc)
	require.Len(t, buckets, 1)

	counts := buckets[0].Counts
	require.Len(t, counts, 6)
	assert.Equal(t, 50, counts["United States"])
	assert.Equal(t, 40, counts["Brazil"])
	assert.Equal(t, 30, counts["Germany"])
	assert.Equal(t, 20, counts["India"])
	assert.Equal(t, 10, counts["Kenya"])
	assert.Equal(t, 8, counts[OtherLabel]) // Japan 5 + Chile 3
	assert.NotContains(t, counts, "Japan")
	assert.NotContains(t, counts, "Chile")
}

func TestMonthlyByCountryNoOtherWhenFewCountries(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)

	appts := []practice.Appointment{
		appt(start, practice.StatusCompleted, nil, strptr("France"), nil),
		appt(start, practice.StatusCompleted, nil, strptr("Spain"), nil),
	}

	buckets := MonthlyByCountry(appts, loc)
	require.Len(t, buckets, 1)
	assert.NotContains(t, buckets[0].Counts, OtherLabel)
	assert.Len(t, buckets[0].Counts, 2)
}

func TestMonthlyByCountryUnknownCanRankAndCanFold(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)

	// Unknown (nil country) outranks most named countries here so it keeps
	// its own slice.
	var appts []practice.Appointment
	for i := 0; i < 9; i++ {
		appts = append(appts, appt(start, practice.StatusCompleted, nil, nil, nil))
	}
	for i, c := range []string{"A", "B", "C", "D", "E", "F"} {
		for j := 0; j <= i; j++ {
			appts = append(appts, appt(start, practice.StatusCompleted, nil, strptr(c), nil))
		}
	}

	buckets := MonthlyByCountry(appts, loc)
	require.Len(t, buckets, 1)
	counts := buckets[0].Counts

	assert.Equal(t, 9, counts[UnknownLabel])
	// Kept set: Unknown 9, F 6, E 5, D 4, C 3. A 1 + B 2 fold.
	assert.Equal(t, 3, counts[OtherLabel])
	assert.NotContains(t, counts, "A")
	assert.NotContains(t, counts, "B")
}

func TestMonthlyByCountryTieBreaksByFirstSeen(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, loc)

	// Six countries all tied at 1: the first five seen survive, the sixth
	// folds into Other.
	var appts []practice.Appointment
	for _, c := range []string{"C1", "C2", "C3", "C4", "C5", "C6"} {
		appts = append(appts, appt(start, practice.StatusCompleted, nil, strptr(c), nil))
	}

	buckets := MonthlyByCountry(appts, loc)
	require.Len(t, buckets, 1)
	counts := buckets[0].Counts

	for _, c := range []string{"C1", "C2", "C3", "C4", "C5"} {
		assert.Contains(t, counts, c)
	}
	assert.NotContains(t, counts, "C6")
	assert.Equal(t, 1, counts[OtherLabel])
}

func TestMonthlyByCountrySameCategorySetEveryMonth(t *testing.T) {
	loc := time.UTC
	jan := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)
	feb := time.Date(2025, 2, 15, 8, 0, 0, 0, loc)

	appts := []practice.Appointment{
		appt(jan, practice.StatusCompleted, nil, strptr("India"), nil),
		appt(feb, practice.StatusCompleted, nil, strptr("Japan"), nil),
	}

	buckets := MonthlyByCountry(appts, loc)
	require.Len(t, buckets, 2)

	// India never visits in February but still shows as zero there, and
	// vice versa.
	assert.Equal(t, map[string]int{"India": 1, "Japan": 0}, buckets[0].Counts)
	assert.Equal(t, map[string]int{"India": 0, "Japan": 1}, buckets[1].Counts)
}

func TestMonthlyEmptyInput(t *testing.T) {
	assert.Empty(t, MonthlyByDisease(nil, time.UTC))
	assert.Empty(t, MonthlyByContinent(nil, time.UTC))
	assert.Empty(t, MonthlyByCountry(nil, time.UTC))
}
