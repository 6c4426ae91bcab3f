package report

import (
	"sort"
	"time"

	"github.com/mederp/practice-admin/internal/practice"
)

// topCountryLimit caps the country-by-month chart at 5 named countries plus
// "Other", no matter how many distinct countries the data holds.
const topCountryLimit = 5

// MonthBucket is one calendar month of the breakdown. Key sorts
// chronologically ("2006-01"); Label is the human form ("Jan 2006") and has
// no bearing on ordering. Counts carries a zero entry for every category
// discovered anywhere in the filtered set.
type MonthBucket struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts"`
}

// MonthKey derives the bucket key from the appointment's calendar date in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01")
}

// MonthLabel renders a bucket key for display.
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

// MonthlyByDisease buckets appointments into months keyed by disease name.
func MonthlyByDisease(appts []practice.Appointment, loc *time.Location) []MonthBucket {
	return monthlyBy(appts, loc, diseaseKey, nil)
}

// MonthlyByContinent buckets appointments into months keyed by continent.
func MonthlyByContinent(appts []practice.Appointment, loc *time.Location) []MonthBucket {
	return monthlyBy(appts, loc, continentKey, nil)
}

// MonthlyByCountry buckets appointments into months keyed by country, keeping
// the overall top 5 countries as individual categories and folding the rest,
// "Unknown" included, into "Other". The same top-5 set applies to every
// bucket, zero-filled for months where a kept country has no visits.
func MonthlyByCountry(appts []practice.Appointment, loc *time.Location) []MonthBucket {
	totals, order := countBy(appts, countryKey)

	// Rank by total descending; the stable sort keeps first-seen order on ties.
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i]] > totals[ranked[j]]
	})

	kept := ranked
	if len(kept) > topCountryLimit {
		kept = kept[:topCountryLimit]
	}
	top := make(map[string]bool, len(kept))
	for _, c := range kept {
		top[c] = true
	}

	categories := make([]string, 0, len(kept)+1)
	categories = append(categories, kept...)
	if len(ranked) > len(kept) {
		categories = append(categories, OtherLabel)
	}

	key := func(a practice.Appointment) string {
		c := countryKey(a)
		if top[c] {
			return c
		}
		return OtherLabel
	}

	return monthlyBy(appts, loc, key, categories)
}

// monthlyBy assigns each appointment to its calendar-month bucket. Buckets
// are emitted for months present in the data only, sorted by key; the
// fixed-width zero-padded key makes lexicographic order chronological. When
// categories is nil the category set is discovered from the data.
func monthlyBy(appts []practice.Appointment, loc *time.Location, key func(practice.Appointment) string, categories []string) []MonthBucket {
	if categories == nil {
		seen := make(map[string]bool, 8)
		for _, a := range appts {
			k := key(a)
			if !seen[k] {
				seen[k] = true
				categories = append(categories, k)
			}
		}
	}

	byMonth := make(map[string]map[string]int)
	var monthKeys []string
	for _, a := range appts {
		mk := MonthKey(a.StartAt, loc)
		bucket, ok := byMonth[mk]
		if !ok {
			bucket = make(map[string]int, len(categories))
			for _, c := range categories {
				bucket[c] = 0
			}
			byMonth[mk] = bucket
			monthKeys = append(monthKeys, mk)
		}
		bucket[key(a)]++
	}

	sort.Strings(monthKeys)

	result := make([]MonthBucket, 0, len(monthKeys))
	for _, mk := range monthKeys {
		result = append(result, MonthBucket{
			Key:    mk,
			Label:  MonthLabel(mk),
			Counts: byMonth[mk],
		})
	}
	return result
}
