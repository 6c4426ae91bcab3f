package report

import (
	"sort"
	"time"

	"github.com/mederp/practice-admin/internal/practice"
)

// UnknownLabel is the sentinel every missing categorical field collapses to,
// so category totals always add up to the filtered record count.
const UnknownLabel = "Unknown"

// OtherLabel is the synthetic category the non-top countries fold into.
const OtherLabel = "Other"

type CategoryCount struct {
	Label string `json:"name"`
	Count int    `json:"value"`
}

// DateRange is an inclusive calendar-date range. A zero time means the bound
// is unset.
type DateRange struct {
	From time.Time
	To   time.Time
}

// FilterByDate keeps appointments whose start falls between From at
// 00:00:00.000 and To at 23:59:59.999 in loc, both inclusive. Without bounds
// the input passes through untouched. From after To is simply an empty range.
func FilterByDate(appts []practice.Appointment, r DateRange, loc *time.Location) []practice.Appointment {
	if r.From.IsZero() && r.To.IsZero() {
		return appts
	}

	var lower, upper time.Time
	if !r.From.IsZero() {
		y, m, d := r.From.In(loc).Date()
		lower = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	if !r.To.IsZero() {
		y, m, d := r.To.In(loc).Date()
		upper = time.Date(y, m, d, 23, 59, 59, 999_000_000, loc)
	}

	kept := make([]practice.Appointment, 0, len(appts))
	for _, a := range appts {
		if !lower.IsZero() && a.StartAt.Before(lower) {
			continue
		}
		if !upper.IsZero() && a.StartAt.After(upper) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func diseaseKey(a practice.Appointment) string   { return orUnknown(a.DiseaseName) }
func countryKey(a practice.Appointment) string   { return orUnknown(a.Country) }
func continentKey(a practice.Appointment) string { return orUnknown(a.Continent) }

func statusKey(a practice.Appointment) string {
	if a.Status == "" {
		return UnknownLabel
	}
	return string(a.Status)
}

func orUnknown(v *string) string {
	if v == nil || *v == "" {
		return UnknownLabel
	}
	return *v
}

// countBy tallies one categorical field, remembering first-seen order.
func countBy(appts []practice.Appointment, key func(practice.Appointment) string) (map[string]int, []string) {
	counts := make(map[string]int, 8)
	var order []string
	for _, a := range appts {
		k := key(a)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	return counts, order
}

func toCategories(counts map[string]int, order []string) []CategoryCount {
	result := make([]CategoryCount, 0, len(order))
	for _, k := range order {
		result = append(result, CategoryCount{Label: k, Count: counts[k]})
	}
	return result
}

// ByStatus counts appointments per status in the fixed enumeration order.
// Statuses outside the enumeration trail in first-seen order.
func ByStatus(appts []practice.Appointment) []CategoryCount {
	counts, seen := countBy(appts, statusKey)

	order := make([]string, 0, len(counts))
	known := make(map[string]bool, len(practice.StatusOrder))
	for _, s := range practice.StatusOrder {
		known[string(s)] = true
		if _, ok := counts[string(s)]; ok {
			order = append(order, string(s))
		}
	}
	for _, k := range seen {
		if !known[k] {
			order = append(order, k)
		}
	}

	return toCategories(counts, order)
}

// ByDisease counts appointments per disease name, alphabetically.
func ByDisease(appts []practice.Appointment) []CategoryCount {
	counts, order := countBy(appts, diseaseKey)
	sort.Strings(order)
	return toCategories(counts, order)
}

// ByContinent counts appointments per continent, alphabetically.
func ByContinent(appts []practice.Appointment) []CategoryCount {
	counts, order := countBy(appts, continentKey)
	sort.Strings(order)
	return toCategories(counts, order)
}

// ByCountry counts appointments per country in first-seen order.
func ByCountry(appts []practice.Appointment) []CategoryCount {
	counts, order := countBy(appts, countryKey)
	return toCategories(counts, order)
}
