package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mederp/practice-admin/internal/practice"
	redisclient "github.com/mederp/practice-admin/internal/redis"
)

// RecordSource is the slice of the practice repository the report service
// reads from. Records arrive already materialized; the engine never mutates
// them.
type RecordSource interface {
	ListAppointments(ctx context.Context, f practice.AppointmentFilter) ([]practice.Appointment, error)
	CountAppointments(ctx context.Context) (int64, error)
	CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountPatients(ctx context.Context) (int64, error)
}

// Params narrows a report to one clinic and an inclusive date range. Both are
// optional.
type Params struct {
	ClinicID *uuid.UUID
	Range    DateRange
}

type Report struct {
	Total              int             `json:"total"`
	ByStatus           []CategoryCount `json:"by_status"`
	ByDisease          []CategoryCount `json:"by_disease"`
	ByCountry          []CategoryCount `json:"by_country"`
	ByContinent        []CategoryCount `json:"by_continent"`
	MonthlyByDisease   []MonthBucket   `json:"monthly_by_disease"`
	MonthlyByContinent []MonthBucket   `json:"monthly_by_continent"`
	MonthlyByCountry   []MonthBucket   `json:"monthly_by_country"`

	// Daily is the per-day appointment listing. Populated only for
	// clinic-scoped reports; the all-clinics report keeps its cache payload
	// to aggregates.
	Daily []DayBucket `json:"daily,omitempty"`
}

type Overview struct {
	TotalAppointments     int64           `json:"total_appointments"`
	AppointmentsThisMonth int64           `json:"appointments_this_month"`
	TotalPatients         int64           `json:"total_patients"`
	ByStatus              []CategoryCount `json:"by_status"`
	ByDisease             []CategoryCount `json:"by_disease"`
}

type Service struct {
	source RecordSource
	cache  redisclient.Cache // nil disables caching
	loc    *time.Location
	now    func() time.Time
}

func NewService(source RecordSource, cache redisclient.Cache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		source: source,
		cache:  cache,
		loc:    loc,
		now:    time.Now,
	}
}

// Location exposes the report calendar so callers parse date params in the
// same timezone the bucketing uses.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Build derives every report view from an already-filtered record list. Pure
// and deterministic: same input, same output.
func Build(appts []practice.Appointment, loc *time.Location) *Report {
	return &Report{
		Total:              len(appts),
		ByStatus:           ByStatus(appts),
		ByDisease:          ByDisease(appts),
		ByCountry:          ByCountry(appts),
		ByContinent:        ByContinent(appts),
		MonthlyByDisease:   MonthlyByDisease(appts, loc),
		MonthlyByContinent: MonthlyByContinent(appts, loc),
		MonthlyByCountry:   MonthlyByCountry(appts, loc),
	}
}

// ClinicReport serves the filtered aggregation, from cache when possible.
func (s *Service) ClinicReport(ctx context.Context, p Params) (*Report, error) {
	key := reportCacheKey(p)

	var cached Report
	if s.readCached(ctx, key, &cached) {
		return &cached, nil
	}

	rep, err := s.computeReport(ctx, p)
	if err != nil {
		return nil, err
	}

	s.writeCached(ctx, key, rep)
	return rep, nil
}

func (s *Service) computeReport(ctx context.Context, p Params) (*Report, error) {
	appts, err := s.fetch(ctx, p.ClinicID)
	if err != nil {
		return nil, err
	}
	filtered := FilterByDate(appts, p.Range, s.loc)
	rep := Build(filtered, s.loc)
	if p.ClinicID != nil {
		rep.Daily = Daily(filtered, s.loc)
	}
	return rep, nil
}

// Overview serves the dashboard numbers, from cache when possible.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	const key = "overview"

	var cached Overview
	if s.readCached(ctx, key, &cached) {
		return &cached, nil
	}

	ov, err := s.computeOverview(ctx)
	if err != nil {
		return nil, err
	}

	s.writeCached(ctx, key, ov)
	return ov, nil
}

func (s *Service) computeOverview(ctx context.Context) (*Overview, error) {
	total, err := s.source.CountAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}

	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	thisMonth, err := s.source.CountAppointmentsBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, fmt.Errorf("count appointments this month: %w", err)
	}

	patients, err := s.source.CountPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}

	appts, err := s.fetch(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalAppointments:     total,
		AppointmentsThisMonth: thisMonth,
		TotalPatients:         patients,
		ByStatus:              ByStatus(appts),
		ByDisease:             ByDisease(appts),
	}, nil
}

// ExportCSV returns the download filename and body for the filtered set.
// Exports always read the store directly; only chart payloads are cached.
func (s *Service) ExportCSV(ctx context.Context, p Params) (string, []byte, error) {
	appts, err := s.fetch(ctx, p.ClinicID)
	if err != nil {
		return "", nil, err
	}
	filtered := FilterByDate(appts, p.Range, s.loc)

	filename, data := ExportCSV(filtered, p.Range)
	return filename, data, nil
}

// Warm recomputes the unfiltered report and overview and stores both, so the
// first dashboard hit after an idle period is served from cache.
func (s *Service) Warm(ctx context.Context) error {
	rep, err := s.computeReport(ctx, Params{})
	if err != nil {
		return fmt.Errorf("warm report: %w", err)
	}
	s.writeCached(ctx, reportCacheKey(Params{}), rep)

	ov, err := s.computeOverview(ctx)
	if err != nil {
		return fmt.Errorf("warm overview: %w", err)
	}
	s.writeCached(ctx, "overview", ov)

	return nil
}

func (s *Service) fetch(ctx context.Context, clinicID *uuid.UUID) ([]practice.Appointment, error) {
	appts, err := s.source.ListAppointments(ctx, practice.AppointmentFilter{ClinicID: clinicID})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// readCached returns true when v was populated from the cache. Cache failures
// only cost a recomputation.
func (s *Service) readCached(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}

	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			log.Printf("report cache read failed for %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(payload, v); err != nil {
		log.Printf("corrupt cached report for %s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) writeCached(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshal report for cache %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		log.Printf("report cache write failed for %s: %v", key, err)
	}
}

func reportCacheKey(p Params) string {
	clinic := "all"
	if p.ClinicID != nil {
		clinic = p.ClinicID.String()
	}
	return fmt.Sprintf("clinic:%s:%s:%s", clinic, boundToken(p.Range.From), boundToken(p.Range.To))
}
