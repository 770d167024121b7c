package calendar

import (
	"context"
	"sort"
	"time"

	"garage_crm_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ScheduledJob is the slice of a job the merged schedule needs.
type ScheduledJob struct {
	ID            uuid.UUID
	CustomerName  string
	CustomerPhone string
	VehicleReg    string
	WorkRequired  string
	Status        string
	ScheduledDate time.Time
	ScheduledTime string
}

// JobScheduleReader lists jobs scheduled inside a date range. Wired through
// an adapter to the jobs module.
type JobScheduleReader interface {
	ScheduledJobs(ctx context.Context, start, end time.Time) ([]ScheduledJob, error)
}

// Service provides calendar business logic.
type Service struct {
	repo *Repository
	jobs JobScheduleReader
}

// NewService creates a new calendar service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SetJobScheduleReader injects the scheduled jobs adapter.
func (s *Service) SetJobScheduleReader(r JobScheduleReader) {
	s.jobs = r
}

// Create inserts a new calendar event.
func (s *Service) Create(ctx context.Context, req CreateEventRequest) (*Event, error) {
	eventType := req.Type
	if eventType == "" {
		eventType = TypeAppointment
	}
	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	now := time.Now()
	event := Event{
		ID:            uuid.New(),
		Title:         req.Title,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Type:          eventType,
		CustomerName:  req.CustomerName,
		CustomerPhone: phone.NormalizeE164(req.CustomerPhone),
		VehicleReg:    req.VehicleReg,
		Location:      req.Location,
		Notes:         req.Notes,
		Priority:      priority,
		JobID:         req.JobID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetByID returns a single calendar event.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all calendar events.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// ListRange returns the events inside [start, end].
func (s *Service) ListRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	return s.repo.ListBetween(ctx, start, end)
}

// Update rewrites a calendar event.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*Event, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event := *existing
	event.Title = req.Title
	event.Date = req.Date
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	if req.Type != "" {
		event.Type = req.Type
	}
	event.CustomerName = req.CustomerName
	event.CustomerPhone = phone.NormalizeE164(req.CustomerPhone)
	event.VehicleReg = req.VehicleReg
	event.Location = req.Location
	event.Notes = req.Notes
	if req.Priority != "" {
		event.Priority = req.Priority
	}
	event.JobID = req.JobID

	if err := s.repo.Update(ctx, &event); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a calendar event.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Schedule returns the merged workshop schedule for [start, end]: stored
// calendar events plus jobs with a scheduled date, fetched concurrently.
// Jobs appear as type "job" entries not backed by an event row.
func (s *Service) Schedule(ctx context.Context, start, end time.Time) ([]ScheduleEntry, error) {
	var (
		events []Event
		jobs   []ScheduledJob
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.repo.ListBetween(gctx, start, end)
		return err
	})
	if s.jobs != nil {
		g.Go(func() error {
			var err error
			jobs, err = s.jobs.ScheduledJobs(gctx, start, end)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, 0, len(events)+len(jobs))
	for _, e := range events {
		entries = append(entries, ScheduleEntry{
			ID:            e.ID,
			Title:         e.Title,
			Date:          e.Date,
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
			Type:          e.Type,
			CustomerName:  e.CustomerName,
			CustomerPhone: e.CustomerPhone,
			VehicleReg:    e.VehicleReg,
			Location:      e.Location,
			Notes:         e.Notes,
			Priority:      e.Priority,
			JobID:         e.JobID,
		})
	}
	for _, j := range jobs {
		jobID := j.ID
		entries = append(entries, ScheduleEntry{
			ID:            j.ID,
			Title:         j.WorkRequired,
			Date:          j.ScheduledDate,
			StartTime:     j.ScheduledTime,
			Type:          TypeJob,
			CustomerName:  j.CustomerName,
			CustomerPhone: j.CustomerPhone,
			VehicleReg:    j.VehicleReg,
			JobID:         &jobID,
			JobStatus:     j.Status,
		})
	}

	sort.SliceStable(entries, func(i, k int) bool {
		if !entries[i].Date.Equal(entries[k].Date) {
			return entries[i].Date.Before(entries[k].Date)
		}
		return entries[i].StartTime < entries[k].StartTime
	})
	return entries, nil
}
