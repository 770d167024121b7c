package adapters

import (
	"context"
	"time"

	"garage_crm_backend/internal/calendar"
	jobssvc "garage_crm_backend/internal/jobs/service"
)

// JobScheduleReader exposes scheduled jobs to the calendar module.
type JobScheduleReader struct {
	jobs *jobssvc.Service
}

func NewJobScheduleReader(jobs *jobssvc.Service) *JobScheduleReader {
	return &JobScheduleReader{jobs: jobs}
}

func (a *JobScheduleReader) ScheduledJobs(ctx context.Context, start, end time.Time) ([]calendar.ScheduledJob, error) {
	jobs, err := a.jobs.ListScheduled(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]calendar.ScheduledJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, calendar.ScheduledJob{
			ID:            j.ID,
			CustomerName:  j.CustomerName,
			CustomerPhone: j.CustomerPhone,
			VehicleReg:    j.VehicleReg,
			WorkRequired:  j.WorkRequired,
			Status:        j.Status,
			ScheduledDate: j.ScheduledDate,
			ScheduledTime: j.ScheduledTime,
		})
	}
	return out, nil
}
