package adapters

import (
	"context"

	enquiriessvc "garage_crm_backend/internal/enquiries/service"
	jobssvc "garage_crm_backend/internal/jobs/service"

	"github.com/google/uuid"
)

// JobWriter lets the enquiries module create the job an enquiry converts to.
type JobWriter struct {
	jobs *jobssvc.Service
}

func NewJobWriter(jobs *jobssvc.Service) *JobWriter {
	return &JobWriter{jobs: jobs}
}

func (a *JobWriter) CreateJob(ctx context.Context, in enquiriessvc.NewJobParams) (uuid.UUID, error) {
	return a.jobs.CreateFromEnquiry(ctx, jobssvc.NewJobFromEnquiry{
		EnquiryID:     in.EnquiryID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		VehicleReg:    in.VehicleReg,
		VehicleMake:   in.VehicleMake,
		VehicleModel:  in.VehicleModel,
		WorkRequired:  in.WorkRequired,
	})
}
