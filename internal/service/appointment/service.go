package appointment

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// PatientDirectory is the slice of the patient service the scheduler needs.
// Lookups answer (nil, nil) when the directory has no match or is down.
type PatientDirectory interface {
	Get(ctx context.Context, id int64) (*model.Patient, error)
	SearchByEmail(ctx context.Context, email string) (*model.Patient, error)
	Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
}

// Service implements appointment scheduling. Bookings may come from
// patients without an account; the service finds or creates the directory
// entry through the patient service.
type Service struct {
	repo     repository.AppointmentRepository
	patients PatientDirectory
}

func NewService(repo repository.AppointmentRepository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// Book finds the patient by email, creates one when none exists, then
// schedules the appointment. Patient lookup or creation failure aborts the
// booking.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	when, err := model.ParseDateTime(req.AppointmentDate)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	patient, err := s.patients.SearchByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		dob := req.DateOfBirth
		if dob == "" {
			dob = "1990-01-01"
		}
		gender := req.Gender
		if gender == "" {
			gender = "Homme"
		}
		patient, err = s.patients.Create(ctx, &model.CreatePatientRequest{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       &req.Phone,
			DateOfBirth: dob,
			Gender:      gender,
		})
		if err != nil {
			log.Error().Err(err).Str("email", req.Email).Msg("patient creation failed during booking")
			return nil, apperr.Internal(err)
		}
		log.Info().Int64("patient_id", patient.ID).Msg("patient created during booking")
	}

	appt := &model.Appointment{
		PatientID:       patient.ID,
		DoctorName:      req.DoctorName,
		AppointmentDate: when,
		Duration:        req.Duration,
		Reason:          req.Reason,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// List runs the due-transition sweep first so clients never see a
// scheduled appointment whose date has already passed.
func (s *Service) List(ctx context.Context, f model.AppointmentFilters) ([]*model.Appointment, int, error) {
	if _, err := s.repo.CompleteDue(ctx, model.Now()); err != nil {
		log.Warn().Err(err).Msg("due appointment sweep failed")
	}

	appointments, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range appointments {
		s.enrich(ctx, a)
	}
	return appointments, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient, err := s.patients.Get(ctx, appt.PatientID); err == nil && patient != nil {
		appt.Patient = patient
	}
	return appt, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DoctorName != nil {
		appt.DoctorName = *req.DoctorName
	}
	if req.AppointmentDate != nil {
		when, err := model.ParseDateTime(*req.AppointmentDate)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		appt.AppointmentDate = when
	}
	if req.Duration != nil {
		appt.Duration = *req.Duration
	}
	if req.Status != nil {
		appt.Status = *req.Status
	}
	if req.Reason != nil {
		appt.Reason = req.Reason
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CompleteDue is the explicit maintenance trigger for the same sweep the
// listing runs implicitly.
func (s *Service) CompleteDue(ctx context.Context) (int, error) {
	return s.repo.CompleteDue(ctx, model.Now())
}

func (s *Service) Stats(ctx context.Context) (*model.AppointmentStats, error) {
	return s.repo.Stats(ctx)
}

// enrich attaches the compact patient block when the directory answers.
func (s *Service) enrich(ctx context.Context, a *model.Appointment) {
	patient, err := s.patients.Get(ctx, a.PatientID)
	if err != nil || patient == nil {
		return
	}
	a.Patient = &model.PatientRef{
		Name:  patient.FirstName + " " + patient.LastName,
		Email: patient.Email,
		Phone: patient.Phone,
	}
}
