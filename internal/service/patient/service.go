package patient

import (
	"context"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// Service implements the patient directory.
type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	dob, err := model.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	if existing, err := s.repo.GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("a patient with this email already exists")
	}

	// The phone key must be present but may be empty.
	phone := ""
	if req.Phone != nil {
		phone = *req.Phone
	}

	patient := &model.Patient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          phone,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		Address:        req.Address,
		BloodGroup:     req.BloodGroup,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f model.PatientFilters) ([]*model.Patient, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != patient.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != id {
			return nil, apperr.Conflict("a patient with this email already exists")
		}
		patient.Email = *req.Email
	}
	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := model.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		patient.DateOfBirth = dob
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = req.BloodGroup
	}
	if req.Allergies != nil {
		patient.Allergies = req.Allergies
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = req.MedicalHistory
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*model.PatientStats, error) {
	return s.repo.Stats(ctx)
}
