package doctor

import (
	"context"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// Service implements the doctor directory.
type Service struct {
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("a doctor with this email already exists")
	}
	if existing, err := s.repo.GetByLicense(ctx, req.LicenseNumber); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("a doctor with this license number already exists")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	doctor := &model.Doctor{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Specialization:    req.Specialization,
		LicenseNumber:     req.LicenseNumber,
		YearsOfExperience: req.YearsOfExperience,
		Education:         req.Education,
		Languages:         req.Languages,
		Bio:               req.Bio,
		IsActive:          active,
		ConsultationFee:   req.ConsultationFee,
		WorkingDays:       req.WorkingDays,
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
		OfficeAddress:     req.OfficeAddress,
		City:              req.City,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f model.DoctorFilters) ([]*model.Doctor, int, error) {
	return s.repo.List(ctx, f)
}

// ListAvailable returns active doctors, optionally filtered by working day
// and specialization.
func (s *Service) ListAvailable(ctx context.Context, day, specialization string) ([]*model.Doctor, error) {
	doctors, err := s.repo.ListAvailable(ctx, day, specialization)
	if err != nil {
		return nil, err
	}
	if day == "" {
		return doctors, nil
	}
	// The store matches on the raw comma-joined column; re-check so that
	// "Lundi" does not also match a hypothetical "Lundi-matin".
	filtered := doctors[:0]
	for _, d := range doctors {
		if d.WorkingDays.Contains(day) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != doctor.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != id {
			return nil, apperr.Conflict("a doctor with this email already exists")
		}
		doctor.Email = *req.Email
	}
	if req.FirstName != nil {
		doctor.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		doctor.LastName = *req.LastName
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.YearsOfExperience != nil {
		doctor.YearsOfExperience = *req.YearsOfExperience
	}
	if req.Education != nil {
		doctor.Education = req.Education
	}
	if req.Languages != nil {
		doctor.Languages = *req.Languages
	}
	if req.Bio != nil {
		doctor.Bio = req.Bio
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.WorkingDays != nil {
		doctor.WorkingDays = *req.WorkingDays
	}
	if req.WorkingHoursStart != nil {
		doctor.WorkingHoursStart = *req.WorkingHoursStart
	}
	if req.WorkingHoursEnd != nil {
		doctor.WorkingHoursEnd = *req.WorkingHoursEnd
	}
	if req.OfficeAddress != nil {
		doctor.OfficeAddress = req.OfficeAddress
	}
	if req.City != nil {
		doctor.City = req.City
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// ToggleStatus flips the active flag and returns the updated doctor.
func (s *Service) ToggleStatus(ctx context.Context, id int64) (*model.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doctor.IsActive = !doctor.IsActive
	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListSpecializations(ctx context.Context) ([]*model.Specialization, error) {
	return s.repo.ListSpecializations(ctx)
}

func (s *Service) CreateSpecialization(ctx context.Context, req *model.CreateSpecializationRequest) (*model.Specialization, error) {
	if existing, err := s.repo.GetSpecializationByName(ctx, req.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("specialization already exists")
	}
	spec := &model.Specialization{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateSpecialization(ctx, spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *Service) Stats(ctx context.Context) (*model.DoctorStats, error) {
	return s.repo.Stats(ctx)
}

// EnsureDefaultSpecializations seeds the standard specialization list,
// skipping the ones already present.
func (s *Service) EnsureDefaultSpecializations(ctx context.Context) error {
	defaults := []model.Specialization{
		{Name: "Médecine Générale", Description: ptr("Médecin généraliste")},
		{Name: "Cardiologie", Description: ptr("Spécialiste du cœur et système cardiovasculaire")},
		{Name: "Pédiatrie", Description: ptr("Médecin pour enfants")},
		{Name: "Dermatologie", Description: ptr("Spécialiste de la peau")},
		{Name: "Neurologie", Description: ptr("Spécialiste du système nerveux")},
		{Name: "Orthopédie", Description: ptr("Spécialiste des os et articulations")},
		{Name: "Gynécologie", Description: ptr("Santé féminine")},
		{Name: "Ophtalmologie", Description: ptr("Spécialiste des yeux")},
		{Name: "ORL", Description: ptr("Oreilles, Nez, Gorge")},
		{Name: "Psychiatrie", Description: ptr("Santé mentale")},
	}
	for i := range defaults {
		existing, err := s.repo.GetSpecializationByName(ctx, defaults[i].Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.repo.CreateSpecialization(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func ptr(s string) *string { return &s }
