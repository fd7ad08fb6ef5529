package prescription

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/client"
	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// PatientDirectory is the patient lookup the register depends on.
type PatientDirectory interface {
	Get(ctx context.Context, id int64) (*model.Patient, error)
}

// MedicineInventory is the slice of the inventory service the register
// depends on.
type MedicineInventory interface {
	Get(ctx context.Context, id int64) (*model.Medicine, error)
	GetStock(ctx context.Context, id int64) (*client.Stock, error)
}

// Service implements the prescription register. Patient and medicine
// existence are verified through the peer services before anything is
// written; stock levels are only advisory.
type Service struct {
	repo      repository.PrescriptionRepository
	patients  PatientDirectory
	medicines MedicineInventory
}

func NewService(repo repository.PrescriptionRepository, patients PatientDirectory, medicines MedicineInventory) *Service {
	return &Service{repo: repo, patients: patients, medicines: medicines}
}

// Create validates the patient and every medicine against the peer
// services, then writes the prescription and its lines in one transaction.
func (s *Service) Create(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if len(req.Medications) == 0 {
		return nil, apperr.Validation("at least one medication is required")
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperr.NotFound("patient")
	}

	validityDays := req.ValidityDays
	if validityDays <= 0 {
		validityDays = 30
	}

	prescription := &model.Prescription{
		PatientID:  req.PatientID,
		DoctorName: req.DoctorName,
		Diagnosis:  req.Diagnosis,
		Notes:      req.Notes,
		ValidUntil: model.NewDateTime(time.Now().UTC().AddDate(0, 0, validityDays)),
		Status:     model.PrescriptionActive,
	}

	for _, line := range req.Medications {
		medicine, err := s.medicines.Get(ctx, line.MedicineID)
		if err != nil {
			return nil, err
		}
		if medicine == nil {
			return nil, apperr.NotFound("medicine")
		}

		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		if stock, err := s.medicines.GetStock(ctx, line.MedicineID); err == nil {
			if stock == nil || stock.Quantity < quantity {
				log.Warn().Str("medicine", medicine.Name).Int("requested", quantity).
					Msg("insufficient stock for prescribed medicine")
			}
		}

		prescription.Medications = append(prescription.Medications, &model.PrescriptionMedication{
			MedicineID:   line.MedicineID,
			MedicineName: medicine.Name,
			Dosage:       line.Dosage,
			Frequency:    line.Frequency,
			Duration:     line.Duration,
			Instructions: line.Instructions,
			Quantity:     quantity,
		})
	}

	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, err
	}
	return prescription, nil
}

func (s *Service) List(ctx context.Context, f model.PrescriptionFilters) ([]*model.Prescription, int, error) {
	prescriptions, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range prescriptions {
		s.enrichPatient(ctx, p)
	}
	return prescriptions, total, nil
}

// Get returns the prescription with patient enrichment and full medicine
// details on every line, when the peers answer.
func (s *Service) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.enrichPatient(ctx, p)
	for _, line := range p.Medications {
		if medicine, err := s.medicines.Get(ctx, line.MedicineID); err == nil && medicine != nil {
			line.MedicineDetails = medicine
		}
	}
	return p, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.Prescription, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// CheckExpiry lists active prescriptions whose validity ends within seven
// days, with patient enrichment.
func (s *Service) CheckExpiry(ctx context.Context) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListExpiring(ctx, 7)
	if err != nil {
		return nil, err
	}
	for _, p := range prescriptions {
		s.enrichPatient(ctx, p)
	}
	return prescriptions, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DoctorName != nil {
		p.DoctorName = *req.DoctorName
	}
	if req.Diagnosis != nil {
		p.Diagnosis = *req.Diagnosis
	}
	if req.Notes != nil {
		p.Notes = req.Notes
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.ValidUntil != nil {
		validUntil, err := model.ParseDateTime(*req.ValidUntil)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		p.ValidUntil = validUntil
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddMedication appends a line to an existing prescription; the medicine
// must exist and its display name is cached on the line.
func (s *Service) AddMedication(ctx context.Context, prescriptionID int64, req *model.MedicationRequest) (*model.PrescriptionMedication, error) {
	if _, err := s.repo.GetByID(ctx, prescriptionID); err != nil {
		return nil, err
	}
	medicine, err := s.medicines.Get(ctx, req.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperr.NotFound("medicine")
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	line := &model.PrescriptionMedication{
		PrescriptionID: prescriptionID,
		MedicineID:     req.MedicineID,
		MedicineName:   medicine.Name,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
		Instructions:   req.Instructions,
		Quantity:       quantity,
	}
	if err := s.repo.AddMedication(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) DeleteMedication(ctx context.Context, medicationID int64) error {
	return s.repo.DeleteMedication(ctx, medicationID)
}

func (s *Service) Stats(ctx context.Context) (*model.PrescriptionStats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) enrichPatient(ctx context.Context, p *model.Prescription) {
	patient, err := s.patients.Get(ctx, p.PatientID)
	if err != nil || patient == nil {
		return
	}
	p.Patient = &model.PatientRef{
		Name:  patient.FirstName + " " + patient.LastName,
		Email: patient.Email,
	}
}
