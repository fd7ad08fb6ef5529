package billing

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// DefaultConsultationFee applies when the doctor directory does not answer
// or carries no fee for the doctor.
const DefaultConsultationFee = 50.0

// BMI category labels, kept in French as the front desk displays them.
const (
	CategoryUnderweight   = "Insuffisance pondérale"
	CategoryNormal        = "Poids normal"
	CategoryOverweight    = "Surpoids"
	CategoryObesityMod    = "Obésité modérée"
	CategoryObesitySevere = "Obésité sévère"
	CategoryObesityMorbid = "Obésité morbide"
)

// DoctorDirectory is the doctor lookup used to price consultations.
type DoctorDirectory interface {
	Get(ctx context.Context, id int64) (*model.Doctor, error)
}

// Service implements invoicing and BMI records.
type Service struct {
	repo    repository.BillingRepository
	doctors DoctorDirectory
}

func NewService(repo repository.BillingRepository, doctors DoctorDirectory) *Service {
	return &Service{repo: repo, doctors: doctors}
}

// CreateInvoice prices the consultation from the doctor directory, falling
// back to the default fee when the lookup fails.
func (s *Service) CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	fee := s.consultationFee(ctx, *req.DoctorID)

	total := fee + req.MedicationCost + req.AdditionalFees
	inv := &model.Invoice{
		ConsultationID:  *req.ConsultationID,
		PatientID:       *req.PatientID,
		DoctorID:        *req.DoctorID,
		ConsultationFee: fee,
		MedicationCost:  req.MedicationCost,
		AdditionalFees:  req.AdditionalFees,
		MontantTotal:    total,
		Remboursement:   req.Remboursement,
		ResteAPayer:     total - req.Remboursement,
		Status:          req.Status,
		PaymentMethod:   req.PaymentMethod,
	}
	if req.DueDate != "" {
		due, err := model.ParseDate(req.DueDate)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		inv.DueDate = due
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, f model.InvoiceFilters) ([]*model.Invoice, int, error) {
	return s.repo.ListInvoices(ctx, f)
}

// UpdateInvoice applies status, payment method and refund changes. Moving
// to paid stamps the payment date exactly once; later updates never touch
// it again.
func (s *Service) UpdateInvoice(ctx context.Context, id int64, req *model.UpdateInvoiceRequest) (*model.Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		inv.Status = *req.Status
		if *req.Status == model.InvoicePaid && inv.PaymentDate.IsZero() {
			inv.PaymentDate = model.Now()
		}
	}
	if req.PaymentMethod != nil {
		inv.PaymentMethod = req.PaymentMethod
	}
	if req.Remboursement != nil {
		inv.Remboursement = *req.Remboursement
		inv.ResteAPayer = inv.MontantTotal - inv.Remboursement
	}

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	inv.Normalize()
	return inv, nil
}

func (s *Service) DeleteInvoice(ctx context.Context, id int64) error {
	if _, err := s.repo.GetInvoice(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteInvoice(ctx, id)
}

func (s *Service) InvoiceStats(ctx context.Context) (*model.InvoiceStats, error) {
	return s.repo.InvoiceStats(ctx)
}

// CalculateBMI computes the index and category, persisting a record only
// when a patient id is supplied.
func (s *Service) CalculateBMI(ctx context.Context, req *model.CalculateBMIRequest) (*model.BMIResult, error) {
	if req.Weight <= 0 || req.Height <= 0 {
		return nil, apperr.Validation("weight and height must be positive")
	}

	bmi, category := ComputeBMI(req.Weight, req.Height)
	if req.PatientID != nil {
		record := &model.BMIRecord{
			PatientID:      *req.PatientID,
			ConsultationID: req.ConsultationID,
			Weight:         req.Weight,
			Height:         req.Height,
			BMI:            bmi,
			Category:       category,
			Notes:          req.Notes,
			RecordedBy:     req.RecordedBy,
		}
		if err := s.repo.CreateBMIRecord(ctx, record); err != nil {
			return nil, err
		}
	}

	return &model.BMIResult{BMI: bmi, Category: category, Weight: req.Weight, Height: req.Height}, nil
}

func (s *Service) ListBMIRecords(ctx context.Context, patientID int64) ([]*model.BMIRecord, error) {
	return s.repo.ListBMIRecords(ctx, patientID)
}

func (s *Service) DeleteBMIRecord(ctx context.Context, id int64) error {
	return s.repo.DeleteBMIRecord(ctx, id)
}

// ComputeBMI returns the body-mass index (weight kg, height cm) rounded to
// two decimals, with its category.
func ComputeBMI(weight, height float64) (float64, string) {
	meters := height / 100
	bmi := model.Round2(weight / (meters * meters))

	var category string
	switch {
	case bmi < 18.5:
		category = CategoryUnderweight
	case bmi < 25:
		category = CategoryNormal
	case bmi < 30:
		category = CategoryOverweight
	case bmi < 35:
		category = CategoryObesityMod
	case bmi < 40:
		category = CategoryObesitySevere
	default:
		category = CategoryObesityMorbid
	}
	return bmi, category
}

func (s *Service) consultationFee(ctx context.Context, doctorID int64) float64 {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil || doctor == nil || doctor.ConsultationFee <= 0 {
		log.Debug().Int64("doctor_id", doctorID).Msg("using default consultation fee")
		return DefaultConsultationFee
	}
	return doctor.ConsultationFee
}
