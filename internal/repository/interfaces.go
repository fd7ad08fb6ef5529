package repository

import (
	"context"

	"github.com/clinichub/clinic-services/internal/model"
)

// UserRepository persists accounts and their login history.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, f model.UserFilters) ([]*model.User, int, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
	RecordLogin(ctx context.Context, h *model.LoginHistory) error
	ListLoginHistory(ctx context.Context, userID int64, limit int) ([]*model.LoginHistory, error)
	Stats(ctx context.Context) (*model.UserStats, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *model.Patient) error
	GetByID(ctx context.Context, id int64) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	List(ctx context.Context, f model.PatientFilters) ([]*model.Patient, int, error)
	Update(ctx context.Context, p *model.Patient) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*model.PatientStats, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *model.Doctor) error
	GetByID(ctx context.Context, id int64) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	GetByLicense(ctx context.Context, license string) (*model.Doctor, error)
	List(ctx context.Context, f model.DoctorFilters) ([]*model.Doctor, int, error)
	ListAvailable(ctx context.Context, day, specialization string) ([]*model.Doctor, error)
	Update(ctx context.Context, d *model.Doctor) error
	Delete(ctx context.Context, id int64) error
	ListSpecializations(ctx context.Context) ([]*model.Specialization, error)
	GetSpecializationByName(ctx context.Context, name string) (*model.Specialization, error)
	CreateSpecialization(ctx context.Context, s *model.Specialization) error
	Stats(ctx context.Context) (*model.DoctorStats, error)
}

type MedicineRepository interface {
	Create(ctx context.Context, m *model.Medicine) error
	GetByID(ctx context.Context, id int64) (*model.Medicine, error)
	GetByName(ctx context.Context, name string) (*model.Medicine, error)
	List(ctx context.Context, f model.MedicineFilters) ([]*model.Medicine, int, error)
	Update(ctx context.Context, m *model.Medicine) error
	Delete(ctx context.Context, id int64) error

	// RecordTransaction applies the quantity change and appends the ledger
	// entry in a single transaction. It returns the written entry.
	RecordTransaction(ctx context.Context, medicineID int64, txType string, qty int, notes *string, user *string) (*model.StockHistory, error)
	StockHistory(ctx context.Context, medicineID int64, page, perPage int) ([]*model.StockHistory, int, error)
	ListLowStock(ctx context.Context) ([]*model.Medicine, error)
	ListExpiring(ctx context.Context, withinDays int) ([]*model.Medicine, error)

	ListCategories(ctx context.Context) ([]*model.MedicineCategory, error)
	CreateCategory(ctx context.Context, c *model.MedicineCategory) error
	Stats(ctx context.Context) (*model.MedicineStats, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	List(ctx context.Context, f model.AppointmentFilters) ([]*model.Appointment, int, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	Delete(ctx context.Context, id int64) error

	// CompleteDue flips every scheduled appointment whose date has passed to
	// completed and returns how many rows changed.
	CompleteDue(ctx context.Context, now model.DateTime) (int, error)
	Stats(ctx context.Context) (*model.AppointmentStats, error)
}

type PrescriptionRepository interface {
	// Create inserts the prescription and all of its lines in one
	// transaction; a failing line rolls back everything.
	Create(ctx context.Context, p *model.Prescription) error
	GetByID(ctx context.Context, id int64) (*model.Prescription, error)
	List(ctx context.Context, f model.PrescriptionFilters) ([]*model.Prescription, int, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*model.Prescription, error)
	ListExpiring(ctx context.Context, withinDays int) ([]*model.Prescription, error)
	Update(ctx context.Context, p *model.Prescription) error
	Delete(ctx context.Context, id int64) error

	AddMedication(ctx context.Context, m *model.PrescriptionMedication) error
	DeleteMedication(ctx context.Context, medicationID int64) error
	Stats(ctx context.Context) (*model.PrescriptionStats, error)
}

type BillingRepository interface {
	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	GetInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context, f model.InvoiceFilters) ([]*model.Invoice, int, error)
	UpdateInvoice(ctx context.Context, inv *model.Invoice) error
	DeleteInvoice(ctx context.Context, id int64) error
	InvoiceStats(ctx context.Context) (*model.InvoiceStats, error)

	CreateBMIRecord(ctx context.Context, r *model.BMIRecord) error
	ListBMIRecords(ctx context.Context, patientID int64) ([]*model.BMIRecord, error)
	DeleteBMIRecord(ctx context.Context, id int64) error
}
