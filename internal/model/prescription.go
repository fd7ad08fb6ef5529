package model

// Prescription statuses.
const (
	PrescriptionActive    = "active"
	PrescriptionExpired   = "expired"
	PrescriptionCancelled = "cancelled"
)

type Prescription struct {
	ID               int64    `db:"id" json:"id"`
	PatientID        int64    `db:"patient_id" json:"patient_id"`
	DoctorName       string   `db:"doctor_name" json:"doctor_name"`
	Diagnosis        string   `db:"diagnosis" json:"diagnosis"`
	Notes            *string  `db:"notes" json:"notes"`
	PrescriptionDate DateTime `db:"prescription_date" json:"prescription_date"`
	ValidUntil       DateTime `db:"valid_until" json:"valid_until"`
	Status           string   `db:"status" json:"status"`
	CreatedAt        DateTime `db:"created_at" json:"created_at"`
	UpdatedAt        DateTime `db:"updated_at" json:"updated_at"`

	Medications []*PrescriptionMedication `db:"-" json:"medications"`
	Patient     interface{}               `db:"-" json:"patient,omitempty"`
}

// PrescriptionMedication is one line of a prescription. MedicineName is a
// point-in-time cache of the inventory display name; it is never refreshed
// if the medicine is later renamed.
type PrescriptionMedication struct {
	ID              int64       `db:"id" json:"id"`
	PrescriptionID  int64       `db:"prescription_id" json:"-"`
	MedicineID      int64       `db:"medicine_id" json:"medicine_id"`
	MedicineName    string      `db:"medicine_name" json:"medicine_name"`
	Dosage          string      `db:"dosage" json:"dosage"`
	Frequency       string      `db:"frequency" json:"frequency"`
	Duration        string      `db:"duration" json:"duration"`
	Instructions    *string     `db:"instructions" json:"instructions"`
	Quantity        int         `db:"quantity" json:"quantity"`
	MedicineDetails interface{} `db:"-" json:"medicine_details,omitempty"`
}

type MedicationRequest struct {
	MedicineID   int64   `json:"medicine_id" binding:"required"`
	Dosage       string  `json:"dosage" binding:"required"`
	Frequency    string  `json:"frequency" binding:"required"`
	Duration     string  `json:"duration" binding:"required"`
	Instructions *string `json:"instructions"`
	Quantity     int     `json:"quantity"`
}

type CreatePrescriptionRequest struct {
	PatientID    int64               `json:"patient_id" binding:"required"`
	DoctorName   string              `json:"doctor_name" binding:"required"`
	Diagnosis    string              `json:"diagnosis" binding:"required"`
	Notes        *string             `json:"notes"`
	ValidityDays int                 `json:"validity_days"`
	Medications  []MedicationRequest `json:"medications" binding:"required"`
}

type UpdatePrescriptionRequest struct {
	DoctorName *string `json:"doctor_name"`
	Diagnosis  *string `json:"diagnosis"`
	Notes      *string `json:"notes"`
	Status     *string `json:"status"`
	ValidUntil *string `json:"valid_until"`
}

type PrescriptionFilters struct {
	Status    string
	PatientID int64
	Page      int
	PerPage   int
}

type MedicineCount struct {
	Name  string `db:"medicine_name" json:"name"`
	Count int    `db:"count" json:"count"`
}

type PrescriptionStats struct {
	Total          int             `json:"total"`
	Active         int             `json:"active"`
	Expired        int             `json:"expired"`
	ThisMonth      int             `json:"this_month"`
	MostPrescribed []MedicineCount `json:"most_prescribed"`
}
