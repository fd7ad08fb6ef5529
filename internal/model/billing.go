package model

import "math"

// Invoice statuses.
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// Invoice totals keep the French field names used across the front desk:
// montant_total is the full amount, remboursement the insurer refund and
// reste_a_payer what the patient still owes.
type Invoice struct {
	ID              int64    `db:"id" json:"id"`
	ConsultationID  int64    `db:"consultation_id" json:"consultation_id"`
	PatientID       int64    `db:"patient_id" json:"patient_id"`
	DoctorID        int64    `db:"doctor_id" json:"doctor_id"`
	MontantTotal    float64  `db:"montant_total" json:"montant_total"`
	Remboursement   float64  `db:"remboursement" json:"remboursement"`
	ResteAPayer     float64  `db:"reste_a_payer" json:"reste_a_payer"`
	ConsultationFee float64  `db:"consultation_fee" json:"consultation_fee"`
	MedicationCost  float64  `db:"medication_cost" json:"medication_cost"`
	AdditionalFees  float64  `db:"additional_fees" json:"additional_fees"`
	Status          string   `db:"status" json:"status"`
	PaymentMethod   *string  `db:"payment_method" json:"payment_method"`
	InvoiceDate     DateTime `db:"invoice_date" json:"invoice_date"`
	PaymentDate     DateTime `db:"payment_date" json:"payment_date"`
	DueDate         Date     `db:"due_date" json:"due_date"`
	CreatedAt       DateTime `db:"created_at" json:"created_at"`
	UpdatedAt       DateTime `db:"updated_at" json:"-"`
}

// Normalize rounds the monetary fields to cents after a load.
func (i *Invoice) Normalize() {
	i.MontantTotal = Round2(i.MontantTotal)
	i.Remboursement = Round2(i.Remboursement)
	i.ResteAPayer = Round2(i.ResteAPayer)
	i.ConsultationFee = Round2(i.ConsultationFee)
	i.MedicationCost = Round2(i.MedicationCost)
	i.AdditionalFees = Round2(i.AdditionalFees)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type CreateInvoiceRequest struct {
	ConsultationID *int64  `json:"consultation_id" binding:"required"`
	PatientID      *int64  `json:"patient_id" binding:"required"`
	DoctorID       *int64  `json:"doctor_id" binding:"required"`
	MedicationCost float64 `json:"medication_cost"`
	AdditionalFees float64 `json:"additional_fees"`
	Remboursement  float64 `json:"remboursement"`
	Status         string  `json:"status"`
	PaymentMethod  *string `json:"payment_method"`
	DueDate        string  `json:"due_date"`
}

type UpdateInvoiceRequest struct {
	Status        *string  `json:"status"`
	PaymentMethod *string  `json:"payment_method"`
	Remboursement *float64 `json:"remboursement"`
}

type InvoiceFilters struct {
	Status    string
	PatientID int64
	Page      int
	PerPage   int
}

type InvoiceStats struct {
	TotalInvoices int     `json:"total_invoices"`
	Pending       int     `json:"pending"`
	Paid          int     `json:"paid"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalPending  float64 `json:"total_pending"`
}

// BMIRecord is one body-mass-index measurement, weight in kg, height in cm.
type BMIRecord struct {
	ID             int64    `db:"id" json:"id"`
	PatientID      int64    `db:"patient_id" json:"patient_id"`
	ConsultationID *int64   `db:"consultation_id" json:"consultation_id"`
	Weight         float64  `db:"weight" json:"weight"`
	Height         float64  `db:"height" json:"height"`
	BMI            float64  `db:"bmi" json:"bmi"`
	Category       string   `db:"category" json:"category"`
	Notes          *string  `db:"notes" json:"notes"`
	RecordedBy     *string  `db:"recorded_by" json:"recorded_by"`
	CreatedAt      DateTime `db:"created_at" json:"created_at"`
}

type CalculateBMIRequest struct {
	Weight         float64 `json:"weight" binding:"required"`
	Height         float64 `json:"height" binding:"required"`
	PatientID      *int64  `json:"patient_id"`
	ConsultationID *int64  `json:"consultation_id"`
	Notes          *string `json:"notes"`
	RecordedBy     *string `json:"recorded_by"`
}

type BMIResult struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
	Height   float64 `json:"height"`
}
