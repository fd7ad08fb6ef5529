package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
)

// MigrateBilling creates the invoice and BMI tables if they do not exist.
func MigrateBilling(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS invoices (
			id %s,
			consultation_id BIGINT NOT NULL,
			patient_id BIGINT NOT NULL,
			doctor_id BIGINT NOT NULL,
			montant_total DOUBLE PRECISION NOT NULL,
			remboursement DOUBLE PRECISION NOT NULL DEFAULT 0,
			reste_a_payer DOUBLE PRECISION NOT NULL,
			consultation_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
			medication_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			additional_fees DOUBLE PRECISION NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payment_method VARCHAR(50),
			invoice_date TIMESTAMP NOT NULL,
			payment_date TIMESTAMP,
			due_date DATE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, serialPK(db)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bmi_records (
			id %s,
			patient_id BIGINT NOT NULL,
			consultation_id BIGINT,
			weight DOUBLE PRECISION NOT NULL,
			height DOUBLE PRECISION NOT NULL,
			bmi DOUBLE PRECISION NOT NULL,
			category VARCHAR(50) NOT NULL,
			notes TEXT,
			recorded_by VARCHAR(100),
			created_at TIMESTAMP NOT NULL
		)`, serialPK(db)),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate billing schema: %w", err)
		}
	}
	return nil
}

type billingStore struct {
	db *sqlx.DB
}

func NewBillingRepository(db *sqlx.DB) repository.BillingRepository {
	return &billingStore{db: db}
}

func (s *billingStore) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	inv.CreatedAt = model.Now()
	inv.UpdatedAt = inv.CreatedAt
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = inv.CreatedAt
	}
	if inv.Status == "" {
		inv.Status = model.InvoicePending
	}
	query := `INSERT INTO invoices (consultation_id, patient_id, doctor_id, montant_total, remboursement,
		reste_a_payer, consultation_fee, medication_cost, additional_fees, status, payment_method,
		invoice_date, payment_date, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query,
		inv.ConsultationID, inv.PatientID, inv.DoctorID, inv.MontantTotal, inv.Remboursement,
		inv.ResteAPayer, inv.ConsultationFee, inv.MedicationCost, inv.AdditionalFees,
		inv.Status, inv.PaymentMethod, inv.InvoiceDate, inv.PaymentDate, inv.DueDate,
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	inv.ID = id
	inv.Normalize()
	return nil
}

func (s *billingStore) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	var inv model.Invoice
	err := s.db.GetContext(ctx, &inv, s.db.Rebind(`SELECT * FROM invoices WHERE id = ?`), id)
	if err != nil {
		return nil, getErr("invoice", err)
	}
	inv.Normalize()
	return &inv, nil
}

func (s *billingStore) ListInvoices(ctx context.Context, f model.InvoiceFilters) ([]*model.Invoice, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.PatientID != 0 {
		where += " AND patient_id = ?"
		args = append(args, f.PatientID)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM invoices "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	limit, offset := pageClause(f.Page, f.PerPage)
	query := "SELECT * FROM invoices " + where + " ORDER BY invoice_date DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var invoices []*model.Invoice
	if err := s.db.SelectContext(ctx, &invoices, s.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	for _, inv := range invoices {
		inv.Normalize()
	}
	return invoices, total, nil
}

func (s *billingStore) UpdateInvoice(ctx context.Context, inv *model.Invoice) error {
	inv.UpdatedAt = model.Now()
	query := `UPDATE invoices SET montant_total = ?, remboursement = ?, reste_a_payer = ?,
		status = ?, payment_method = ?, payment_date = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		inv.MontantTotal, inv.Remboursement, inv.ResteAPayer,
		inv.Status, inv.PaymentMethod, inv.PaymentDate, inv.UpdatedAt, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

func (s *billingStore) DeleteInvoice(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM invoices WHERE id = ?`), id)
	return err
}

func (s *billingStore) InvoiceStats(ctx context.Context) (*model.InvoiceStats, error) {
	var stats model.InvoiceStats
	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&stats.TotalInvoices, `SELECT COUNT(*) FROM invoices`, nil},
		{&stats.Pending, `SELECT COUNT(*) FROM invoices WHERE status = ?`, []interface{}{model.InvoicePending}},
		{&stats.Paid, `SELECT COUNT(*) FROM invoices WHERE status = ?`, []interface{}{model.InvoicePaid}},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("failed to compute invoice stats: %w", err)
		}
	}

	var revenue, outstanding sql.NullFloat64
	err := s.db.GetContext(ctx, &revenue, s.db.Rebind(`SELECT SUM(montant_total) FROM invoices WHERE status = ?`), model.InvoicePaid)
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}
	err = s.db.GetContext(ctx, &outstanding, s.db.Rebind(`SELECT SUM(reste_a_payer) FROM invoices WHERE status = ?`), model.InvoicePending)
	if err != nil {
		return nil, fmt.Errorf("failed to compute outstanding amount: %w", err)
	}
	stats.TotalRevenue = model.Round2(revenue.Float64)
	stats.TotalPending = model.Round2(outstanding.Float64)
	return &stats, nil
}

func (s *billingStore) CreateBMIRecord(ctx context.Context, r *model.BMIRecord) error {
	r.CreatedAt = model.Now()
	query := `INSERT INTO bmi_records (patient_id, consultation_id, weight, height, bmi, category, notes, recorded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query,
		r.PatientID, r.ConsultationID, r.Weight, r.Height, r.BMI, r.Category,
		r.Notes, r.RecordedBy, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bmi record: %w", err)
	}
	r.ID = id
	return nil
}

func (s *billingStore) ListBMIRecords(ctx context.Context, patientID int64) ([]*model.BMIRecord, error) {
	where := ""
	args := []interface{}{}
	if patientID != 0 {
		where = "WHERE patient_id = ?"
		args = append(args, patientID)
	}
	var records []*model.BMIRecord
	query := "SELECT * FROM bmi_records " + where + " ORDER BY created_at DESC"
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list bmi records: %w", err)
	}
	return records, nil
}

func (s *billingStore) DeleteBMIRecord(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bmi_records WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete bmi record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return getErr("bmi record", sql.ErrNoRows)
	}
	return nil
}
