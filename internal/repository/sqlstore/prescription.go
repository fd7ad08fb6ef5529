package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// MigratePrescriptions creates the prescription tables if they do not exist.
func MigratePrescriptions(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS prescriptions (
			id %s,
			patient_id BIGINT NOT NULL,
			doctor_name VARCHAR(100) NOT NULL,
			diagnosis TEXT NOT NULL,
			notes TEXT,
			prescription_date TIMESTAMP NOT NULL,
			valid_until TIMESTAMP NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, serialPK(db)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS prescription_medications (
			id %s,
			prescription_id BIGINT NOT NULL,
			medicine_id BIGINT NOT NULL,
			medicine_name VARCHAR(100) NOT NULL,
			dosage VARCHAR(100) NOT NULL,
			frequency VARCHAR(100) NOT NULL,
			duration VARCHAR(100) NOT NULL,
			instructions TEXT,
			quantity INTEGER NOT NULL DEFAULT 1
		)`, serialPK(db)),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate prescriptions schema: %w", err)
		}
	}
	return nil
}

type prescriptionStore struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionStore{db: db}
}

// Create writes the prescription header and every medication line in one
// transaction. Any failing line rolls back the whole prescription.
func (s *prescriptionStore) Create(ctx context.Context, p *model.Prescription) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin prescription transaction: %w", err)
	}
	defer tx.Rollback()

	p.CreatedAt = model.Now()
	p.UpdatedAt = p.CreatedAt
	if p.PrescriptionDate.IsZero() {
		p.PrescriptionDate = p.CreatedAt
	}
	if p.Status == "" {
		p.Status = model.PrescriptionActive
	}

	p.ID, err = insertID(ctx, tx, `INSERT INTO prescriptions (patient_id, doctor_name, diagnosis, notes, prescription_date, valid_until, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PatientID, p.DoctorName, p.Diagnosis, p.Notes, p.PrescriptionDate,
		p.ValidUntil, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}

	for _, m := range p.Medications {
		m.PrescriptionID = p.ID
		m.ID, err = insertID(ctx, tx, `INSERT INTO prescription_medications (prescription_id, medicine_id, medicine_name, dosage, frequency, duration, instructions, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.PrescriptionID, m.MedicineID, m.MedicineName, m.Dosage, m.Frequency,
			m.Duration, m.Instructions, m.Quantity)
		if err != nil {
			return fmt.Errorf("failed to add prescription medication: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prescription: %w", err)
	}
	return nil
}

func (s *prescriptionStore) GetByID(ctx context.Context, id int64) (*model.Prescription, error) {
	var p model.Prescription
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT * FROM prescriptions WHERE id = ?`), id)
	if err != nil {
		return nil, getErr("prescription", err)
	}
	if err := s.loadMedications(ctx, []*model.Prescription{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *prescriptionStore) List(ctx context.Context, f model.PrescriptionFilters) ([]*model.Prescription, int, error) {
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
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM prescriptions "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	limit, offset := pageClause(f.Page, f.PerPage)
	query := "SELECT * FROM prescriptions " + where + " ORDER BY prescription_date DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var prescriptions []*model.Prescription
	if err := s.db.SelectContext(ctx, &prescriptions, s.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	if err := s.loadMedications(ctx, prescriptions); err != nil {
		return nil, 0, err
	}
	return prescriptions, total, nil
}

func (s *prescriptionStore) ListByPatient(ctx context.Context, patientID int64) ([]*model.Prescription, error) {
	var prescriptions []*model.Prescription
	query := `SELECT * FROM prescriptions WHERE patient_id = ? ORDER BY prescription_date DESC`
	if err := s.db.SelectContext(ctx, &prescriptions, s.db.Rebind(query), patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient prescriptions: %w", err)
	}
	if err := s.loadMedications(ctx, prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// ListExpiring returns active prescriptions whose validity ends within the
// given number of days.
func (s *prescriptionStore) ListExpiring(ctx context.Context, withinDays int) ([]*model.Prescription, error) {
	if withinDays <= 0 {
		withinDays = 7
	}
	now := time.Now().UTC()
	limit := now.AddDate(0, 0, withinDays)

	var prescriptions []*model.Prescription
	query := `SELECT * FROM prescriptions WHERE status = ? AND valid_until >= ? AND valid_until <= ? ORDER BY valid_until`
	if err := s.db.SelectContext(ctx, &prescriptions, s.db.Rebind(query), model.PrescriptionActive, now, limit); err != nil {
		return nil, fmt.Errorf("failed to list expiring prescriptions: %w", err)
	}
	if err := s.loadMedications(ctx, prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (s *prescriptionStore) Update(ctx context.Context, p *model.Prescription) error {
	p.UpdatedAt = model.Now()
	query := `UPDATE prescriptions SET doctor_name = ?, diagnosis = ?, notes = ?, status = ?, valid_until = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		p.DoctorName, p.Diagnosis, p.Notes, p.Status, p.ValidUntil, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return nil
}

func (s *prescriptionStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM prescription_medications WHERE prescription_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete prescription medications: %w", err)
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM prescriptions WHERE id = ?`), id)
	return err
}

func (s *prescriptionStore) AddMedication(ctx context.Context, m *model.PrescriptionMedication) error {
	id, err := insertID(ctx, s.db, `INSERT INTO prescription_medications (prescription_id, medicine_id, medicine_name, dosage, frequency, duration, instructions, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.PrescriptionID, m.MedicineID, m.MedicineName, m.Dosage, m.Frequency,
		m.Duration, m.Instructions, m.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add medication: %w", err)
	}
	m.ID = id
	return nil
}

func (s *prescriptionStore) DeleteMedication(ctx context.Context, medicationID int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM prescription_medications WHERE id = ?`), medicationID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("medication")
	}
	return nil
}

func (s *prescriptionStore) Stats(ctx context.Context) (*model.PrescriptionStats, error) {
	var stats model.PrescriptionStats
	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&stats.Total, `SELECT COUNT(*) FROM prescriptions`, nil},
		{&stats.Active, `SELECT COUNT(*) FROM prescriptions WHERE status = ?`, []interface{}{model.PrescriptionActive}},
		{&stats.Expired, `SELECT COUNT(*) FROM prescriptions WHERE status = ?`, []interface{}{model.PrescriptionExpired}},
		{&stats.ThisMonth, `SELECT COUNT(*) FROM prescriptions WHERE prescription_date >= ?`, []interface{}{startOfMonth()}},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("failed to compute prescription stats: %w", err)
		}
	}

	err := s.db.SelectContext(ctx, &stats.MostPrescribed, s.db.Rebind(
		`SELECT medicine_name, COUNT(*) AS count FROM prescription_medications GROUP BY medicine_name ORDER BY count DESC LIMIT ?`), 5)
	if err != nil {
		return nil, fmt.Errorf("failed to rank prescribed medicines: %w", err)
	}
	return &stats, nil
}

func (s *prescriptionStore) loadMedications(ctx context.Context, prescriptions []*model.Prescription) error {
	for _, p := range prescriptions {
		var meds []*model.PrescriptionMedication
		query := `SELECT * FROM prescription_medications WHERE prescription_id = ? ORDER BY id`
		if err := s.db.SelectContext(ctx, &meds, s.db.Rebind(query), p.ID); err != nil {
			return fmt.Errorf("failed to load prescription medications: %w", err)
		}
		if meds == nil {
			meds = []*model.PrescriptionMedication{}
		}
		p.Medications = meds
	}
	return nil
}
