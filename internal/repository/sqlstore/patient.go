package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
)

// MigratePatients creates the patient table if it does not exist.
func MigratePatients(ctx context.Context, db *sqlx.DB) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS patients (
		id %s,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(120) NOT NULL UNIQUE,
		phone VARCHAR(20) NOT NULL,
		date_of_birth DATE NOT NULL,
		gender VARCHAR(10) NOT NULL,
		address TEXT,
		blood_group VARCHAR(5),
		allergies TEXT,
		medical_history TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`, serialPK(db))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to migrate patients schema: %w", err)
	}
	return nil
}

type patientStore struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientStore{db: db}
}

func (s *patientStore) Create(ctx context.Context, p *model.Patient) error {
	p.CreatedAt = model.Now()
	p.UpdatedAt = p.CreatedAt
	query := `INSERT INTO patients (first_name, last_name, email, phone, date_of_birth, gender, address, blood_group, allergies, medical_history, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query,
		p.FirstName, p.LastName, p.Email, p.Phone, p.DateOfBirth, p.Gender,
		p.Address, p.BloodGroup, p.Allergies, p.MedicalHistory, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	p.ID = id
	return nil
}

func (s *patientStore) GetByID(ctx context.Context, id int64) (*model.Patient, error) {
	var p model.Patient
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT * FROM patients WHERE id = ?`), id)
	if err != nil {
		return nil, getErr("patient", err)
	}
	return &p, nil
}

// GetByEmail returns (nil, nil) when no patient matches.
func (s *patientStore) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	var p model.Patient
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT * FROM patients WHERE LOWER(email) = LOWER(?)`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &p, nil
}

func (s *patientStore) List(ctx context.Context, f model.PatientFilters) ([]*model.Patient, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if f.Search != "" {
		where += " AND (LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR phone LIKE ?)"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM patients "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	limit, offset := pageClause(f.Page, f.PerPage)
	query := "SELECT * FROM patients " + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var patients []*model.Patient
	if err := s.db.SelectContext(ctx, &patients, s.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}

func (s *patientStore) Update(ctx context.Context, p *model.Patient) error {
	p.UpdatedAt = model.Now()
	query := `UPDATE patients SET first_name = ?, last_name = ?, email = ?, phone = ?,
		date_of_birth = ?, gender = ?, address = ?, blood_group = ?, allergies = ?,
		medical_history = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		p.FirstName, p.LastName, p.Email, p.Phone, p.DateOfBirth, p.Gender,
		p.Address, p.BloodGroup, p.Allergies, p.MedicalHistory, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (s *patientStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM patients WHERE id = ?`), id)
	return err
}

func (s *patientStore) Stats(ctx context.Context) (*model.PatientStats, error) {
	var stats model.PatientStats
	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&stats.Total, `SELECT COUNT(*) FROM patients`, nil},
		{&stats.Male, `SELECT COUNT(*) FROM patients WHERE gender = ?`, []interface{}{"Homme"}},
		{&stats.Female, `SELECT COUNT(*) FROM patients WHERE gender = ?`, []interface{}{"Femme"}},
		{&stats.NewThisMonth, `SELECT COUNT(*) FROM patients WHERE created_at >= ?`, []interface{}{startOfMonth()}},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("failed to compute patient stats: %w", err)
		}
	}
	return &stats, nil
}
