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

// MigrateDoctors creates the doctor directory tables if they do not exist.
func MigrateDoctors(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS doctors (
			id %s,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			email VARCHAR(120) NOT NULL UNIQUE,
			phone VARCHAR(20) NOT NULL,
			specialization VARCHAR(100) NOT NULL,
			license_number VARCHAR(50) NOT NULL UNIQUE,
			years_of_experience INTEGER NOT NULL DEFAULT 0,
			education TEXT,
			languages VARCHAR(255),
			bio TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			consultation_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
			working_days VARCHAR(255),
			working_hours_start VARCHAR(5),
			working_hours_end VARCHAR(5),
			office_address TEXT,
			city VARCHAR(100),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, serialPK(db)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS specializations (
			id %s,
			name VARCHAR(100) NOT NULL UNIQUE,
			description TEXT
		)`, serialPK(db)),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate doctors schema: %w", err)
		}
	}
	return nil
}

type doctorStore struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorStore{db: db}
}

func (s *doctorStore) Create(ctx context.Context, d *model.Doctor) error {
	d.CreatedAt = model.Now()
	d.UpdatedAt = d.CreatedAt
	query := `INSERT INTO doctors (first_name, last_name, email, phone, specialization, license_number,
		years_of_experience, education, languages, bio, is_active, consultation_fee,
		working_days, working_hours_start, working_hours_end, office_address, city, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query,
		d.FirstName, d.LastName, d.Email, d.Phone, d.Specialization, d.LicenseNumber,
		d.YearsOfExperience, d.Education, d.Languages, d.Bio, d.IsActive, d.ConsultationFee,
		d.WorkingDays, d.WorkingHoursStart, d.WorkingHoursEnd, d.OfficeAddress, d.City,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	d.ID = id
	d.Normalize()
	return nil
}

func (s *doctorStore) GetByID(ctx context.Context, id int64) (*model.Doctor, error) {
	var d model.Doctor
	err := s.db.GetContext(ctx, &d, s.db.Rebind(`SELECT * FROM doctors WHERE id = ?`), id)
	if err != nil {
		return nil, getErr("doctor", err)
	}
	d.Normalize()
	return &d, nil
}

// GetByEmail returns (nil, nil) when no doctor matches.
func (s *doctorStore) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	var d model.Doctor
	err := s.db.GetContext(ctx, &d, s.db.Rebind(`SELECT * FROM doctors WHERE LOWER(email) = LOWER(?)`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	d.Normalize()
	return &d, nil
}

func (s *doctorStore) GetByLicense(ctx context.Context, license string) (*model.Doctor, error) {
	var d model.Doctor
	err := s.db.GetContext(ctx, &d, s.db.Rebind(`SELECT * FROM doctors WHERE license_number = ?`), license)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by license: %w", err)
	}
	d.Normalize()
	return &d, nil
}

func (s *doctorStore) List(ctx context.Context, f model.DoctorFilters) ([]*model.Doctor, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if f.Search != "" {
		where += " AND (LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR LOWER(specialization) LIKE LOWER(?))"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if f.Specialization != "" {
		where += " AND specialization = ?"
		args = append(args, f.Specialization)
	}
	if f.IsActive != nil {
		where += " AND is_active = ?"
		args = append(args, *f.IsActive)
	}
	if f.City != "" {
		where += " AND city = ?"
		args = append(args, f.City)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM doctors "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	limit, offset := pageClause(f.Page, f.PerPage)
	query := "SELECT * FROM doctors " + where + " ORDER BY last_name, first_name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var doctors []*model.Doctor
	if err := s.db.SelectContext(ctx, &doctors, s.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	for _, d := range doctors {
		d.Normalize()
	}
	return doctors, total, nil
}

// ListAvailable filters active doctors by working day and specialization. The
// day match runs on the comma-joined column, the same containment the
// directory has always used.
func (s *doctorStore) ListAvailable(ctx context.Context, day, specialization string) ([]*model.Doctor, error) {
	where := "WHERE is_active = ?"
	args := []interface{}{true}
	if specialization != "" {
		where += " AND specialization = ?"
		args = append(args, specialization)
	}
	if day != "" {
		where += " AND working_days LIKE ?"
		args = append(args, "%"+day+"%")
	}
	var doctors []*model.Doctor
	query := "SELECT * FROM doctors " + where + " ORDER BY last_name, first_name"
	if err := s.db.SelectContext(ctx, &doctors, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}
	for _, d := range doctors {
		d.Normalize()
	}
	return doctors, nil
}

func (s *doctorStore) Update(ctx context.Context, d *model.Doctor) error {
	d.UpdatedAt = model.Now()
	query := `UPDATE doctors SET first_name = ?, last_name = ?, email = ?, phone = ?,
		specialization = ?, years_of_experience = ?, education = ?, languages = ?, bio = ?,
		is_active = ?, consultation_fee = ?, working_days = ?, working_hours_start = ?,
		working_hours_end = ?, office_address = ?, city = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		d.FirstName, d.LastName, d.Email, d.Phone,
		d.Specialization, d.YearsOfExperience, d.Education, d.Languages, d.Bio,
		d.IsActive, d.ConsultationFee, d.WorkingDays, d.WorkingHoursStart,
		d.WorkingHoursEnd, d.OfficeAddress, d.City, d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	d.Normalize()
	return nil
}

func (s *doctorStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM doctors WHERE id = ?`), id)
	return err
}

func (s *doctorStore) ListSpecializations(ctx context.Context) ([]*model.Specialization, error) {
	var specs []*model.Specialization
	err := s.db.SelectContext(ctx, &specs, `SELECT * FROM specializations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list specializations: %w", err)
	}
	return specs, nil
}

func (s *doctorStore) GetSpecializationByName(ctx context.Context, name string) (*model.Specialization, error) {
	var spec model.Specialization
	err := s.db.GetContext(ctx, &spec, s.db.Rebind(`SELECT * FROM specializations WHERE name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialization: %w", err)
	}
	return &spec, nil
}

func (s *doctorStore) CreateSpecialization(ctx context.Context, sp *model.Specialization) error {
	id, err := insertID(ctx, s.db, `INSERT INTO specializations (name, description) VALUES (?, ?)`,
		sp.Name, sp.Description)
	if err != nil {
		return fmt.Errorf("failed to create specialization: %w", err)
	}
	sp.ID = id
	return nil
}

func (s *doctorStore) Stats(ctx context.Context) (*model.DoctorStats, error) {
	var stats model.DoctorStats
	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&stats.Total, `SELECT COUNT(*) FROM doctors`, nil},
		{&stats.Active, `SELECT COUNT(*) FROM doctors WHERE is_active = ?`, []interface{}{true}},
		{&stats.Inactive, `SELECT COUNT(*) FROM doctors WHERE is_active = ?`, []interface{}{false}},
		{&stats.NewThisMonth, `SELECT COUNT(*) FROM doctors WHERE created_at >= ?`, []interface{}{startOfMonth()}},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("failed to compute doctor stats: %w", err)
		}
	}

	err := s.db.SelectContext(ctx, &stats.BySpecialization,
		`SELECT specialization, COUNT(*) AS count FROM doctors GROUP BY specialization ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to group doctors by specialization: %w", err)
	}
	err = s.db.SelectContext(ctx, &stats.ByCity, s.db.Rebind(
		`SELECT city, COUNT(*) AS count FROM doctors WHERE city IS NOT NULL GROUP BY city ORDER BY count DESC LIMIT ?`), 5)
	if err != nil {
		return nil, fmt.Errorf("failed to group doctors by city: %w", err)
	}
	return &stats, nil
}
