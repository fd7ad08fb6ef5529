package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
)

// MigrateAppointments creates the appointment table if it does not exist.
func MigrateAppointments(ctx context.Context, db *sqlx.DB) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS appointments (
		id %s,
		patient_id BIGINT NOT NULL,
		doctor_name VARCHAR(100) NOT NULL,
		appointment_date TIMESTAMP NOT NULL,
		duration INTEGER NOT NULL DEFAULT 30,
		status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
		reason TEXT,
		notes TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`, serialPK(db))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to migrate appointments schema: %w", err)
	}
	return nil
}

type appointmentStore struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentStore{db: db}
}

func (s *appointmentStore) Create(ctx context.Context, a *model.Appointment) error {
	a.CreatedAt = model.Now()
	a.UpdatedAt = a.CreatedAt
	if a.Status == "" {
		a.Status = model.AppointmentScheduled
	}
	if a.Duration == 0 {
		a.Duration = 30
	}
	query := `INSERT INTO appointments (patient_id, doctor_name, appointment_date, duration, status, reason, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query,
		a.PatientID, a.DoctorName, a.AppointmentDate, a.Duration, a.Status,
		a.Reason, a.Notes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	a.ID = id
	return nil
}

func (s *appointmentStore) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	var a model.Appointment
	err := s.db.GetContext(ctx, &a, s.db.Rebind(`SELECT * FROM appointments WHERE id = ?`), id)
	if err != nil {
		return nil, getErr("appointment", err)
	}
	return &a, nil
}

func (s *appointmentStore) List(ctx context.Context, f model.AppointmentFilters) ([]*model.Appointment, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.Date != "" {
		day, err := model.ParseDate(f.Date)
		if err != nil {
			return nil, 0, err
		}
		where += " AND appointment_date >= ? AND appointment_date < ?"
		args = append(args, day.Time, day.AddDate(0, 0, 1))
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM appointments "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	limit, offset := pageClause(f.Page, f.PerPage)
	query := "SELECT * FROM appointments " + where + " ORDER BY appointment_date DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var appointments []*model.Appointment
	if err := s.db.SelectContext(ctx, &appointments, s.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (s *appointmentStore) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	query := `SELECT * FROM appointments WHERE patient_id = ? ORDER BY appointment_date DESC`
	if err := s.db.SelectContext(ctx, &appointments, s.db.Rebind(query), patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (s *appointmentStore) Update(ctx context.Context, a *model.Appointment) error {
	a.UpdatedAt = model.Now()
	query := `UPDATE appointments SET doctor_name = ?, appointment_date = ?, duration = ?,
		status = ?, reason = ?, notes = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		a.DoctorName, a.AppointmentDate, a.Duration, a.Status, a.Reason, a.Notes, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (s *appointmentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM appointments WHERE id = ?`), id)
	return err
}

// CompleteDue marks every scheduled appointment whose date is in the past as
// completed. The update is idempotent so it can run on every listing.
func (s *appointmentStore) CompleteDue(ctx context.Context, now model.DateTime) (int, error) {
	query := `UPDATE appointments SET status = ?, updated_at = ? WHERE status = ? AND appointment_date < ?`
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		model.AppointmentCompleted, model.Now(), model.AppointmentScheduled, now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete due appointments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count completed appointments: %w", err)
	}
	return int(n), nil
}

func (s *appointmentStore) Stats(ctx context.Context) (*model.AppointmentStats, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	weekLater := today.AddDate(0, 0, 7)

	var stats model.AppointmentStats
	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&stats.Total, `SELECT COUNT(*) FROM appointments`, nil},
		{&stats.Today, `SELECT COUNT(*) FROM appointments WHERE appointment_date >= ? AND appointment_date < ?`, []interface{}{today, tomorrow}},
		{&stats.ThisWeek, `SELECT COUNT(*) FROM appointments WHERE appointment_date >= ? AND appointment_date < ?`, []interface{}{today, weekLater}},
		{&stats.Completed, `SELECT COUNT(*) FROM appointments WHERE status = ?`, []interface{}{model.AppointmentCompleted}},
		{&stats.Cancelled, `SELECT COUNT(*) FROM appointments WHERE status = ?`, []interface{}{model.AppointmentCancelled}},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("failed to compute appointment stats: %w", err)
		}
	}
	return &stats, nil
}
