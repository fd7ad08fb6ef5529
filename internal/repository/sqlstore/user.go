package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
)

// MigrateUsers creates the account tables if they do not exist.
func MigrateUsers(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username VARCHAR(80) NOT NULL UNIQUE,
			email VARCHAR(120) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, serialPK(db)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS login_history (
			id %s,
			user_id BIGINT NOT NULL,
			ip_address VARCHAR(45) NOT NULL,
			user_agent VARCHAR(255) NOT NULL,
			login_time TIMESTAMP NOT NULL,
			success BOOLEAN NOT NULL DEFAULT TRUE
		)`, serialPK(db)),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate users schema: %w", err)
		}
	}
	return nil
}

type userStore struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userStore{db: db}
}

func (s *userStore) Create(ctx context.Context, u *model.User) error {
	u.CreatedAt = model.Now()
	u.UpdatedAt = u.CreatedAt
	query := `INSERT INTO users (username, email, password_hash, first_name, last_name, role, is_active, last_login, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Role, u.IsActive, u.LastLogin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = id
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, getErr("user", err)
	}
	return &u, nil
}

// GetByUsername returns (nil, nil) when no account matches, so callers can
// distinguish absence from a real failure.
func (s *userStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (s *userStore) List(ctx context.Context, f model.UserFilters) ([]*model.User, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if f.Search != "" {
		where += " AND (LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?))"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if f.Role != "" {
		where += " AND role = ?"
		args = append(args, f.Role)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM users "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	limit, offset := pageClause(f.Page, f.PerPage)
	query := "SELECT * FROM users " + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var users []*model.User
	if err := s.db.SelectContext(ctx, &users, s.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *userStore) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = model.Now()
	query := `UPDATE users SET email = ?, password_hash = ?, first_name = ?, last_name = ?,
		role = ?, is_active = ?, last_login = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Role, u.IsActive, u.LastLogin, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	return err
}

func (s *userStore) RecordLogin(ctx context.Context, h *model.LoginHistory) error {
	if h.LoginTime.IsZero() {
		h.LoginTime = model.Now()
	}
	query := `INSERT INTO login_history (user_id, ip_address, user_agent, login_time, success)
		VALUES (?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query, h.UserID, h.IPAddress, h.UserAgent, h.LoginTime, h.Success)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	h.ID = id
	return nil
}

func (s *userStore) ListLoginHistory(ctx context.Context, userID int64, limit int) ([]*model.LoginHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT * FROM login_history WHERE user_id = ? ORDER BY login_time DESC LIMIT ?`
	var history []*model.LoginHistory
	err := s.db.SelectContext(ctx, &history, s.db.Rebind(query), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login history: %w", err)
	}
	return history, nil
}

func (s *userStore) Stats(ctx context.Context) (*model.UserStats, error) {
	var stats model.UserStats
	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&stats.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{&stats.ActiveUsers, `SELECT COUNT(*) FROM users WHERE is_active = ?`, []interface{}{true}},
		{&stats.Admins, `SELECT COUNT(*) FROM users WHERE role = ?`, []interface{}{model.RoleAdmin}},
		{&stats.Doctors, `SELECT COUNT(*) FROM users WHERE role = ?`, []interface{}{model.RoleDoctor}},
		{&stats.NewThisMonth, `SELECT COUNT(*) FROM users WHERE created_at >= ?`, []interface{}{startOfMonth()}},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("failed to compute user stats: %w", err)
		}
	}
	return &stats, nil
}

func startOfMonth() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
