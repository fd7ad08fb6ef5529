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
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// MigrateMedicines creates the inventory tables if they do not exist.
func MigrateMedicines(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS medicines (
			id %s,
			name VARCHAR(100) NOT NULL UNIQUE,
			generic_name VARCHAR(100),
			manufacturer VARCHAR(100),
			category VARCHAR(50) NOT NULL,
			description TEXT,
			dosage_form VARCHAR(50) NOT NULL,
			strength VARCHAR(50),
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			min_stock_level INTEGER NOT NULL DEFAULT 10,
			unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			requires_prescription BOOLEAN NOT NULL DEFAULT TRUE,
			controlled_substance BOOLEAN NOT NULL DEFAULT FALSE,
			expiry_date DATE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, serialPK(db)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS stock_history (
			id %s,
			medicine_id BIGINT NOT NULL,
			transaction_type VARCHAR(30) NOT NULL,
			quantity INTEGER NOT NULL,
			previous_quantity INTEGER NOT NULL,
			new_quantity INTEGER NOT NULL,
			notes TEXT,
			transaction_date TIMESTAMP NOT NULL,
			username VARCHAR(80)
		)`, serialPK(db)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS medicine_categories (
			id %s,
			name VARCHAR(50) NOT NULL UNIQUE,
			description TEXT
		)`, serialPK(db)),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate medicines schema: %w", err)
		}
	}
	return nil
}

type medicineStore struct {
	db *sqlx.DB
}

func NewMedicineRepository(db *sqlx.DB) repository.MedicineRepository {
	return &medicineStore{db: db}
}

func (s *medicineStore) Create(ctx context.Context, m *model.Medicine) error {
	m.CreatedAt = model.Now()
	m.UpdatedAt = m.CreatedAt
	query := `INSERT INTO medicines (name, generic_name, manufacturer, category, description, dosage_form,
		strength, stock_quantity, min_stock_level, unit_price, requires_prescription,
		controlled_substance, expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, s.db, query,
		m.Name, m.GenericName, m.Manufacturer, m.Category, m.Description, m.DosageForm,
		m.Strength, m.StockQuantity, m.MinStockLevel, m.UnitPrice, m.RequiresPrescription,
		m.ControlledSubstance, m.ExpiryDate, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	m.ID = id
	m.Normalize()
	return nil
}

func (s *medicineStore) GetByID(ctx context.Context, id int64) (*model.Medicine, error) {
	var m model.Medicine
	err := s.db.GetContext(ctx, &m, s.db.Rebind(`SELECT * FROM medicines WHERE id = ?`), id)
	if err != nil {
		return nil, getErr("medicine", err)
	}
	m.Normalize()
	return &m, nil
}

// GetByName returns (nil, nil) when no medicine matches.
func (s *medicineStore) GetByName(ctx context.Context, name string) (*model.Medicine, error) {
	var m model.Medicine
	err := s.db.GetContext(ctx, &m, s.db.Rebind(`SELECT * FROM medicines WHERE LOWER(name) = LOWER(?)`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medicine by name: %w", err)
	}
	m.Normalize()
	return &m, nil
}

func (s *medicineStore) List(ctx context.Context, f model.MedicineFilters) ([]*model.Medicine, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if f.Search != "" {
		where += " AND (LOWER(name) LIKE LOWER(?) OR LOWER(generic_name) LIKE LOWER(?) OR LOWER(manufacturer) LIKE LOWER(?))"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if f.Category != "" {
		where += " AND category = ?"
		args = append(args, f.Category)
	}
	switch f.StockStatus {
	case model.StockStatusOut:
		where += " AND stock_quantity = 0"
	case model.StockStatusLow:
		where += " AND stock_quantity > 0 AND stock_quantity <= min_stock_level"
	case model.StockStatusIn:
		where += " AND stock_quantity > min_stock_level"
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM medicines "+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	limit, offset := pageClause(f.Page, f.PerPage)
	query := "SELECT * FROM medicines " + where + " ORDER BY name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var medicines []*model.Medicine
	if err := s.db.SelectContext(ctx, &medicines, s.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list medicines: %w", err)
	}
	for _, m := range medicines {
		m.Normalize()
	}
	return medicines, total, nil
}

func (s *medicineStore) Update(ctx context.Context, m *model.Medicine) error {
	m.UpdatedAt = model.Now()
	query := `UPDATE medicines SET generic_name = ?, manufacturer = ?, category = ?, description = ?,
		dosage_form = ?, strength = ?, min_stock_level = ?, unit_price = ?,
		requires_prescription = ?, controlled_substance = ?, expiry_date = ?, updated_at = ?
		WHERE id = ?`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		m.GenericName, m.Manufacturer, m.Category, m.Description,
		m.DosageForm, m.Strength, m.MinStockLevel, m.UnitPrice,
		m.RequiresPrescription, m.ControlledSubstance, m.ExpiryDate, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	m.Normalize()
	return nil
}

func (s *medicineStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM stock_history WHERE medicine_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete stock history: %w", err)
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM medicines WHERE id = ?`), id)
	return err
}

// RecordTransaction applies the stock movement and appends the ledger entry
// atomically. Decrease types may take the quantity below zero; the ledger
// keeps the arithmetic honest either way.
func (s *medicineStore) RecordTransaction(ctx context.Context, medicineID int64, txType string, qty int, notes, user *string) (*model.StockHistory, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin stock transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.GetContext(ctx, &current, tx.Rebind(`SELECT stock_quantity FROM medicines WHERE id = ?`), medicineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("medicine")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stock quantity: %w", err)
	}

	delta := qty
	if !model.IsIncreaseTransaction(txType) {
		delta = -qty
	}
	entry := &model.StockHistory{
		MedicineID:       medicineID,
		TransactionType:  txType,
		Quantity:         qty,
		PreviousQuantity: current,
		NewQuantity:      current + delta,
		Notes:            notes,
		TransactionDate:  model.Now(),
		User:             user,
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE medicines SET stock_quantity = ?, updated_at = ? WHERE id = ?`),
		entry.NewQuantity, model.Now(), medicineID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply stock change: %w", err)
	}

	entry.ID, err = insertID(ctx, tx, `INSERT INTO stock_history (medicine_id, transaction_type, quantity, previous_quantity, new_quantity, notes, transaction_date, username)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.MedicineID, entry.TransactionType, entry.Quantity, entry.PreviousQuantity,
		entry.NewQuantity, entry.Notes, entry.TransactionDate, entry.User)
	if err != nil {
		return nil, fmt.Errorf("failed to append stock history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock transaction: %w", err)
	}
	return entry, nil
}

func (s *medicineStore) StockHistory(ctx context.Context, medicineID int64, page, perPage int) ([]*model.StockHistory, int, error) {
	var total int
	err := s.db.GetContext(ctx, &total, s.db.Rebind(`SELECT COUNT(*) FROM stock_history WHERE medicine_id = ?`), medicineID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stock history: %w", err)
	}

	if perPage <= 0 {
		perPage = 20
	}
	limit, offset := pageClause(page, perPage)
	var history []*model.StockHistory
	query := `SELECT * FROM stock_history WHERE medicine_id = ? ORDER BY transaction_date DESC, id DESC LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &history, s.db.Rebind(query), medicineID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list stock history: %w", err)
	}
	return history, total, nil
}

func (s *medicineStore) ListLowStock(ctx context.Context) ([]*model.Medicine, error) {
	var medicines []*model.Medicine
	err := s.db.SelectContext(ctx, &medicines,
		`SELECT * FROM medicines WHERE stock_quantity <= min_stock_level ORDER BY stock_quantity`)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock medicines: %w", err)
	}
	for _, m := range medicines {
		m.Normalize()
	}
	return medicines, nil
}

func (s *medicineStore) ListExpiring(ctx context.Context, withinDays int) ([]*model.Medicine, error) {
	if withinDays <= 0 {
		withinDays = 30
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	future := today.AddDate(0, 0, withinDays)

	var medicines []*model.Medicine
	query := `SELECT * FROM medicines WHERE expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ? ORDER BY expiry_date`
	if err := s.db.SelectContext(ctx, &medicines, s.db.Rebind(query), today, future); err != nil {
		return nil, fmt.Errorf("failed to list expiring medicines: %w", err)
	}
	for _, m := range medicines {
		m.Normalize()
	}
	return medicines, nil
}

func (s *medicineStore) ListCategories(ctx context.Context) ([]*model.MedicineCategory, error) {
	var categories []*model.MedicineCategory
	err := s.db.SelectContext(ctx, &categories, `SELECT * FROM medicine_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *medicineStore) CreateCategory(ctx context.Context, c *model.MedicineCategory) error {
	id, err := insertID(ctx, s.db, `INSERT INTO medicine_categories (name, description) VALUES (?, ?)`,
		c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.ID = id
	return nil
}

func (s *medicineStore) Stats(ctx context.Context) (*model.MedicineStats, error) {
	var stats model.MedicineStats
	counts := []struct {
		dst   *int
		query string
	}{
		{&stats.TotalMedicines, `SELECT COUNT(*) FROM medicines`},
		{&stats.InStock, `SELECT COUNT(*) FROM medicines WHERE stock_quantity > min_stock_level`},
		{&stats.LowStock, `SELECT COUNT(*) FROM medicines WHERE stock_quantity > 0 AND stock_quantity <= min_stock_level`},
		{&stats.OutOfStock, `SELECT COUNT(*) FROM medicines WHERE stock_quantity = 0`},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, c.query); err != nil {
			return nil, fmt.Errorf("failed to compute medicine stats: %w", err)
		}
	}

	var value sql.NullFloat64
	if err := s.db.GetContext(ctx, &value, `SELECT SUM(stock_quantity * unit_price) FROM medicines`); err != nil {
		return nil, fmt.Errorf("failed to compute stock value: %w", err)
	}
	stats.TotalStockValue = model.Round2(value.Float64)

	err := s.db.SelectContext(ctx, &stats.Categories,
		`SELECT category, COUNT(*) AS count FROM medicines GROUP BY category ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to group medicines by category: %w", err)
	}
	return &stats, nil
}
