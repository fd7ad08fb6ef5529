package medicine

import (
	"context"
	"strings"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

// Service implements the medicine inventory and its stock ledger.
type Service struct {
	repo repository.MedicineRepository
}

func NewService(repo repository.MedicineRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateMedicineRequest) (*model.Medicine, error) {
	if existing, err := s.repo.GetByName(ctx, req.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("a medicine with this name already exists")
	}

	var expiry model.Date
	if req.ExpiryDate != "" {
		parsed, err := model.ParseDate(req.ExpiryDate)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		expiry = parsed
	}

	minLevel := 10
	if req.MinStockLevel != nil {
		minLevel = *req.MinStockLevel
	}
	requiresRx := true
	if req.RequiresPrescription != nil {
		requiresRx = *req.RequiresPrescription
	}

	// The medicine is inserted empty and the opening stock is booked as the
	// first purchase, so the ledger accounts for every unit from day one.
	m := &model.Medicine{
		Name:                 req.Name,
		GenericName:          req.GenericName,
		Manufacturer:         req.Manufacturer,
		Category:             req.Category,
		Description:          req.Description,
		DosageForm:           req.DosageForm,
		Strength:             req.Strength,
		MinStockLevel:        minLevel,
		UnitPrice:            req.UnitPrice,
		RequiresPrescription: requiresRx,
		ControlledSubstance:  req.ControlledSubstance,
		ExpiryDate:           expiry,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	if req.StockQuantity > 0 {
		user := req.User
		if user == "" {
			user = "System"
		}
		notes := "Stock initial"
		if _, err := s.repo.RecordTransaction(ctx, m.ID, model.TxPurchase, req.StockQuantity, &notes, &user); err != nil {
			return nil, err
		}
		m.StockQuantity = req.StockQuantity
		m.Normalize()
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id int64, includeHistory bool) (*model.Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if includeHistory {
		history, _, err := s.repo.StockHistory(ctx, id, 1, 20)
		if err != nil {
			return nil, err
		}
		m.StockHistory = history
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, f model.MedicineFilters) ([]*model.Medicine, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateMedicineRequest) (*model.Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GenericName != nil {
		m.GenericName = req.GenericName
	}
	if req.Manufacturer != nil {
		m.Manufacturer = req.Manufacturer
	}
	if req.Category != nil {
		m.Category = *req.Category
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.DosageForm != nil {
		m.DosageForm = *req.DosageForm
	}
	if req.Strength != nil {
		m.Strength = req.Strength
	}
	if req.MinStockLevel != nil {
		m.MinStockLevel = *req.MinStockLevel
	}
	if req.UnitPrice != nil {
		m.UnitPrice = *req.UnitPrice
	}
	if req.RequiresPrescription != nil {
		m.RequiresPrescription = *req.RequiresPrescription
	}
	if req.ControlledSubstance != nil {
		m.ControlledSubstance = *req.ControlledSubstance
	}
	if req.ExpiryDate != nil {
		expiry, err := model.ParseDate(*req.ExpiryDate)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		m.ExpiryDate = expiry
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UpdateStock applies a ledger transaction and returns the refreshed
// medicine. Quantities must be strictly positive; the direction comes from
// the transaction type.
func (s *Service) UpdateStock(ctx context.Context, id int64, req *model.StockUpdateRequest) (*model.Medicine, error) {
	if !model.IsValidTransactionType(req.TransactionType) {
		return nil, apperr.Validation("invalid transaction type, use one of: %s",
			strings.Join(model.ValidTransactionTypes, ", "))
	}
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	user := req.User
	if user == "" {
		user = "System"
	}
	if _, err := s.repo.RecordTransaction(ctx, id, req.TransactionType, req.Quantity, req.Notes, &user); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) StockHistory(ctx context.Context, id int64, page, perPage int) (*model.Medicine, []*model.StockHistory, int, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, 0, err
	}
	history, total, err := s.repo.StockHistory(ctx, id, page, perPage)
	if err != nil {
		return nil, nil, 0, err
	}
	return m, history, total, nil
}

func (s *Service) ListLowStock(ctx context.Context) ([]*model.Medicine, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) ListExpiring(ctx context.Context, days int) ([]*model.Medicine, error) {
	return s.repo.ListExpiring(ctx, days)
}

func (s *Service) ListCategories(ctx context.Context) ([]*model.MedicineCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.MedicineCategory, error) {
	c := &model.MedicineCategory{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Stats(ctx context.Context) (*model.MedicineStats, error) {
	return s.repo.Stats(ctx)
}

// EnsureDefaultCategories seeds the standard category list, skipping the
// ones already present.
func (s *Service) EnsureDefaultCategories(ctx context.Context) error {
	existing, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c.Name] = true
	}

	defaults := []model.MedicineCategory{
		{Name: "Antibiotique", Description: ptr("Médicaments contre les infections bactériennes")},
		{Name: "Antalgique", Description: ptr("Médicaments contre la douleur")},
		{Name: "Antipyrétique", Description: ptr("Médicaments contre la fièvre")},
		{Name: "Anti-inflammatoire", Description: ptr("Médicaments réduisant l'inflammation")},
		{Name: "Antiviral", Description: ptr("Médicaments contre les virus")},
		{Name: "Cardiovasculaire", Description: ptr("Médicaments pour le cœur et la circulation")},
	}
	for i := range defaults {
		if present[defaults[i].Name] {
			continue
		}
		if err := s.repo.CreateCategory(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func ptr(s string) *string { return &s }
