package model

// Stock status values derived from (stock_quantity, min_stock_level).
const (
	StockStatusOut = "out_of_stock"
	StockStatusLow = "low_stock"
	StockStatusIn  = "in_stock"
)

// Stock transaction types. Purchase and adjustment_increase raise stock,
// the rest lower it.
const (
	TxPurchase           = "purchase"
	TxSale               = "sale"
	TxAdjustmentIncrease = "adjustment_increase"
	TxAdjustmentDecrease = "adjustment_decrease"
	TxExpired            = "expired"
)

// ValidTransactionTypes lists the accepted stock transaction types in the
// order they are reported to callers.
var ValidTransactionTypes = []string{TxPurchase, TxSale, TxAdjustmentIncrease, TxAdjustmentDecrease, TxExpired}

func IsIncreaseTransaction(txType string) bool {
	return txType == TxPurchase || txType == TxAdjustmentIncrease
}

func IsValidTransactionType(txType string) bool {
	for _, t := range ValidTransactionTypes {
		if t == txType {
			return true
		}
	}
	return false
}

type Medicine struct {
	ID                   int64    `db:"id" json:"id"`
	Name                 string   `db:"name" json:"name"`
	GenericName          *string  `db:"generic_name" json:"generic_name"`
	Manufacturer         *string  `db:"manufacturer" json:"manufacturer"`
	Category             string   `db:"category" json:"category"`
	Description          *string  `db:"description" json:"description"`
	DosageForm           string   `db:"dosage_form" json:"dosage_form"`
	Strength             *string  `db:"strength" json:"strength"`
	StockQuantity        int      `db:"stock_quantity" json:"stock_quantity"`
	MinStockLevel        int      `db:"min_stock_level" json:"min_stock_level"`
	UnitPrice            float64  `db:"unit_price" json:"unit_price"`
	RequiresPrescription bool     `db:"requires_prescription" json:"requires_prescription"`
	ControlledSubstance  bool     `db:"controlled_substance" json:"controlled_substance"`
	ExpiryDate           Date     `db:"expiry_date" json:"expiry_date"`
	StockStatus          string   `db:"-" json:"stock_status"`
	CreatedAt            DateTime `db:"created_at" json:"created_at"`
	UpdatedAt            DateTime `db:"updated_at" json:"updated_at"`

	StockHistory []*StockHistory `db:"-" json:"stock_history,omitempty"`
}

// Normalize fills derived fields after a load.
func (m *Medicine) Normalize() {
	m.StockStatus = DeriveStockStatus(m.StockQuantity, m.MinStockLevel)
}

// DeriveStockStatus is the three-way stock partition: zero is out of stock,
// at or below the minimum level is low, anything above is in stock.
func DeriveStockStatus(quantity, minLevel int) string {
	switch {
	case quantity == 0:
		return StockStatusOut
	case quantity <= minLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// StockHistory is one entry of the append-only stock ledger.
type StockHistory struct {
	ID               int64    `db:"id" json:"id"`
	MedicineID       int64    `db:"medicine_id" json:"medicine_id"`
	TransactionType  string   `db:"transaction_type" json:"transaction_type"`
	Quantity         int      `db:"quantity" json:"quantity"`
	PreviousQuantity int      `db:"previous_quantity" json:"previous_quantity"`
	NewQuantity      int      `db:"new_quantity" json:"new_quantity"`
	Notes            *string  `db:"notes" json:"notes"`
	TransactionDate  DateTime `db:"transaction_date" json:"transaction_date"`
	User             *string  `db:"username" json:"user"`
}

type MedicineCategory struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

type CreateMedicineRequest struct {
	Name                 string  `json:"name" binding:"required"`
	GenericName          *string `json:"generic_name"`
	Manufacturer         *string `json:"manufacturer"`
	Category             string  `json:"category" binding:"required"`
	Description          *string `json:"description"`
	DosageForm           string  `json:"dosage_form" binding:"required"`
	Strength             *string `json:"strength"`
	StockQuantity        int     `json:"stock_quantity"`
	MinStockLevel        *int    `json:"min_stock_level"`
	UnitPrice            float64 `json:"unit_price"`
	RequiresPrescription *bool   `json:"requires_prescription"`
	ControlledSubstance  bool    `json:"controlled_substance"`
	ExpiryDate           string  `json:"expiry_date"`
	User                 string  `json:"user"`
}

type UpdateMedicineRequest struct {
	GenericName          *string  `json:"generic_name"`
	Manufacturer         *string  `json:"manufacturer"`
	Category             *string  `json:"category"`
	Description          *string  `json:"description"`
	DosageForm           *string  `json:"dosage_form"`
	Strength             *string  `json:"strength"`
	MinStockLevel        *int     `json:"min_stock_level"`
	UnitPrice            *float64 `json:"unit_price"`
	RequiresPrescription *bool    `json:"requires_prescription"`
	ControlledSubstance  *bool    `json:"controlled_substance"`
	ExpiryDate           *string  `json:"expiry_date"`
}

type StockUpdateRequest struct {
	TransactionType string  `json:"transaction_type" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required"`
	Notes           *string `json:"notes"`
	User            string  `json:"user"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type MedicineFilters struct {
	Search      string
	Category    string
	StockStatus string
	Page        int
	PerPage     int
}

type CategoryCount struct {
	Name  string `db:"category" json:"name"`
	Count int    `db:"count" json:"count"`
}

type MedicineStats struct {
	TotalMedicines  int             `json:"total_medicines"`
	InStock         int             `json:"in_stock"`
	LowStock        int             `json:"low_stock"`
	OutOfStock      int             `json:"out_of_stock"`
	TotalStockValue float64         `json:"total_stock_value"`
	Categories      []CategoryCount `json:"categories"`
}
