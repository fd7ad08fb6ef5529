package medicine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.MigrateMedicines(context.Background(), db))
	return NewService(sqlstore.NewMedicineRepository(db))
}

func TestCreateBooksOpeningStock(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m, err := svc.Create(ctx, &model.CreateMedicineRequest{
		Name:          "Ibuprofène",
		Category:      "Anti-inflammatoire",
		DosageForm:    "comprimé",
		StockQuantity: 40,
		UnitPrice:     3.2,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, m.StockQuantity)
	assert.Equal(t, 10, m.MinStockLevel)
	assert.True(t, m.RequiresPrescription)

	got, err := svc.Get(ctx, m.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 40, got.StockQuantity)
	require.Len(t, got.StockHistory, 1)
	entry := got.StockHistory[0]
	assert.Equal(t, model.TxPurchase, entry.TransactionType)
	assert.Equal(t, 0, entry.PreviousQuantity)
	assert.Equal(t, 40, entry.NewQuantity)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "Stock initial", *entry.Notes)
}

func TestCreateWithoutStockHasEmptyLedger(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m, err := svc.Create(ctx, &model.CreateMedicineRequest{
		Name: "Aspirine", Category: "Antalgique", DosageForm: "comprimé",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StockStatusOut, m.StockStatus)

	got, err := svc.Get(ctx, m.ID, true)
	require.NoError(t, err)
	assert.Empty(t, got.StockHistory)
}

func TestCreateDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	req := &model.CreateMedicineRequest{Name: "Aspirine", Category: "Antalgique", DosageForm: "comprimé"}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateStockValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m, err := svc.Create(ctx, &model.CreateMedicineRequest{
		Name: "Aspirine", Category: "Antalgique", DosageForm: "comprimé", StockQuantity: 10,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStock(ctx, m.ID, &model.StockUpdateRequest{TransactionType: "refund", Quantity: 5})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpdateStock(ctx, m.ID, &model.StockUpdateRequest{TransactionType: model.TxSale, Quantity: 0})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	updated, err := svc.UpdateStock(ctx, m.ID, &model.StockUpdateRequest{TransactionType: model.TxSale, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.StockQuantity)
	assert.Equal(t, model.StockStatusLow, updated.StockStatus)

	_, err = svc.UpdateStock(ctx, 999, &model.StockUpdateRequest{TransactionType: model.TxSale, Quantity: 1})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStockQuantityImmutableViaUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m, err := svc.Create(ctx, &model.CreateMedicineRequest{
		Name: "Aspirine", Category: "Antalgique", DosageForm: "comprimé", StockQuantity: 10,
	})
	require.NoError(t, err)

	price := 9.9
	updated, err := svc.Update(ctx, m.ID, &model.UpdateMedicineRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.StockQuantity, "field updates must not touch stock")
	assert.InDelta(t, 9.9, updated.UnitPrice, 0.001)
}
