package patient

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
	require.NoError(t, sqlstore.MigratePatients(context.Background(), db))
	return NewService(sqlstore.NewPatientRepository(db))
}

func createReq() *model.CreatePatientRequest {
	phone := "0601020304"
	return &model.CreatePatientRequest{
		FirstName:   "Marie",
		LastName:    "Dupont",
		Email:       "marie@example.com",
		Phone:       &phone,
		DateOfBirth: "1985-03-14",
		Gender:      "Femme",
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.Create(ctx, createReq())
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "1985-03-14", got.DateOfBirth.Format("2006-01-02"))
	assert.Equal(t, "Femme", got.Gender)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, createReq())
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq())
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc := newTestService(t)
	req := createReq()
	req.DateOfBirth = "14/03/1985"
	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.Create(ctx, createReq())
	require.NoError(t, err)

	phone := "0707070707"
	blood := "A+"
	updated, err := svc.Update(ctx, p.ID, &model.UpdatePatientRequest{Phone: &phone, BloodGroup: &blood})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	require.NotNil(t, updated.BloodGroup)
	assert.Equal(t, "A+", *updated.BloodGroup)
	assert.Equal(t, "Marie", updated.FirstName, "untouched fields survive")
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.Create(ctx, createReq())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
