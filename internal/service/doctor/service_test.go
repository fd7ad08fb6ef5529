package doctor

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
	require.NoError(t, sqlstore.MigrateDoctors(context.Background(), db))
	return NewService(sqlstore.NewDoctorRepository(db))
}

func createReq(license string) *model.CreateDoctorRequest {
	return &model.CreateDoctorRequest{
		FirstName:       "Sophie",
		LastName:        "Petit",
		Email:           license + "@example.com",
		Phone:           "0601020304",
		Specialization:  "Cardiologie",
		LicenseNumber:   license,
		ConsultationFee: 80,
		WorkingDays:     model.CSVList{"Lundi", "Mardi"},
	}
}

func TestCreateFillsFullName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	d, err := svc.Create(ctx, createReq("LIC-1"))
	require.NoError(t, err)
	assert.Equal(t, "Sophie Petit", d.FullName)
	assert.True(t, d.IsActive)
}

func TestCreateRejectsDuplicateLicense(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, createReq("LIC-1"))
	require.NoError(t, err)

	dup := createReq("LIC-1")
	dup.Email = "other@example.com"
	_, err = svc.Create(ctx, dup)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestToggleStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	d, err := svc.Create(ctx, createReq("LIC-1"))
	require.NoError(t, err)

	toggled, err := svc.ToggleStatus(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.ToggleStatus(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestListAvailableFiltersByDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, createReq("LIC-1"))
	require.NoError(t, err)

	weekend := createReq("LIC-2")
	weekend.Email = "weekend@example.com"
	weekend.WorkingDays = model.CSVList{"Samedi"}
	_, err = svc.Create(ctx, weekend)
	require.NoError(t, err)

	inactive := createReq("LIC-3")
	inactive.Email = "off@example.com"
	off := false
	inactive.IsActive = &off
	_, err = svc.Create(ctx, inactive)
	require.NoError(t, err)

	doctors, err := svc.ListAvailable(ctx, "Lundi", "")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "LIC-1", doctors[0].LicenseNumber)

	doctors, err = svc.ListAvailable(ctx, "", "Cardiologie")
	require.NoError(t, err)
	assert.Len(t, doctors, 2, "inactive doctors are excluded")
}

func TestCreateSpecializationUnique(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateSpecialization(ctx, &model.CreateSpecializationRequest{Name: "Cardiologie"})
	require.NoError(t, err)

	_, err = svc.CreateSpecialization(ctx, &model.CreateSpecializationRequest{Name: "Cardiologie"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
