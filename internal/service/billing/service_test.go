package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

type fakeDoctors struct {
	doctor *model.Doctor
}

func (f *fakeDoctors) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	return f.doctor, nil
}

func newTestService(t *testing.T, doctors *fakeDoctors) (*Service, repository.BillingRepository) {
	t.Helper()
	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.MigrateBilling(context.Background(), db))
	repo := sqlstore.NewBillingRepository(db)
	return NewService(repo, doctors), repo
}

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		weight, height float64
		bmi            float64
		category       string
	}{
		{72, 170, 24.91, CategoryNormal},
		{45, 170, 15.57, CategoryUnderweight},
		{120, 170, 41.52, CategoryObesityMorbid},
		{75, 170, 25.95, CategoryOverweight},
		{95, 170, 32.87, CategoryObesityMod},
		{110, 170, 38.06, CategoryObesitySevere},
	}
	for _, tt := range tests {
		bmi, category := ComputeBMI(tt.weight, tt.height)
		assert.InDelta(t, tt.bmi, bmi, 0.001, "weight=%v height=%v", tt.weight, tt.height)
		assert.Equal(t, tt.category, category)
	}
}

func TestCalculateBMIPersistsOnlyWithPatient(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, &fakeDoctors{})

	result, err := svc.CalculateBMI(ctx, &model.CalculateBMIRequest{Weight: 72, Height: 170})
	require.NoError(t, err)
	assert.InDelta(t, 24.91, result.BMI, 0.001)

	records, err := repo.ListBMIRecords(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	patientID := int64(7)
	_, err = svc.CalculateBMI(ctx, &model.CalculateBMIRequest{Weight: 72, Height: 170, PatientID: &patientID})
	require.NoError(t, err)

	records, err = repo.ListBMIRecords(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, CategoryNormal, records[0].Category)
}

func TestCalculateBMIRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t, &fakeDoctors{})
	_, err := svc.CalculateBMI(context.Background(), &model.CalculateBMIRequest{Weight: -1, Height: 170})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateInvoiceFeeFallback(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeDoctors{doctor: nil})

	one := int64(1)
	inv, err := svc.CreateInvoice(ctx, &model.CreateInvoiceRequest{
		ConsultationID: &one, PatientID: &one, DoctorID: &one,
		MedicationCost: 12.5, AdditionalFees: 7.5, Remboursement: 20,
	})
	require.NoError(t, err)
	assert.InDelta(t, DefaultConsultationFee, inv.ConsultationFee, 0.001)
	assert.InDelta(t, 70.0, inv.MontantTotal, 0.001)
	assert.InDelta(t, 50.0, inv.ResteAPayer, 0.001)
	assert.Equal(t, model.InvoicePending, inv.Status)
}

func TestCreateInvoiceUsesDoctorFee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeDoctors{doctor: &model.Doctor{ID: 1, ConsultationFee: 80}})

	one := int64(1)
	inv, err := svc.CreateInvoice(ctx, &model.CreateInvoiceRequest{
		ConsultationID: &one, PatientID: &one, DoctorID: &one,
	})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, inv.ConsultationFee, 0.001)
	assert.InDelta(t, 80.0, inv.MontantTotal, 0.001)
}

func TestPaymentDateStampedOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeDoctors{})

	one := int64(1)
	inv, err := svc.CreateInvoice(ctx, &model.CreateInvoiceRequest{
		ConsultationID: &one, PatientID: &one, DoctorID: &one,
	})
	require.NoError(t, err)
	assert.True(t, inv.PaymentDate.IsZero())

	paid := model.InvoicePaid
	updated, err := svc.UpdateInvoice(ctx, inv.ID, &model.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)
	require.False(t, updated.PaymentDate.IsZero())
	firstStamp := updated.PaymentDate

	// A second paid update keeps the original timestamp.
	updated, err = svc.UpdateInvoice(ctx, inv.ID, &model.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, firstStamp, updated.PaymentDate)
}

func TestUpdateInvoiceRecomputesBalance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeDoctors{doctor: &model.Doctor{ID: 1, ConsultationFee: 100}})

	one := int64(1)
	inv, err := svc.CreateInvoice(ctx, &model.CreateInvoiceRequest{
		ConsultationID: &one, PatientID: &one, DoctorID: &one,
	})
	require.NoError(t, err)

	refund := 40.0
	updated, err := svc.UpdateInvoice(ctx, inv.ID, &model.UpdateInvoiceRequest{Remboursement: &refund})
	require.NoError(t, err)
	assert.InDelta(t, 60.0, updated.ResteAPayer, 0.001)
}
