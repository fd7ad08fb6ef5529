package prescription

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/internal/client"
	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

type fakePatients struct {
	patients map[int64]*model.Patient
}

func (f *fakePatients) Get(ctx context.Context, id int64) (*model.Patient, error) {
	return f.patients[id], nil
}

type fakeMedicines struct {
	medicines map[int64]*model.Medicine
	stock     map[int64]int
}

func (f *fakeMedicines) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	return f.medicines[id], nil
}

func (f *fakeMedicines) GetStock(ctx context.Context, id int64) (*client.Stock, error) {
	m := f.medicines[id]
	if m == nil {
		return nil, nil
	}
	return &client.Stock{MedicineID: id, Quantity: f.stock[id]}, nil
}

func newTestService(t *testing.T) (*Service, repository.PrescriptionRepository, *fakePatients, *fakeMedicines) {
	t.Helper()
	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.MigratePrescriptions(context.Background(), db))
	repo := sqlstore.NewPrescriptionRepository(db)

	patients := &fakePatients{patients: map[int64]*model.Patient{
		1: {ID: 1, FirstName: "Marie", LastName: "Dupont", Email: "marie@example.com"},
	}}
	medicines := &fakeMedicines{
		medicines: map[int64]*model.Medicine{
			10: {ID: 10, Name: "Amoxicilline"},
			11: {ID: 11, Name: "Doliprane"},
		},
		stock: map[int64]int{10: 100, 11: 0},
	}
	return NewService(repo, patients, medicines), repo, patients, medicines
}

func validRequest() *model.CreatePrescriptionRequest {
	return &model.CreatePrescriptionRequest{
		PatientID:  1,
		DoctorName: "Dr. Leroy",
		Diagnosis:  "Angine",
		Medications: []model.MedicationRequest{
			{MedicineID: 10, Dosage: "500mg", Frequency: "3x/jour", Duration: "7 jours", Quantity: 21},
		},
	}
}

func TestCreateCachesMedicineNames(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService(t)

	p, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	require.Len(t, p.Medications, 1)
	assert.Equal(t, "Amoxicilline", p.Medications[0].MedicineName)
	assert.Equal(t, model.PrescriptionActive, p.Status)
	assert.False(t, p.ValidUntil.IsZero())

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amoxicilline", stored.Medications[0].MedicineName)
}

func TestCreateRequiresKnownPatient(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := validRequest()
	req.PatientID = 999

	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, total, listErr := repo.List(context.Background(), model.PrescriptionFilters{Page: 1, PerPage: 10})
	require.NoError(t, listErr)
	assert.Zero(t, total, "nothing should be persisted")
}

func TestCreateRequiresKnownMedicines(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := validRequest()
	req.Medications = append(req.Medications, model.MedicationRequest{
		MedicineID: 999, Dosage: "1g", Frequency: "matin", Duration: "5 jours",
	})

	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, total, listErr := repo.List(context.Background(), model.PrescriptionFilters{Page: 1, PerPage: 10})
	require.NoError(t, listErr)
	assert.Zero(t, total, "one bad line aborts the whole prescription")
}

func TestCreateRequiresMedications(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	req := validRequest()
	req.Medications = nil

	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateInsufficientStockDoesNotBlock(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	req := validRequest()
	req.Medications = []model.MedicationRequest{
		{MedicineID: 11, Dosage: "1g", Frequency: "matin", Duration: "5 jours", Quantity: 50},
	}

	p, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Doliprane", p.Medications[0].MedicineName)
}

func TestAddMedicationCachesName(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	p, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	line, err := svc.AddMedication(ctx, p.ID, &model.MedicationRequest{
		MedicineID: 11, Dosage: "1g", Frequency: "soir", Duration: "3 jours",
	})
	require.NoError(t, err)
	assert.Equal(t, "Doliprane", line.MedicineName)
	assert.Equal(t, 1, line.Quantity)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Medications, 2)
}

func TestAddMedicationUnknownMedicine(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	p, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.AddMedication(ctx, p.ID, &model.MedicationRequest{
		MedicineID: 999, Dosage: "1g", Frequency: "soir", Duration: "3 jours",
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
