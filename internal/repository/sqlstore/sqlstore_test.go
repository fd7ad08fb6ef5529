package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/internal/model"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

func TestPatientRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigratePatients(ctx, db))

	repo := NewPatientRepository(db)
	address := "12 rue de la Paix"
	dob, err := model.ParseDate("1985-03-14")
	require.NoError(t, err)

	p := &model.Patient{
		FirstName:   "Marie",
		LastName:    "Dupont",
		Email:       "marie.dupont@example.com",
		Phone:       "0601020304",
		DateOfBirth: dob,
		Gender:      "Femme",
		Address:     &address,
	}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marie", got.FirstName)
	assert.Equal(t, "Dupont", got.LastName)
	assert.Equal(t, "marie.dupont@example.com", got.Email)
	assert.Equal(t, "1985-03-14", got.DateOfBirth.Format("2006-01-02"))
	require.NotNil(t, got.Address)
	assert.Equal(t, address, *got.Address)
	assert.Nil(t, got.BloodGroup)

	byEmail, err := repo.GetByEmail(ctx, "MARIE.DUPONT@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, p.ID, byEmail.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPatientSearchAndPagination(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigratePatients(ctx, db))

	repo := NewPatientRepository(db)
	dob, _ := model.ParseDate("1990-01-01")
	for _, name := range []string{"Durand", "Martin", "Durteste"} {
		require.NoError(t, repo.Create(ctx, &model.Patient{
			FirstName:   "Test",
			LastName:    name,
			Email:       name + "@example.com",
			Phone:       "0600000000",
			DateOfBirth: dob,
			Gender:      "Homme",
		}))
	}

	patients, total, err := repo.List(ctx, model.PatientFilters{Search: "dur", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, patients, 2)

	patients, total, err = repo.List(ctx, model.PatientFilters{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, patients, 1)
}

func TestStockLedger(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigrateMedicines(ctx, db))

	repo := NewMedicineRepository(db)
	expiry, _ := model.ParseDate("2027-06-30")
	m := &model.Medicine{
		Name:          "Paracétamol",
		Category:      "Antalgique",
		DosageForm:    "comprimé",
		StockQuantity: 10,
		MinStockLevel: 5,
		UnitPrice:     2.5,
		ExpiryDate:    expiry,
	}
	require.NoError(t, repo.Create(ctx, m))
	assert.Equal(t, model.StockStatusIn, m.StockStatus)

	user := "pharmacist"
	entry, err := repo.RecordTransaction(ctx, m.ID, model.TxSale, 7, nil, &user)
	require.NoError(t, err)
	assert.Equal(t, 10, entry.PreviousQuantity)
	assert.Equal(t, 3, entry.NewQuantity)

	entry, err = repo.RecordTransaction(ctx, m.ID, model.TxPurchase, 20, nil, &user)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.PreviousQuantity)
	assert.Equal(t, 23, entry.NewQuantity)

	// Decreases may drive the quantity negative; the ledger still balances.
	entry, err = repo.RecordTransaction(ctx, m.ID, model.TxExpired, 30, nil, &user)
	require.NoError(t, err)
	assert.Equal(t, -7, entry.NewQuantity)

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, -7, got.StockQuantity)

	history, total, err := repo.StockHistory(ctx, m.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, history, 3)
	for _, h := range history {
		diff := h.NewQuantity - h.PreviousQuantity
		if model.IsIncreaseTransaction(h.TransactionType) {
			assert.Equal(t, h.Quantity, diff)
		} else {
			assert.Equal(t, -h.Quantity, diff)
		}
	}

	_, err = repo.RecordTransaction(ctx, 9999, model.TxSale, 1, nil, nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStockStatusFilters(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigrateMedicines(ctx, db))

	repo := NewMedicineRepository(db)
	seed := []struct {
		name string
		qty  int
	}{
		{"A", 0},
		{"B", 5},
		{"C", 50},
	}
	for _, s := range seed {
		require.NoError(t, repo.Create(ctx, &model.Medicine{
			Name: s.name, Category: "Test", DosageForm: "comprimé",
			StockQuantity: s.qty, MinStockLevel: 10,
		}))
	}

	for status, want := range map[string]string{
		model.StockStatusOut: "A",
		model.StockStatusLow: "B",
		model.StockStatusIn:  "C",
	} {
		medicines, total, err := repo.List(ctx, model.MedicineFilters{StockStatus: status, Page: 1, PerPage: 10})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		assert.Equal(t, want, medicines[0].Name)
		assert.Equal(t, status, medicines[0].StockStatus)
	}
}

func TestAppointmentCompleteDue(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigrateAppointments(ctx, db))

	repo := NewAppointmentRepository(db)
	past := model.NewDateTime(time.Now().UTC().Add(-48 * time.Hour))
	future := model.NewDateTime(time.Now().UTC().Add(48 * time.Hour))

	overdue := &model.Appointment{PatientID: 1, DoctorName: "Dr. Petit", AppointmentDate: past}
	upcoming := &model.Appointment{PatientID: 1, DoctorName: "Dr. Petit", AppointmentDate: future}
	cancelled := &model.Appointment{PatientID: 2, DoctorName: "Dr. Petit", AppointmentDate: past, Status: model.AppointmentCancelled}
	for _, a := range []*model.Appointment{overdue, upcoming, cancelled} {
		require.NoError(t, repo.Create(ctx, a))
	}

	n, err := repo.CompleteDue(ctx, model.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCompleted, got.Status)

	got, err = repo.GetByID(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentScheduled, got.Status)

	got, err = repo.GetByID(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCancelled, got.Status)

	// Running the sweep again changes nothing.
	n, err = repo.CompleteDue(ctx, model.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrescriptionCreateLoadsLines(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigratePrescriptions(ctx, db))

	repo := NewPrescriptionRepository(db)
	p := &model.Prescription{
		PatientID:  1,
		DoctorName: "Dr. Leroy",
		Diagnosis:  "Angine",
		ValidUntil: model.NewDateTime(time.Now().UTC().AddDate(0, 0, 30)),
		Medications: []*model.PrescriptionMedication{
			{MedicineID: 1, MedicineName: "Amoxicilline", Dosage: "500mg", Frequency: "3x/jour", Duration: "7 jours", Quantity: 21},
			{MedicineID: 2, MedicineName: "Doliprane", Dosage: "1g", Frequency: "si douleur", Duration: "7 jours", Quantity: 8},
		},
	}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PrescriptionActive, got.Status)
	require.Len(t, got.Medications, 2)
	assert.Equal(t, "Amoxicilline", got.Medications[0].MedicineName)
	assert.Equal(t, p.ID, got.Medications[0].PrescriptionID)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestInvoiceStats(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigrateBilling(ctx, db))

	repo := NewBillingRepository(db)
	invoices := []*model.Invoice{
		{ConsultationID: 1, PatientID: 1, DoctorID: 1, ConsultationFee: 50, MontantTotal: 80, ResteAPayer: 80, Status: model.InvoicePaid},
		{ConsultationID: 2, PatientID: 1, DoctorID: 1, ConsultationFee: 50, MontantTotal: 50, ResteAPayer: 30, Status: model.InvoicePending},
		{ConsultationID: 3, PatientID: 2, DoctorID: 1, ConsultationFee: 50, MontantTotal: 60, ResteAPayer: 60, Status: model.InvoicePending},
	}
	for _, inv := range invoices {
		require.NoError(t, repo.CreateInvoice(ctx, inv))
	}

	stats, err := repo.InvoiceStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalInvoices)
	assert.Equal(t, 1, stats.Paid)
	assert.Equal(t, 2, stats.Pending)
	assert.InDelta(t, 80.0, stats.TotalRevenue, 0.001)
	assert.InDelta(t, 90.0, stats.TotalPending, 0.001)
}
