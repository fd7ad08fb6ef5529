package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
)

type fakeDirectory struct {
	known   map[string]*model.Patient
	created []*model.CreatePatientRequest
	nextID  int64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{known: map[string]*model.Patient{}, nextID: 100}
}

func (f *fakeDirectory) Get(ctx context.Context, id int64) (*model.Patient, error) {
	for _, p := range f.known {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) SearchByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return f.known[email], nil
}

func (f *fakeDirectory) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	f.created = append(f.created, req)
	f.nextID++
	phone := ""
	if req.Phone != nil {
		phone = *req.Phone
	}
	p := &model.Patient{
		ID:        f.nextID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     phone,
		Gender:    req.Gender,
	}
	f.known[req.Email] = p
	return p, nil
}

func newTestService(t *testing.T) (*Service, repository.AppointmentRepository, *fakeDirectory) {
	t.Helper()
	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.MigrateAppointments(context.Background(), db))
	repo := sqlstore.NewAppointmentRepository(db)
	dir := newFakeDirectory()
	return NewService(repo, dir), repo, dir
}

func TestBookWithExistingPatient(t *testing.T) {
	ctx := context.Background()
	svc, _, dir := newTestService(t)
	dir.known["jean@example.com"] = &model.Patient{ID: 42, Email: "jean@example.com"}

	appt, err := svc.Book(ctx, &model.BookAppointmentRequest{
		FirstName:       "Jean",
		LastName:        "Moreau",
		Email:           "jean@example.com",
		DoctorName:      "Dr. Petit",
		AppointmentDate: "2026-10-01 09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), appt.PatientID)
	assert.Empty(t, dir.created, "no patient should be created")
	assert.Equal(t, model.AppointmentScheduled, appt.Status)
	assert.Equal(t, 30, appt.Duration)
	assert.Equal(t, "2026-10-01 09:30:00", appt.AppointmentDate.Format("2006-01-02 15:04:05"))
}

func TestBookCreatesMissingPatient(t *testing.T) {
	ctx := context.Background()
	svc, _, dir := newTestService(t)

	appt, err := svc.Book(ctx, &model.BookAppointmentRequest{
		FirstName:       "Luc",
		LastName:        "Bernard",
		Email:           "luc@example.com",
		DoctorName:      "Dr. Petit",
		AppointmentDate: "2026-10-02 14:00:00",
	})
	require.NoError(t, err)
	require.Len(t, dir.created, 1)
	assert.Equal(t, "1990-01-01", dir.created[0].DateOfBirth)
	assert.Equal(t, "Homme", dir.created[0].Gender)
	assert.Equal(t, dir.known["luc@example.com"].ID, appt.PatientID)
}

func TestBookRejectsBadDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Book(context.Background(), &model.BookAppointmentRequest{
		FirstName:       "Luc",
		LastName:        "Bernard",
		Email:           "luc@example.com",
		DoctorName:      "Dr. Petit",
		AppointmentDate: "02/10/2026",
	})
	assert.Error(t, err)
}

func TestListSweepsDueAppointments(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	overdue := &model.Appointment{
		PatientID:       1,
		DoctorName:      "Dr. Petit",
		AppointmentDate: model.NewDateTime(time.Now().UTC().Add(-2 * time.Hour)),
	}
	require.NoError(t, repo.Create(ctx, overdue))

	appointments, total, err := svc.List(ctx, model.AppointmentFilters{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, model.AppointmentCompleted, appointments[0].Status)
}

func TestCompleteDueReturnsCount(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Appointment{
			PatientID:       int64(i + 1),
			DoctorName:      "Dr. Petit",
			AppointmentDate: model.NewDateTime(time.Now().UTC().Add(-time.Hour)),
		}))
	}

	n, err := svc.CompleteDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = svc.CompleteDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
