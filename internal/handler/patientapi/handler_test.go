package patientapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	patientsvc "github.com/clinichub/clinic-services/internal/service/patient"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.MigratePatients(context.Background(), db))

	engine := gin.New()
	New(patientsvc.NewService(sqlstore.NewPatientRepository(db))).RegisterRoutes(engine)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestCreateAndGetPatient(t *testing.T) {
	engine := newTestRouter(t)

	rec, body := doJSON(t, engine, http.MethodPost, "/api/patients", map[string]interface{}{
		"first_name":    "Alice",
		"last_name":     "Dupont",
		"email":         "alice.dupont@email.com",
		"phone":         "0612345678",
		"date_of_birth": "1990-05-15",
		"gender":        "Femme",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Patient created successfully", body["message"])

	patient := body["patient"].(map[string]interface{})
	assert.Equal(t, "alice.dupont@email.com", patient["email"])

	rec, body = doJSON(t, engine, http.MethodGet, "/api/patients/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	patient = body["patient"].(map[string]interface{})
	assert.Equal(t, "Alice", patient["first_name"])
	assert.Equal(t, "1990-05-15", patient["date_of_birth"])
}

func TestCreatePatientValidation(t *testing.T) {
	engine := newTestRouter(t)

	rec, body := doJSON(t, engine, http.MethodPost, "/api/patients", map[string]interface{}{
		"first_name": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestDuplicateEmailRejected(t *testing.T) {
	engine := newTestRouter(t)

	payload := map[string]interface{}{
		"first_name":    "Bob",
		"last_name":     "Martin",
		"email":         "bob.martin@email.com",
		"phone":         "0623456789",
		"date_of_birth": "1985-08-22",
		"gender":        "Homme",
	}
	rec, _ := doJSON(t, engine, http.MethodPost, "/api/patients", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, engine, http.MethodPost, "/api/patients", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestGetMissingPatientReturns404(t *testing.T) {
	engine := newTestRouter(t)

	rec, body := doJSON(t, engine, http.MethodGet, "/api/patients/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestListEnvelope(t *testing.T) {
	engine := newTestRouter(t)

	for _, p := range []map[string]interface{}{
		{"first_name": "Alice", "last_name": "Dupont", "email": "a@email.com", "phone": "0600000001", "date_of_birth": "1990-05-15", "gender": "Femme"},
		{"first_name": "Bob", "last_name": "Martin", "email": "b@email.com", "phone": "0600000002", "date_of_birth": "1985-08-22", "gender": "Homme"},
	} {
		rec, _ := doJSON(t, engine, http.MethodPost, "/api/patients", p)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, body := doJSON(t, engine, http.MethodGet, "/api/patients?per_page=1&page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(2), body["pages"])
	assert.Equal(t, float64(2), body["current_page"])
	assert.Len(t, body["patients"], 1)
}
