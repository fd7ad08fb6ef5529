package billingapi

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

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	billingsvc "github.com/clinichub/clinic-services/internal/service/billing"
)

type staticDoctors struct {
	fee float64
}

func (d staticDoctors) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	if d.fee == 0 {
		return nil, nil
	}
	return &model.Doctor{ID: id, ConsultationFee: d.fee}, nil
}

func newTestRouter(t *testing.T, doctors billingsvc.DoctorDirectory) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.MigrateBilling(context.Background(), db))

	engine := gin.New()
	New(billingsvc.NewService(sqlstore.NewBillingRepository(db), doctors)).RegisterRoutes(engine)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestCalculateBMIEnvelope(t *testing.T) {
	engine := newTestRouter(t, staticDoctors{})

	rec, body := doJSON(t, engine, http.MethodPost, "/api/bmi/calculate", map[string]interface{}{
		"weight": 72,
		"height": 170,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 24.91, body["bmi"])
	assert.Equal(t, "Poids normal", body["category"])
	assert.Equal(t, float64(72), body["weight"])
	assert.Equal(t, float64(170), body["height"])
}

func TestCalculateBMIRejectsZeroHeight(t *testing.T) {
	engine := newTestRouter(t, staticDoctors{})

	rec, body := doJSON(t, engine, http.MethodPost, "/api/bmi/calculate", map[string]interface{}{
		"weight": 72,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestBMIRecordLifecycle(t *testing.T) {
	engine := newTestRouter(t, staticDoctors{})

	rec, _ := doJSON(t, engine, http.MethodPost, "/api/bmi/calculate", map[string]interface{}{
		"weight":     120,
		"height":     170,
		"patient_id": 7,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, engine, http.MethodGet, "/api/bmi/records?patient_id=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), body["count"])
	records := body["records"].([]interface{})
	record := records[0].(map[string]interface{})
	assert.Equal(t, 41.52, record["bmi"])
	assert.Equal(t, "Obésité morbide", record["category"])

	rec, _ = doJSON(t, engine, http.MethodDelete, "/api/bmi/records/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, engine, http.MethodGet, "/api/bmi/records?patient_id=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
}

func TestInvoiceTotalsOverHTTP(t *testing.T) {
	engine := newTestRouter(t, staticDoctors{fee: 80})

	rec, body := doJSON(t, engine, http.MethodPost, "/api/invoices", map[string]interface{}{
		"consultation_id": 1,
		"patient_id":      2,
		"doctor_id":       3,
		"medication_cost": 20.5,
		"additional_fees": 15,
		"remboursement":   40,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	invoice := body["invoice"].(map[string]interface{})
	assert.Equal(t, 115.5, invoice["montant_total"])
	assert.Equal(t, 75.5, invoice["reste_a_payer"])
	assert.Equal(t, float64(80), invoice["consultation_fee"])

	rec, body = doJSON(t, engine, http.MethodPut, "/api/invoices/1", map[string]interface{}{
		"status": "paid",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	invoice = body["invoice"].(map[string]interface{})
	assert.Equal(t, "paid", invoice["status"])
	assert.NotEmpty(t, invoice["payment_date"])
}
