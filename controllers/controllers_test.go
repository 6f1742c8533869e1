package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MediCheck/logger"
	"MediCheck/models"
	"MediCheck/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSaver struct {
	got   []models.SaveMedicationsRequest
	saved int
	err   error
}

func (f *fakeSaver) Save(_ context.Context, req models.SaveMedicationsRequest) (int, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return 0, f.err
	}
	f.saved += len(req.Medications)
	return len(req.Medications), nil
}

type fakeRunner struct {
	slots []string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, slot string) (services.FiringReport, error) {
	f.slots = append(f.slots, slot)
	return services.FiringReport{Slot: slot, Groups: 2, EmailSent: 2}, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func do(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSaveMedications(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		saveErr    error
		wantStatus int
		wantBody   map[string]interface{}
		wantCalls  int
	}{
		{
			name:       "valid request",
			body:       `{"email":"a@x.com","medications":[{"medicine":"Paracetamol","dosage":"500mg","timing":["Morning"]}]}`,
			wantStatus: http.StatusOK,
			wantBody:   map[string]interface{}{"message": "Medications saved."},
			wantCalls:  1,
		},
		{
			name:       "medications is not a list",
			body:       `{"email":"a@x.com","medications":{"medicine":"Paracetamol"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": "Invalid request."},
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": "Invalid request."},
		},
		{
			name:       "validation error from service",
			body:       `{"email":"a@x.com","medications":[{"medicine":"X"}]}`,
			saveErr:    services.ErrNoValidMedications,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": "No valid medications provided."},
			wantCalls:  1,
		},
		{
			name:       "store failure",
			body:       `{"email":"a@x.com","medications":[{"medicine":"Paracetamol","dosage":"500mg","timing":"Night"}]}`,
			saveErr:    fmt.Errorf("%w: %w", services.ErrStore, errors.New("no reachable servers")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]interface{}{"error": "Failed to save medications."},
			wantCalls:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &fakeSaver{err: tt.saveErr}
			r := gin.New()
			Medications(r, saver)

			w := do(r, http.MethodPost, "/medications", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, decode(t, w))
			assert.Len(t, saver.got, tt.wantCalls)
		})
	}
}

func TestSaveMedications_BindsRequest(t *testing.T) {
	saver := &fakeSaver{}
	r := gin.New()
	Medications(r, saver)

	w := do(r, http.MethodPost, "/medications",
		`{"email":"a@x.com","phone":"+15550001111","medications":[{"medicine":"Paracetamol","dosage":"500mg","timing":"Morning","instructions":"after food"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, saver.got, 1)

	req := saver.got[0]
	assert.Equal(t, "a@x.com", req.Email)
	assert.Equal(t, "+15550001111", req.Phone)
	require.Len(t, req.Medications, 1)
	assert.Equal(t, models.TimingSlots{"Morning"}, req.Medications[0].Timing)
	assert.Equal(t, models.Text("after food"), req.Medications[0].Instructions)
}

type memoryRepo struct {
	records []models.MedicationRecord
}

func (m *memoryRepo) InsertMany(_ context.Context, records []models.MedicationRecord) (int, error) {
	m.records = append(m.records, records...)
	return len(records), nil
}

func (m *memoryRepo) FindByTiming(context.Context, string) ([]models.MedicationRecord, error) {
	return m.records, nil
}

func TestSaveMedications_LooselyTypedEntries(t *testing.T) {
	repo := &memoryRepo{}
	r := gin.New()
	Medications(r, services.NewMedicationService(repo, logger.Discard(), false))

	w := do(r, http.MethodPost, "/medications", `{"email":"a@x.com","medications":[
		{"medicine":"Paracetamol","dosage":"500mg","timing":["Morning"],"total":10,"duration":5},
		{"medicine":"Ibuprofen","dosage":"200mg","timing":"Night","instructions":"after food"},
		{"medicine":"Cetirizine","dosage":"10mg","timing":7},
		{"medicine":"Vitamin D","dosage":1000,"timing":["Morning"],"total":true}
	]}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.records, 3)
	assert.Equal(t, "Paracetamol", repo.records[0].Medicine)
	assert.Equal(t, "10", repo.records[0].Total)
	assert.Equal(t, "5", repo.records[0].Duration)
	assert.Equal(t, "Ibuprofen", repo.records[1].Medicine)
	assert.Equal(t, "1000", repo.records[2].Dosage)
	assert.Equal(t, "true", repo.records[2].Total)
}

func TestSaveMedications_AllEntriesMalformed(t *testing.T) {
	repo := &memoryRepo{}
	r := gin.New()
	Medications(r, services.NewMedicationService(repo, logger.Discard(), false))

	w := do(r, http.MethodPost, "/medications", `{"email":"a@x.com","medications":[{"medicine":"X","timing":{}}, 3]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "No valid medications provided."}, decode(t, w))
	assert.Empty(t, repo.records)
}

func TestParsePrescription(t *testing.T) {
	r := gin.New()
	Prescriptions(r)

	w := do(r, http.MethodPost, "/prescriptions/parse",
		`{"text":"Sure! [{\"medicine\":\"Paracetamol\",\"dosage\":\"500mg\",\"timing\":[\"Morning\"]}]"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["structured"])
	assert.Len(t, body["medications"], 1)

	w = do(r, http.MethodPost, "/prescriptions/parse", `{"text":"Unreadable prescription"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["structured"])
	assert.Equal(t, "Unreadable prescription", body["raw"])

	w = do(r, http.MethodPost, "/prescriptions/parse", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunReminders(t *testing.T) {
	runner := &fakeRunner{}
	r := gin.New()
	Reminders(r, runner, []string{"Morning", "Night"}, "s3cret")

	w := do(r, http.MethodPost, "/reminders/Morning/run", "", "X-Admin-Token", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Morning", body["slot"])
	assert.Equal(t, float64(2), body["emailSent"])
	assert.Equal(t, []string{"Morning"}, runner.slots)

	w = do(r, http.MethodPost, "/reminders/Morning/run", "", "X-Admin-Token", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/reminders/Noon/run", "", "X-Admin-Token", "s3cret")
	assert.Equal(t, http.StatusNotFound, w.Code)

	runner.err = services.ErrQuery
	w = do(r, http.MethodPost, "/reminders/Night/run", "", "X-Admin-Token", "s3cret")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRunReminders_DisabledWithoutToken(t *testing.T) {
	r := gin.New()
	Reminders(r, &fakeRunner{}, []string{"Morning"}, "")

	w := do(r, http.MethodPost, "/reminders/Morning/run", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	Health(r, fakePinger{})
	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"message": "ok"}, decode(t, w))

	r = gin.New()
	Health(r, fakePinger{err: errors.New("server selection timeout")})
	w = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
