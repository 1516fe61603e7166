package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/ihorxshdy/aeromar/internal/store"
)

func newTestServer() (*Server, *http.ServeMux) {
	srv := New(DefaultConfig(), store.New())
	mux := http.NewServeMux()
	srv.Routes(mux)
	return srv, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestImportAndPlanFlow(t *testing.T) {
	_, mux := newTestServer()

	flightsCSV := "FLIGHT;STD;TYPE;AC;ROUTE\n" +
		"SU1;06:00;SU9;89001;SVO-KZN\n" +
		"SU2;06:40;SU9;89002;SVO-GOJ\n" +
		"SU3;07:20;SU9;89003;SVO-LED\n" +
		"SU4;08:00;SU9;89004;SVO-AER\n" +
		"SU5;08:40;SU9;89005;SVO-KUF\n"
	var imported []model.Flight
	rec := doJSON(t, mux, http.MethodPost, "/api/flights/import-csv", flightsCSV, &imported)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, imported, 5)

	driversCSV := "DRIVER_ID;FULL_NAME\nDRV001;Ivanov Sergey\nDRV002;Petrov Alexey\n"
	rec = doJSON(t, mux, http.MethodPost, "/api/drivers/import-csv", driversCSV, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	shiftsCSV := "SHIFT_START;SHIFT_END\n03:00;12:00\n"
	rec = doJSON(t, mux, http.MethodPost, "/api/shifts/import-csv", shiftsCSV, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.PlanResult
	rec = doJSON(t, mux, http.MethodPost, "/api/plan", "", &result)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, result.Brackets, 1)
	assert.Equal(t, "DRV001", result.Brackets[0].DriverID)
	require.Len(t, result.ShiftAssignments, 1)
	assert.Equal(t, "03:00", result.ShiftAssignments[0].ShiftStart)

	// assignments were written back to the store
	var flights []model.Flight
	doJSON(t, mux, http.MethodGet, "/api/flights", "", &flights)
	for _, f := range flights {
		assert.Equal(t, "DRV001", f.DriverID, "flight %s", f.FlightNo)
	}

	// and can be reset
	rec = doJSON(t, mux, http.MethodPost, "/api/assign/reset", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doJSON(t, mux, http.MethodGet, "/api/flights", "", &flights)
	assert.Empty(t, flights[0].DriverID)
}

func TestPlanEmptyStore(t *testing.T) {
	_, mux := newTestServer()

	var result model.PlanResult
	rec := doJSON(t, mux, http.MethodPost, "/api/plan", "", &result)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, result.Brackets)
	assert.NotNil(t, result.Unassigned)
}

func TestUnassignFlight(t *testing.T) {
	srv, mux := newTestServer()
	srv.store.SetFlights([]model.Flight{
		{ID: "f1", FlightNo: "SU100", DriverID: "DRV001", BracketID: "b1"},
	})

	rec := doJSON(t, mux, http.MethodDelete, "/api/assign/flight/SU100", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/api/assign/flight/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRulesEndpoints(t *testing.T) {
	_, mux := newTestServer()

	var sms []map[string]int
	rec := doJSON(t, mux, http.MethodGet, "/api/rules/sms-combinations", "", &sms)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, sms, map[string]int{"SU9": 5})

	var dms map[string][]map[string]int
	rec = doJSON(t, mux, http.MethodGet, "/api/rules/dms-combinations", "", &dms)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, dms["business"])
	assert.NotEmpty(t, dms["economy"])

	var consts map[string]int
	rec = doJSON(t, mux, http.MethodGet, "/api/rules/timing", "", &consts)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 155, consts["loadSMS"])
	assert.Equal(t, 45, consts["serviceDMS"])
}

func TestAddFlightsRecomputesTimes(t *testing.T) {
	_, mux := newTestServer()

	body, _ := json.Marshal([]model.Flight{
		{FlightNo: "SU700", ACType: "777", STDMin: 720},
	})
	var flights []model.Flight
	rec := doJSON(t, mux, http.MethodPost, "/api/flights", string(body), &flights)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, flights, 1)
	assert.Equal(t, model.ClassDMS, flights[0].Class)
	assert.Equal(t, 660, flights[0].ServiceEnd)
	assert.Equal(t, 615, flights[0].ServiceStart)
}

func TestImportRejectsOversizedBody(t *testing.T) {
	_, mux := newTestServer()

	big := bytes.Repeat([]byte("a"), maxImportBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/api/flights/import-csv", bytes.NewReader(big))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
