package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaolj/iot-board/internal/domain"
)

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestCreateEnvironment(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/environment",
		`{"location":"greenhouse-1","temperature":22.5,"humidity":60,"air_quality_index":35}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var reading domain.EnvironmentReading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reading))
	assert.Equal(t, int64(1), reading.ID)
	assert.Equal(t, "greenhouse-1", reading.Location)
	assert.InDelta(t, 22.5, reading.Temperature, 0.001)

	// The accepted reading was audited for broadcast
	assert.Equal(t, []string{domain.EventEnvironmentUpdate}, deps.audit.events)
}

func TestCreateEnvironment_MissingTemperature(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/environment",
		`{"location":"greenhouse-1","humidity":60,"air_quality_index":35}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "temperature")
	assert.Empty(t, deps.readings.readings)
	assert.Empty(t, deps.audit.events)
}

func TestCreateEnvironment_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/environment", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEnvironment_DefaultLimit(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/environment", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultListLimit, deps.readings.lastLimit)
}

func TestListEnvironment_ExplicitLimit(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/environment?limit=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, deps.readings.lastLimit)
}

func TestListEnvironment_InvalidLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/environment?limit=banana", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/environment?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertDevice_TwicePostsSameID(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/devices",
		`{"device_id":"pump-1","name":"Pump","status":"online"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var first domain.DeviceStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doRequest(srv, http.MethodPost, "/api/devices",
		`{"device_id":"pump-1","name":"Pump","status":"offline"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var second domain.DeviceStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "offline", second.Status)
	assert.Len(t, deps.devices.devices, 1)
}

func TestUpsertDevice_InvalidStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/devices",
		`{"device_id":"pump-1","name":"Pump","status":"bogus"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDevice(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(srv, http.MethodPost, "/api/devices",
		`{"device_id":"valve-2","name":"Valve","status":"maintenance"}`)

	rec := doRequest(srv, http.MethodGet, "/api/devices/valve-2", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var status domain.DeviceStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "maintenance", status.Status)
}

func TestGetDevice_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/devices/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAlarm(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/alarms",
		`{"code":"TEMP_HIGH","message":"too hot","severity":"critical","device_id":"sensor-3"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var alarm domain.AlarmEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alarm))
	assert.Equal(t, "TEMP_HIGH", alarm.Code)
	require.NotNil(t, alarm.DeviceID)
	assert.Equal(t, "sensor-3", *alarm.DeviceID)
	assert.Equal(t, []string{domain.EventAlarmRaise}, deps.audit.events)
}

func TestCreateAlarm_InvalidSeverity(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/alarms",
		`{"code":"X","message":"y","severity":"apocalyptic"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAlarms(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(srv, http.MethodPost, "/api/alarms",
		`{"code":"A","message":"m","severity":"info"}`)

	rec := doRequest(srv, http.MethodGet, "/api/alarms", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var alarms []domain.AlarmEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alarms))
	assert.Len(t, alarms, 1)
}

func TestIngestRateLimit_ReturnsTooManyRequests(t *testing.T) {
	srv, _ := newTestServer(t, withRateLimit(1, 1))

	first := doRequest(srv, http.MethodPost, "/api/alarms",
		`{"code":"A","message":"m","severity":"info"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doRequest(srv, http.MethodPost, "/api/alarms",
		`{"code":"B","message":"m","severity":"info"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit", body["type"])
}
