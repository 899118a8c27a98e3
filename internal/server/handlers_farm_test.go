package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaolj/iot-board/internal/domain"
)

func TestFieldLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/fields",
		`{"name":"North Field","location":"sector 4","area_hectares":12.5,"soil_type":"loam"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var field domain.Field
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &field))
	require.Equal(t, int64(1), field.ID)

	rec = doRequest(srv, http.MethodGet, "/api/fields/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodPut, "/api/fields/1",
		`{"name":"North Field","location":"sector 5","area_hectares":13}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Field
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "sector 5", updated.Location)

	rec = doRequest(srv, http.MethodDelete, "/api/fields/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/fields/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateField_MissingName(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/fields", `{"location":"sector 4"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestField_InvalidIDParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/fields/banana", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCropLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(srv, http.MethodPost, "/api/fields",
		`{"name":"North Field","location":"sector 4"}`)

	rec := doRequest(srv, http.MethodPost, "/api/crops",
		`{"field_id":1,"name":"Wheat","variety":"Norin 10","growth_stage":"tillering"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(srv, http.MethodPut, "/api/crops/1",
		`{"field_id":1,"name":"Wheat","growth_stage":"heading"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var crop domain.Crop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &crop))
	assert.Equal(t, "heading", crop.GrowthStage)

	rec = doRequest(srv, http.MethodDelete, "/api/crops/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCrop_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/crops/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(srv, http.MethodDelete, "/api/crops/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperationLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/operations",
		`{"field_id":1,"operation_type":"irrigation","description":"morning cycle","operator":"jules"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var op domain.Operation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &op))
	assert.Equal(t, "irrigation", op.OperationType)

	rec = doRequest(srv, http.MethodGet, "/api/operations", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var ops []domain.Operation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ops))
	assert.Len(t, ops, 1)
}

func TestCreateOperation_MissingType(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/operations", `{"field_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
