package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryatmodulus/pg-replicate/pkg/config"
	"github.com/suryatmodulus/pg-replicate/pkg/sources"
)

const testAPIKey = "test-api-key"

// Metrics register on the default prometheus registry, so the whole test
// binary shares one instance.
var testMetrics = NewMetrics()

func setupRouter(t *testing.T) chi.Router {
	t.Helper()

	store, err := sources.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := ServerConfig{Bind: "127.0.0.1", Port: 0, APIKey: testAPIKey}
	return Router(store, cfg, testMetrics)
}

func doRequest(t *testing.T, router chi.Router, method, path, tenantID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", testAPIKey)
	if tenantID != "" {
		req.Header.Set(tenantHeader, tenantID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func createSource(t *testing.T, router chi.Router, tenantID, name string) string {
	t.Helper()

	req := CreateSourceRequest{
		Name: name,
		Config: config.Source{
			Host:     "db.internal",
			Port:     5432,
			Name:     "orders",
			Username: "replicator",
			Password: "hunter2",
		},
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/sources", tenantID, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	id, ok := data["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestCreateSource(t *testing.T) {
	router := setupRouter(t)

	id := createSource(t, router, "tenant-1", "prod-orders")

	rec := doRequest(t, router, http.MethodGet, "/v1/sources/"+id, "tenant-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "prod-orders", data["name"])
	assert.Equal(t, "tenant-1", data["tenant_id"])
}

func TestCreateSource_Validation(t *testing.T) {
	router := setupRouter(t)

	t.Run("missing tenant header", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/sources", "", CreateSourceRequest{Name: "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/sources", "tenant-1", CreateSourceRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/sources", bytes.NewBufferString("{not json"))
		req.Header.Set("X-API-Key", testAPIKey)
		req.Header.Set(tenantHeader, "tenant-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetSource_StripsPassword(t *testing.T) {
	router := setupRouter(t)
	id := createSource(t, router, "tenant-1", "prod-orders")

	rec := doRequest(t, router, http.MethodGet, "/v1/sources/"+id, "tenant-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, rec.Body.String(), "hunter2")

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	srcCfg := data["config"].(map[string]interface{})
	assert.Equal(t, "", srcCfg["password"])
	assert.Equal(t, "replicator", srcCfg["username"])
}

func TestGetSource_NotFound(t *testing.T) {
	router := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/sources/missing", "tenant-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestListSources_TenantScoped(t *testing.T) {
	router := setupRouter(t)
	createSource(t, router, "tenant-1", "alpha")
	createSource(t, router, "tenant-1", "beta")
	createSource(t, router, "tenant-2", "other")

	rec := doRequest(t, router, http.MethodGet, "/v1/sources", "tenant-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	list := data["sources"].([]interface{})
	assert.Len(t, list, 2)
}

func TestListSources_EmptyTenant(t *testing.T) {
	router := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/sources", "nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Empty(t, data["sources"])
}

func TestUpdateSource(t *testing.T) {
	router := setupRouter(t)
	id := createSource(t, router, "tenant-1", "before")

	req := UpdateSourceRequest{
		Name:   "after",
		Config: config.Source{Host: "replica.internal", Port: 5433, Name: "orders", Username: "replicator"},
	}
	rec := doRequest(t, router, http.MethodPut, "/v1/sources/"+id, "tenant-1", req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "after", data["name"])
}

func TestUpdateSource_NotFound(t *testing.T) {
	router := setupRouter(t)

	req := UpdateSourceRequest{Name: "x", Config: config.Source{Host: "h"}}
	rec := doRequest(t, router, http.MethodPut, "/v1/sources/missing", "tenant-1", req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSource(t *testing.T) {
	router := setupRouter(t)
	id := createSource(t, router, "tenant-1", "doomed")

	rec := doRequest(t, router, http.MethodDelete, "/v1/sources/"+id, "tenant-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/sources/%s", id), "tenant-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSourceIsolationAcrossTenants(t *testing.T) {
	router := setupRouter(t)
	id := createSource(t, router, "tenant-1", "mine")

	rec := doRequest(t, router, http.MethodGet, "/v1/sources/"+id, "tenant-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
