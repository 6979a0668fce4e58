package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgio92/delegatescan/internal/httpapi"
)

func TestHealth(t *testing.T) {
	handler := httpapi.NewHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyze_BytecodeBody(t *testing.T) {
	handler := httpapi.NewHandler(nil)
	body := []byte(`{"bytecode":"0x00"}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, float64(0), out["delegatecallCount"])
}

func TestAnalyze_InvalidBodyIs400(t *testing.T) {
	handler := httpapi.NewHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`not json`)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out["error"])
}

func TestAnalyze_MissingInputIs400(t *testing.T) {
	handler := httpapi.NewHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_MalformedBytecodeIs400(t *testing.T) {
	handler := httpapi.NewHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{"bytecode":"0xzz"}`)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_WrongMethod(t *testing.T) {
	handler := httpapi.NewHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
