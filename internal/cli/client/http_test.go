package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Get_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"system_ready":true}}`))
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	resp, err := api.Get("/status")
	require.NoError(t, err)

	var status StatusResult
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.True(t, status.SystemReady)
}

func TestAPIClient_Post_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req AskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "How much notice?", req.Question)
		w.Write([]byte(`{"data":{"answer":"Thirty days."}}`))
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	resp, err := api.Post("/ask", AskRequest{Question: "How much notice?"})
	require.NoError(t, err)

	var result AskResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "Thirty days.", result.Answer)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"no documents indexed"}`))
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	_, err = api.Post("/ask", AskRequest{Question: "q"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "no documents indexed", apiErr.Message)
}

func TestAPIClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	_, err = api.Get("/status")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestAPIClient_UploadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lease.txt")
	require.NoError(t, os.WriteFile(path, []byte("Thirty days written notice."), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "lease.txt", header.Filename)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"success":true,"document_id":"doc-1","filename":"lease.txt","chunks_count":1}}`))
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	resp, err := api.UploadFile("/upload", path)
	require.NoError(t, err)

	var result UploadResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.True(t, result.Success)
	assert.Equal(t, "doc-1", result.DocumentID)
}

func TestAPIClient_BaseURLFromEnv(t *testing.T) {
	t.Setenv(envAPIURL, "http://example.test:9999")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9999", api.baseURL)
}

func TestAPIClient_DefaultBaseURL(t *testing.T) {
	t.Setenv(envAPIURL, "")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, api.baseURL)
}
