//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/lexora/internal/api/handlers"
	"github.com/cloo-solutions/lexora/internal/chunker"
	"github.com/cloo-solutions/lexora/internal/embedding"
	"github.com/cloo-solutions/lexora/internal/index"
	"github.com/cloo-solutions/lexora/internal/jobs"
	"github.com/cloo-solutions/lexora/internal/llm"
	"github.com/cloo-solutions/lexora/internal/registry"
	"github.com/cloo-solutions/lexora/internal/server"
	"github.com/cloo-solutions/lexora/internal/service"
)

// E2ETestEnv holds the full in-process stack: a stub OpenAI-compatible
// model server and the API server wired against it.
type E2ETestEnv struct {
	T          *testing.T
	ModelStub  *httptest.Server
	Server     *httptest.Server
	HTTPClient *http.Client
}

const stubAnswer = "Based on the provided provisions, thirty days written notice is required."

// SetupE2EEnv starts a stub model endpoint and the API server against it.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	modelStub := httptest.NewServer(http.HandlerFunc(modelStubHandler))

	provider := embedding.NewOpenAIProvider(embedding.Config{
		APIKey:     "test-key",
		BaseURL:    modelStub.URL + "/v1",
		Dimensions: 3,
	})
	generator := llm.NewOpenAIGenerator(llm.Config{
		APIKey:  "test-key",
		BaseURL: modelStub.URL + "/v1",
	})

	reg := registry.New()
	idx := index.NewMemory(0)

	pipeline := service.NewIngestPipeline(provider, chunker.DefaultConfig())
	retrieval := service.NewRetrievalEngine(provider, idx, reg)
	synth := service.NewSynthesizer(generator, service.MeanRelevance{})
	orchestrator := service.NewOrchestrator(pipeline, retrieval, synth, reg, idx, time.Minute)

	probe := jobs.NewLLMProbe(generator, orchestrator)
	if err := probe.ProcessJobs(t.Context()); err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	router := server.NewRouter(server.RouterConfig{
		UploadHandler:   handlers.NewUploadHandler(orchestrator, 10*1024*1024),
		AskHandler:      handlers.NewAskHandler(orchestrator),
		StatusHandler:   handlers.NewStatusHandler(orchestrator),
		DocumentHandler: handlers.NewDocumentHandler(orchestrator),
		MaxBodyBytes:    10 * 1024 * 1024,
	})

	srv := httptest.NewServer(router)

	return &E2ETestEnv{
		T:          t,
		ModelStub:  modelStub,
		Server:     srv,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Cleanup tears down both servers.
func (e *E2ETestEnv) Cleanup() {
	e.Server.Close()
	e.ModelStub.Close()
}

// modelStubHandler implements just enough of the OpenAI API surface for the
// stack under test: embeddings, chat completions and the models listing.
func modelStubHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/embeddings"):
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Input) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		vec := keywordVector(req.Input[0])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data": []map[string]interface{}{
				{"object": "embedding", "index": 0, "embedding": vec},
			},
			"model": "stub-embedding",
		})

	case strings.HasSuffix(r.URL.Path, "/chat/completions"):
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": stubAnswer}},
			},
		})

	case strings.HasSuffix(r.URL.Path, "/models"):
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "stub-model", "object": "model"}},
		})

	default:
		http.NotFound(w, r)
	}
}

// keywordVector maps legal vocabulary onto fixed directions so retrieval is
// deterministic end to end.
func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "notice") || strings.Contains(lower, "terminat"):
		return []float32{1, 0, 0}
	case strings.Contains(lower, "rent") || strings.Contains(lower, "payment"):
		return []float32{0, 1, 0}
	default:
		return []float32{0, 0, 1}
	}
}

// APIResponse mirrors the server envelope.
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request against the API server.
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	resp, err := e.HTTPClient.Get(e.Server.URL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parse(resp)
}

// Post performs a POST request with a JSON body.
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := e.HTTPClient.Post(e.Server.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parse(resp)
}

// Delete performs a DELETE request.
func (e *E2ETestEnv) Delete(path string) (*APIResponse, error) {
	req, err := http.NewRequest("DELETE", e.Server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parse(resp)
}

// Upload posts file content as multipart form data.
func (e *E2ETestEnv) Upload(filename, content string) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	resp, err := e.HTTPClient.Post(e.Server.URL+"/upload", writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parse(resp)
}

func parse(resp *http.Response) (*APIResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, apiResp.Error)
	}
	return &apiResp, nil
}
