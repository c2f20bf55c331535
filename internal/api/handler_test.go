package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finlens/finlens/internal/llm"
	"github.com/finlens/finlens/internal/model"
	"github.com/finlens/finlens/internal/pipeline"
)

type mockProvider struct {
	response string
	err      error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "mock"}, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

func newTestHandler(provider llm.Provider) *Handler {
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = ""
	return &Handler{
		Pipeline: pipeline.New(cfg),
		Provider: provider,
	}
}

func uploadCSV(t *testing.T, h *Handler, csv string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "statement.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.ServeHTTP(rec, req)
	return rec
}

const sampleCSV = `Item,Prior,Current
TOTAL ASSETS,1000,1200
SHORT-TERM ASSETS,400,600
SHORT-TERM LIABILITIES,200,300
`

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(nil)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("Unexpected health body: %s", rec.Body.String())
	}
}

func TestHandleAnalyze_Success(t *testing.T) {
	rec := uploadCSV(t, newTestHandler(nil), sampleCSV)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success, got error %q", resp.Error)
	}
	if resp.Fingerprint == "" {
		t.Error("Expected a content fingerprint")
	}
	if len(resp.Statement.Items) != 3 {
		t.Errorf("Expected 3 items, got %d", len(resp.Statement.Items))
	}
	if !resp.Metrics.Liquidity.Available {
		t.Error("Expected liquidity to be available")
	}
	if !strings.Contains(resp.Table, "TOTAL ASSETS") {
		t.Error("Expected rendered table in response")
	}
}

func TestHandleAnalyze_MissingAnchor(t *testing.T) {
	rec := uploadCSV(t, newTestHandler(nil), "INVENTORY,100,200\n")

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Error("Expected a distinct error message")
	}
}

func TestHandleAnalyze_MalformedInput(t *testing.T) {
	rec := uploadCSV(t, newTestHandler(nil), "TOTAL ASSETS,1000\n")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleChat_RoundTrip(t *testing.T) {
	h := newTestHandler(&mockProvider{response: "Total assets grew 20%."})

	// Analyze first so the statement lands in the cache
	rec := uploadCSV(t, h, sampleCSV)
	var analyzed AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &analyzed); err != nil {
		t.Fatalf("unmarshal analyze response: %v", err)
	}

	chatReq := ChatRequest{
		Fingerprint: analyzed.Fingerprint,
		Question:    "How did total assets grow?",
	}
	body, _ := json.Marshal(chatReq)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	chatRec := httptest.NewRecorder()
	mux.ServeHTTP(chatRec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	if chatRec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", chatRec.Code, chatRec.Body.String())
	}
	var resp ChatResponse
	if err := json.Unmarshal(chatRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal chat response: %v", err)
	}
	if resp.Reply != "Total assets grew 20%." {
		t.Errorf("Unexpected reply: %q", resp.Reply)
	}
	if len(resp.History) != 2 {
		t.Errorf("Expected 2 history turns returned, got %d", len(resp.History))
	}
}

func TestHandleChat_UnknownFingerprint(t *testing.T) {
	h := newTestHandler(&mockProvider{response: "ok"})

	body, _ := json.Marshal(ChatRequest{Fingerprint: "finlens:v1:unknown", Question: "q"})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleChat_NoProviderConfigured(t *testing.T) {
	h := newTestHandler(nil)

	body, _ := json.Marshal(ChatRequest{Fingerprint: "x", Question: "q"})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Kind != "config" {
		t.Errorf("Expected config error kind, got %q", resp.Kind)
	}
}

func TestHandleChat_ProviderFailureIsClassified(t *testing.T) {
	h := newTestHandler(&mockProvider{
		err: &llm.Error{Kind: llm.KindQuota, Provider: "mock", Err: errors.New("quota exceeded")},
	})

	rec := uploadCSV(t, h, sampleCSV)
	var analyzed AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &analyzed); err != nil {
		t.Fatalf("unmarshal analyze response: %v", err)
	}

	body, _ := json.Marshal(ChatRequest{Fingerprint: analyzed.Fingerprint, Question: "q"})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	chatRec := httptest.NewRecorder()
	mux.ServeHTTP(chatRec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	if chatRec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", chatRec.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(chatRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Kind != string(llm.KindQuota) {
		t.Errorf("Expected quota kind, got %q", resp.Kind)
	}

	// A failed chat turn must not invalidate the derived statement
	if _, found := h.Pipeline.Lookup(analyzed.Fingerprint); !found {
		t.Error("Expected derived statement to survive the failed chat turn")
	}
}
