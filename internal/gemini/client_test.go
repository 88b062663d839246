package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pairaudit/internal/gemini"
	"pairaudit/internal/ingest"
)

func newTestServer(t *testing.T, status int, body string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") == "" {
			t.Error("missing api key header")
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func candidateReply(text string, citations ...map[string]any) string {
	chunks := make([]map[string]any, 0, len(citations))
	for _, citation := range citations {
		chunks = append(chunks, map[string]any{"web": citation})
	}
	reply := map[string]any{
		"candidates": []map[string]any{{
			"content":           map[string]any{"parts": []map[string]any{{"text": text}}},
			"groundingMetadata": map[string]any{"groundingChunks": chunks},
		}},
	}
	encoded, _ := json.Marshal(reply)
	return string(encoded)
}

func TestResolveDecodesVerdictAndCitations(t *testing.T) {
	body := candidateReply(
		"MATCH: Yes\nDOMAIN_LS: Logistics\nDOMAIN_DBM: Freight\nREASONING: Same site.",
		map[string]any{"uri": "https://example.com/a", "title": "Example A"},
		map[string]any{"title": "Title only"},
		map[string]any{},
	)
	var captured map[string]any
	server := newTestServer(t, http.StatusOK, body, &captured)
	defer server.Close()

	client := gemini.NewClient(gemini.Config{APIKey: "k", BaseURL: server.URL, Model: "test-model"})
	metadata := ingest.NewRow(
		[]string{"LS Supplier Name", "DBM Supplier Name", "Address", "Needs for Review", "Email"},
		[]string{"Global Logistics", "Global Freight", "789 Port Way, FL", "No", ""},
	)

	verdict, err := client.Resolve(context.Background(), "Global Logistics", "Global Freight", metadata)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !verdict.IsMatch || verdict.SectorA != "Logistics" || verdict.SectorB != "Freight" {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
	// Entries with no link or title carrier are discarded; title-only survives.
	if len(verdict.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(verdict.Citations))
	}
	if verdict.Citations[0].URI != "https://example.com/a" {
		t.Fatalf("unexpected citation %+v", verdict.Citations[0])
	}

	// Prompt carries context lines for non-redundant columns only.
	encoded, _ := json.Marshal(captured)
	prompt := string(encoded)
	if !strings.Contains(prompt, "789 Port Way") {
		t.Fatal("expected address context line in prompt")
	}
	if strings.Contains(prompt, "Needs for Review") {
		t.Fatal("review flag column must be excluded from context")
	}
	if !strings.Contains(prompt, "google_search") {
		t.Fatal("expected google search tool in request")
	}
}

func TestResolveHTTPErrorSurfacesStatus(t *testing.T) {
	server := newTestServer(t, http.StatusTooManyRequests, `{"error":{"message":"quota"}}`, nil)
	defer server.Close()

	client := gemini.NewClient(gemini.Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.Resolve(context.Background(), "A", "B", ingest.Row{})
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr *gemini.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d", statusErr.StatusCode)
	}
}

func TestResolveEmptyCandidates(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"candidates":[]}`, nil)
	defer server.Close()

	client := gemini.NewClient(gemini.Config{APIKey: "k", BaseURL: server.URL})
	if _, err := client.Resolve(context.Background(), "A", "B", ingest.Row{}); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestResolveAPIErrorBody(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"error":{"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, nil)
	defer server.Close()

	client := gemini.NewClient(gemini.Config{APIKey: "bad", BaseURL: server.URL})
	_, err := client.Resolve(context.Background(), "A", "B", ingest.Row{})
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected api error message, got %v", err)
	}
}

func TestResolveRequiresNames(t *testing.T) {
	client := gemini.NewClient(gemini.Config{APIKey: "k"})
	if _, err := client.Resolve(context.Background(), "", "B", ingest.Row{}); err == nil {
		t.Fatal("expected error for missing supplier name")
	}
}

func TestResolveRequiresAPIKey(t *testing.T) {
	client := gemini.NewClient(gemini.Config{})
	if _, err := client.Resolve(context.Background(), "A", "B", ingest.Row{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
