package kb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRetrieve_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/retrieve" {
			t.Errorf("expected /retrieve path, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.KnowledgeBaseID != "KB123" {
			t.Errorf("expected knowledgeBaseId KB123, got %q", req.KnowledgeBaseID)
		}
		if req.Query != "mileage limits" {
			t.Errorf("expected query 'mileage limits', got %q", req.Query)
		}
		if req.TopK != 5 {
			t.Errorf("expected topK 5, got %d", req.TopK)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"text": "Unlimited mileage is included.", "score": 0.92},
				{"text": "", "score": 0.4},
				{"text": "No extra mileage fees apply.", "score": 0.31},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "KB123")
	texts, err := c.Retrieve(context.Background(), "mileage limits", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("expected 2 non-empty passages, got %d", len(texts))
	}
	if texts[0] != "Unlimited mileage is included." {
		t.Errorf("unexpected first passage: %q", texts[0])
	}
}

func TestRetrieve_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "index rebuilding"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "KB123")
	_, err := c.Retrieve(context.Background(), "anything", 3)
	if err == nil {
		t.Fatal("expected error for service error response")
	}
}

func TestRetrieve_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer server.Close()

	c := NewClient(server.URL, "KB123")
	texts, err := c.Retrieve(context.Background(), "off-topic", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(texts) != 0 {
		t.Errorf("expected no passages, got %d", len(texts))
	}
}
