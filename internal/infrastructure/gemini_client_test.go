package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"botpage/internal/entities"
)

func TestGeminiProviderReply(t *testing.T) {
	var gotKey string
	var gotBody geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "Olá, posso ajudar!"}},
				}},
			},
		})
	}))
	defer srv.Close()

	p := &GeminiProvider{endpoint: srv.URL, httpClient: srv.Client()}

	history := []entities.Message{
		{Role: entities.RoleUser, Content: "Oi"},
		{Role: entities.RoleBot, Content: "Olá!"},
		{Role: entities.RoleUser, Content: "Qual o horário?"},
	}
	reply, err := p.Reply(context.Background(), "gemini-key-1", history, "Horário: 9h às 18h", "Sem triagem")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "Olá, posso ajudar!" {
		t.Fatalf("reply = %q", reply)
	}
	if gotKey != "gemini-key-1" {
		t.Fatalf("api key header = %q", gotKey)
	}

	prompt := gotBody.Contents[0].Parts[0].Text
	for _, want := range []string{"Horário: 9h às 18h", "Sem triagem", "Cliente: Oi", "Atendente: Olá!", "Cliente: Qual o horário?"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGeminiProviderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &GeminiProvider{endpoint: srv.URL, httpClient: srv.Client()}
	_, err := p.Reply(context.Background(), "k", nil, "", "")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("want upstream status in error, got %v", err)
	}
}

func TestObjectStorageUpload(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewObjectStorage(srv.URL, "service-key", "logos")
	url, err := store.Upload(context.Background(), "acme-123.png", []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if gotPath != "/storage/v1/object/logos/acme-123.png" {
		t.Fatalf("upload path = %q", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if url != srv.URL+"/storage/v1/object/public/logos/acme-123.png" {
		t.Fatalf("public url = %q", url)
	}
}

func TestObjectStorageUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewObjectStorage(srv.URL, "service-key", "logos")
	if _, err := store.Upload(context.Background(), "x.png", nil); err == nil {
		t.Fatal("upload failure should surface an error")
	}
}
