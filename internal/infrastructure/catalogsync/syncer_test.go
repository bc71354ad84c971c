package catalogsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

func TestSyncCatalog(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload syncPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("payload inválido: %v", err)
		}
		json.NewEncoder(w).Encode(syncResponse{Accepted: len(gotPayload.Products)})
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, APIKey: "k1"})
	products := []entity.Product{{ID: "p1", UserID: 7, Name: "fone"}}

	if err := s.SyncCatalog(context.Background(), 7, products); err != nil {
		t.Fatalf("SyncCatalog: %v", err)
	}
	if gotPath != "/api/v1/catalog/sync" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "k1" {
		t.Errorf("api key não enviada: %q", gotKey)
	}
	if gotPayload.UserID != 7 || len(gotPayload.Products) != 1 {
		t.Errorf("payload: %+v", gotPayload)
	}
}

func TestSyncCatalogPartialAcceptIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(syncResponse{Accepted: 0})
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL})
	err := s.SyncCatalog(context.Background(), 1, []entity.Product{{ID: "p1", Name: "fone"}})
	if err == nil {
		t.Fatal("aceite parcial devia virar erro")
	}
}

func TestSyncCatalogHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL})
	err := s.SyncCatalog(context.Background(), 1, nil)
	if err == nil {
		t.Fatal("status 401 devia virar erro")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CATALOG_SYNC_BASE_URL", "")
	if _, ok := FromEnv(); ok {
		t.Error("sem base URL o sync fica desligado")
	}

	t.Setenv("CATALOG_SYNC_BASE_URL", "http://backend:8080/")
	t.Setenv("CATALOG_SYNC_API_KEY", "k")
	cfg, ok := FromEnv()
	if !ok || cfg.BaseURL != "http://backend:8080" || cfg.APIKey != "k" {
		t.Errorf("FromEnv: (%+v, %v)", cfg, ok)
	}
}
