package catalogsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// Config points at the external catalog service.
type Config struct {
	BaseURL string
	APIKey  string
}

// FromEnv reads CATALOG_SYNC_* variables. ok=false means the feature is off.
func FromEnv() (Config, bool) {
	baseURL := strings.TrimSpace(os.Getenv("CATALOG_SYNC_BASE_URL"))
	if baseURL == "" {
		return Config{}, false
	}
	return Config{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  strings.TrimSpace(os.Getenv("CATALOG_SYNC_API_KEY")),
	}, true
}

// Syncer pushes a user's catalog to the external service.
type Syncer struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Syncer {
	return &Syncer{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

type syncPayload struct {
	UserID   int64            `json:"user_id"`
	Products []entity.Product `json:"products"`
}

type syncResponse struct {
	Accepted int `json:"accepted"`
}

// SyncCatalog uploads the full catalog snapshot. The service owns merging;
// the bot just ships current state.
func (s *Syncer) SyncCatalog(ctx context.Context, userID int64, products []entity.Product) error {
	body, err := json.Marshal(syncPayload{UserID: userID, Products: products})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/api/v1/catalog/sync", s.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("catalog sync status=%d: %s", resp.StatusCode, msg)
	}

	var out syncResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, 1<<20))
	if err := dec.Decode(&out); err != nil {
		return fmt.Errorf("decode sync response: %w", err)
	}
	if out.Accepted != len(products) {
		return fmt.Errorf("catalog sync aceitou %d de %d produtos", out.Accepted, len(products))
	}
	return nil
}

// Health pings the service, for startup diagnostics.
func (s *Syncer) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health status=%d", resp.StatusCode)
	}
	return nil
}
