package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/clinicalscribe/scribe-service/internal/api/respond"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	pinger store.HealthPinger
}

// NewHealthHandler creates a new health handler. pinger may be nil when the
// active store driver cannot report connectivity.
func NewHealthHandler(pinger store.HealthPinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// global health flag (1 = healthy, 0 = unhealthy)
var healthyFlag atomic.Int32

// lastProbeErr keeps the most recent dependency failure details.
var lastProbeErr atomic.Value // string

func init() {
	healthyFlag.Store(1)
	lastProbeErr.Store("")
}

// StartHealthMonitor launches a background goroutine that probes the
// generation backend every interval. Only ollama is probed; other providers
// are assumed reachable.
func StartHealthMonitor(ctx context.Context, provider, ollamaURL, model string, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		probe := func() {
			var errOllama error
			if strings.EqualFold(provider, "ollama") {
				errOllama = checkOllamaModel(ollamaURL, model)
			}
			if errOllama == nil {
				healthyFlag.Store(1)
				lastProbeErr.Store("")
			} else {
				healthyFlag.Store(0)
				lastProbeErr.Store(fmt.Sprintf("ollama %s: %v", ollamaURL, errOllama))
			}
		}

		// initial probe immediately
		probe()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probe()
			}
		}
	}()
}

// checkOllamaModel verifies that the given model appears in /api/tags.
func checkOllamaModel(base, model string) error {
	if base == "" {
		base = "http://localhost:11434"
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	resp, err := http.Get(base + "/api/tags")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama status %d", resp.StatusCode)
	}
	var data struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return err
	}
	target := strings.Split(model, ":")[0]
	for _, m := range data.Models {
		if strings.Split(m.Name, ":")[0] == target {
			return nil
		}
	}
	return fmt.Errorf("model %q not present", model)
}

// CheckHealth GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if healthyFlag.Load() == 1 {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	}
	detail, _ := lastProbeErr.Load().(string)
	respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "unhealthy",
		"detail": detail,
	})
}

// CheckStorageHealth GET /api/health/db
func (h *HealthHandler) CheckStorageHealth(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "unknown"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.pinger.HealthPing(ctx); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"detail": err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
