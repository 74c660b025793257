package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"propshare/internal/service"
)

// opsDeps is what the internal operations router needs
type opsDeps struct {
	store   interface{ Ping(context.Context) error }
	sweeper *service.MaturationService
	driver  string
}

// newOpsRouter builds the internal router for health checks and manual sweeps.
// It is meant to be reachable only from inside the deployment.
func newOpsRouter(deps opsDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", handleHealth(deps))
	r.Post("/sweep/trigger", handleTriggerSweep(deps.sweeper))
	r.Get("/sweep/status", handleSweepStatus(deps.sweeper))

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[WARN] Failed to write ops response: %v", err)
	}
}

func handleHealth(deps opsDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		storeStatus := "healthy"
		if err := deps.store.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			storeStatus = "unhealthy"
		}

		writeJSON(w, status, map[string]string{
			"service":      "propshare-ops",
			"store":        storeStatus,
			"store_driver": deps.driver,
			"timestamp":    time.Now().Format(time.RFC3339),
		})
	}
}

func handleTriggerSweep(sweeper *service.MaturationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("Manual maturation sweep triggered via ops API")

		released, err := sweeper.Sweep(r.Context())
		if err != nil {
			log.Printf("[ERROR] Manual sweep failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sweep failed"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Maturation sweep completed",
			"released": released,
		})
	}
}

func handleSweepStatus(sweeper *service.MaturationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sweeper.Status())
	}
}
