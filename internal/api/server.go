// Package api provides the HTTP server for the dream bank.
// It is a thin JSON layer over the reward engine and owns no business rules.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tutu-network/dreambank/internal/app/reward"
	"github.com/tutu-network/dreambank/internal/domain"
	"github.com/tutu-network/dreambank/internal/infra/logger"
)

// Server is the dream bank HTTP API server.
type Server struct {
	// mu serializes every engine call; the engine itself holds no locks.
	mu             sync.Mutex
	bank           *reward.Engine
	log            *logger.Logger
	metricsEnabled bool
}

// NewServer creates a new API server over bank.
func NewServer(bank *reward.Engine, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{bank: bank, log: log}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.log.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// GET    /api/users                            roster
	// POST   /api/users                            add user
	// DELETE /api/users/{user}                     delete user
	// GET    /api/users/{user}/status              dashboard
	// POST   /api/users/{user}/reset               zero ledger, clear log
	// GET    /api/users/{user}/log                 activity log
	// DELETE /api/users/{user}/log/{entry}         retract an entry
	// POST   /api/users/{user}/completions         complete an activity
	// POST   /api/users/{user}/treat-purchases     buy a treat
	// POST   /api/users/{user}/dream-purchases     buy a dream
	// GET|POST /api/{activities,treats,dreams}     catalog list / add
	// PUT|DELETE /api/{activities,treats,dreams}/{ref}
	// GET    /api/pool, POST /api/pool/reset       shared dream pool
	// GET    /api/export, POST /api/import         full snapshot
	r.Route("/api", func(r chi.Router) {
		r.Use(s.serialize)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleAddUser)
			r.Route("/{user}", func(r chi.Router) {
				r.Delete("/", s.handleDeleteUser)
				r.Get("/status", s.handleStatus)
				r.Post("/reset", s.handleResetUser)
				r.Get("/log", s.handleLog)
				r.Delete("/log/{entry}", s.handleDeleteLogEntry)
				r.Post("/completions", s.handleComplete)
				r.Post("/treat-purchases", s.handlePurchaseTreat)
				r.Post("/dream-purchases", s.handlePurchaseDream)
			})
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", s.handleListActivities)
			r.Post("/", s.handleAddActivity)
			r.Put("/{ref}", s.handleEditActivity)
			r.Delete("/{ref}", s.handleRemoveActivity)
		})
		r.Route("/treats", func(r chi.Router) {
			r.Get("/", s.handleListTreats)
			r.Post("/", s.handleAddTreat)
			r.Put("/{ref}", s.handleEditTreat)
			r.Delete("/{ref}", s.handleRemoveTreat)
		})
		r.Route("/dreams", func(r chi.Router) {
			r.Get("/", s.handleListDreams)
			r.Post("/", s.handleAddDream)
			r.Put("/{ref}", s.handleEditDream)
			r.Delete("/{ref}", s.handleRemoveDream)
		})

		r.Get("/pool", s.handlePool)
		r.Post("/pool/reset", s.handleResetPool)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	return r
}

// serialize runs one API request at a time.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    errorType(status),
		},
	})
}

// writeDomainError maps a domain error onto its HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateUser), errors.Is(err, domain.ErrAlreadyPurchased):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientPoints):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorType(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "insufficient_points"
	case http.StatusBadRequest:
		return "invalid_request"
	default:
		return "internal_error"
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// pathParam returns the unescaped URL parameter key.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
