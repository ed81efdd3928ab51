package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xelth-com/invoiceflow/internal/config"
	"github.com/xelth-com/invoiceflow/internal/events"
	"github.com/xelth-com/invoiceflow/internal/extract"
	"github.com/xelth-com/invoiceflow/internal/imaging"
	"github.com/xelth-com/invoiceflow/internal/middleware"
	"github.com/xelth-com/invoiceflow/internal/models"
	"github.com/xelth-com/invoiceflow/internal/orders"
	"github.com/xelth-com/invoiceflow/internal/pipeline"
)

// Router wraps the mux router and the service dependencies
type Router struct {
	*mux.Router
	cfg    *config.Config
	svc    *pipeline.Service
	orders *orders.Store
	bus    *events.Bus
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, svc *pipeline.Service, orderStore *orders.Store, bus *events.Bus) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		cfg:    cfg,
		svc:    svc,
		orders: orderStore,
		bus:    bus,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/documents", r.protected(r.uploadDocument)).Methods("POST")
	api.HandleFunc("/documents/{id:[0-9]+}", r.getDocument).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/events", r.documentEvents).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/ws", r.documentSocket).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/save", r.protected(r.saveDocument)).Methods("PUT")
	api.HandleFunc("/orders", r.listOrders).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}", r.getOrder).Methods("GET")

	return r
}

// protected guards mutating routes with JWT auth when AUTH_REQUIRED is set
func (r *Router) protected(h http.HandlerFunc) http.HandlerFunc {
	if !r.cfg.AuthRequired {
		return h
	}
	guarded := middleware.Auth(r.cfg.JWTSecret)(h)
	return guarded.ServeHTTP
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondTypedError maps domain error types to HTTP status codes
func respondTypedError(w http.ResponseWriter, err error) {
	var (
		notFound    *models.NotFoundError
		validation  *models.ValidationError
		unsupported *imaging.UnsupportedInputError
		extraction  *extract.ExtractionError
	)
	switch {
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unsupported):
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &extraction):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
