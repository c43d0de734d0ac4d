package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxdesk/internal/logger"
	"voxdesk/internal/middleware"
)

// RouterDeps bundles what the router needs
type RouterDeps struct {
	Contacts    *ContactHandler
	Calls       *CallHandler
	RateLimiter *middleware.RateLimiter
	Gatherer    prometheus.Gatherer
	Log         *logger.Logger
}

// NewRouter wires every route
func NewRouter(d RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Metrics, middleware.Logging(d.Log))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(RequireTenant(d.Log))

	api.HandleFunc("/contacts", d.Contacts.List).Methods(http.MethodGet)
	api.HandleFunc("/contacts", d.Contacts.Create).Methods(http.MethodPost)
	api.HandleFunc("/contacts/import", d.Contacts.Import).Methods(http.MethodPost)
	api.HandleFunc("/contacts/export", d.Contacts.Export).Methods(http.MethodGet)
	api.HandleFunc("/contacts/{id}", d.Contacts.Get).Methods(http.MethodGet)
	api.HandleFunc("/contacts/{id}", d.Contacts.Update).Methods(http.MethodPut)
	api.HandleFunc("/contacts/{id}", d.Contacts.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/phone/normalize", d.Calls.Normalize).Methods(http.MethodPost)
	api.Handle("/calls", d.RateLimiter.Middleware(http.HandlerFunc(d.Calls.Call))).Methods(http.MethodPost)

	return router
}
