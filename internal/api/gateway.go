// Package api exposes the chat engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/internal/engine"
	"github.com/StyNW7/Zenium/internal/health"
)

// Gateway wires HTTP routes to the chat engine.
type Gateway struct {
	server  *http.Server
	router  *mux.Router
	engine  *engine.Engine
	checker *health.Checker
	config  config.APIConfig
	metrics *GatewayMetrics
}

// GatewayMetrics counts requests by path, method and status.
type GatewayMetrics struct {
	mu               sync.Mutex
	RequestsTotal    int64            `json:"requests_total"`
	AverageLatency   time.Duration    `json:"average_latency"`
	RequestsByPath   map[string]int64 `json:"requests_by_path"`
	RequestsByMethod map[string]int64 `json:"requests_by_method"`
	RequestsByStatus map[int]int64    `json:"requests_by_status"`
	LastRequest      time.Time        `json:"last_request"`
}

// NewGateway creates the gateway with routes and middleware configured.
func NewGateway(cfg config.APIConfig, eng *engine.Engine, checker *health.Checker) *Gateway {
	router := mux.NewRouter()

	g := &Gateway{
		router:  router,
		engine:  eng,
		checker: checker,
		config:  cfg,
		metrics: &GatewayMetrics{
			RequestsByPath:   make(map[string]int64),
			RequestsByMethod: make(map[string]int64),
			RequestsByStatus: make(map[int]int64),
		},
	}

	g.setupRoutes()
	g.setupMiddleware()

	g.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return g
}

func (g *Gateway) setupRoutes() {
	api := g.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/chat", g.handleChat).Methods("POST")
	api.HandleFunc("/accept_suggestion", g.handleAcceptSuggestion).Methods("POST")
	api.HandleFunc("/feedback", g.handleFeedback).Methods("POST")

	api.HandleFunc("/session/{id}", g.handleGetSession).Methods("GET")
	api.HandleFunc("/session/{id}", g.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions", g.handleListSessions).Methods("GET")

	api.HandleFunc("/metrics", g.handleMetrics).Methods("GET")
	api.HandleFunc("/health", g.checker.HTTPHandler()).Methods("GET")
}

func (g *Gateway) setupMiddleware() {
	if g.config.EnableCORS {
		c := cors.New(cors.Options{
			AllowedOrigins:   g.config.AllowedOrigins,
			AllowedMethods:   g.config.AllowedMethods,
			AllowedHeaders:   g.config.AllowedHeaders,
			AllowCredentials: true,
		})
		g.router.Use(c.Handler)
	}
	g.router.Use(g.metricsMiddleware)
}

// Start starts serving. Blocks until the server stops.
func (g *Gateway) Start() error {
	log.Printf("Starting API gateway on %s", g.server.Addr)
	return g.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (g *Gateway) Stop(ctx context.Context) error {
	log.Printf("Stopping API gateway")
	return g.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

func (g *Gateway) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		g.updateMetrics(r, wrapped.statusCode, time.Since(start))
	})
}

func (g *Gateway) updateMetrics(r *http.Request, statusCode int, duration time.Duration) {
	g.metrics.mu.Lock()
	defer g.metrics.mu.Unlock()

	g.metrics.RequestsTotal++
	g.metrics.RequestsByPath[r.URL.Path]++
	g.metrics.RequestsByMethod[r.Method]++
	g.metrics.RequestsByStatus[statusCode]++
	g.metrics.LastRequest = time.Now()

	if g.metrics.AverageLatency == 0 {
		g.metrics.AverageLatency = duration
	} else {
		g.metrics.AverageLatency = (g.metrics.AverageLatency + duration) / 2
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
