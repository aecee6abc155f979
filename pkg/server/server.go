package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harshj20/taskflow/pkg/engine"
	"github.com/harshj20/taskflow/pkg/eventbus"
	"github.com/harshj20/taskflow/pkg/health"
	"github.com/harshj20/taskflow/pkg/logging"
	"github.com/harshj20/taskflow/pkg/registry"
	"github.com/harshj20/taskflow/pkg/schema"
	"github.com/harshj20/taskflow/pkg/store"
	"github.com/harshj20/taskflow/pkg/telemetry"
	"github.com/harshj20/taskflow/pkg/types"
)

// Config holds server configuration.
type Config struct {
	Address            string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	EnableCORS         bool
	CORSAllowedOrigins []string

	RateLimitPerSecond float64
	RateLimitBurst     int

	MaxNodes int
	MaxEdges int
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:            ":8080",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 10 * 1024 * 1024,
		EnableCORS:         true,
		CORSAllowedOrigins: []string{"*"},
		RateLimitPerSecond: 20,
		RateLimitBurst:     40,
		MaxNodes:           1000,
		MaxEdges:           5000,
	}
}

// Deps are the already-constructed collaborators the server routes
// requests to. Nothing in this package builds its own engine, store, or
// telemetry provider; cmd/server wires those once at startup and passes
// them in, consistent with this module's explicit-construction style.
type Deps struct {
	Tools      *registry.Registry
	Composer   *schema.Composer
	Store      store.Store
	Engine     *engine.Engine
	Health     *health.Checker
	Telemetry  *telemetry.Provider
	Publisher  *eventbus.Publisher  // optional: not read by the handlers
	Subscriber *eventbus.Subscriber // optional: nil disables /events streaming
	Logger     *logging.Logger
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	deps       Deps
	httpServer *http.Server
	validate   *validator.Validate
	limiter    *ipRateLimiter
	logger     *logging.Logger
	stopSweep  chan struct{}
}

// New builds a Server from cfg and deps and wires its full route table.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Tools == nil || deps.Engine == nil || deps.Store == nil {
		return nil, fmt.Errorf("server: Tools, Engine, and Store are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}

	s := &Server{
		config:   cfg,
		deps:     deps,
		validate: validator.New(),
		logger:   logger,
	}
	if cfg.RateLimitPerSecond > 0 {
		s.limiter = newIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
		s.stopSweep = make(chan struct{})
		go s.runLimiterSweep()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(s.loggingMiddleware)
	router.Use(s.rateLimitMiddleware)

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	s.routes(router)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes(r chi.Router) {
	if s.deps.Health != nil {
		r.Get("/healthz", s.deps.Health.HTTPHandler())
		r.Get("/livez", s.deps.Health.LivenessHandler())
		r.Get("/readyz", s.deps.Health.ReadinessHandler())
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Get("/tools/{name}/schema", s.handleToolSchema)
		r.Post("/tools/{name}/invoke", s.handleInvokeTool)

		r.Post("/workflows", s.handleSubmitWorkflow)
		r.Get("/workflows/{id}", s.handleGetWorkflow)
		r.Get("/workflows/{id}/events", s.handleWorkflowEvents)
	})
}

// handleListTools returns the tool catalogue, optionally filtered by
// ?category=.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	category := types.ToolCategory(r.URL.Query().Get("category"))
	s.writeJSON(w, http.StatusOK, s.deps.Tools.Catalogue(category))
}

// handleToolSchema returns a single tool's standalone input schema.
func (s *Server) handleToolSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	schemaDoc, err := s.deps.Composer.StandaloneSchema(name)
	if err != nil {
		s.writeErrorResponse(w, "tool not found", http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, schemaDoc)
}

// handleInvokeTool runs a single tool directly, outside of any workflow,
// validating its input and output against the tool's declared schemas.
func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	tool, err := s.deps.Tools.Lookup(name)
	if err != nil {
		s.writeErrorResponse(w, "tool not found", http.StatusNotFound, err)
		return
	}
	contract := tool.Contract()

	var inputs map[string]interface{}
	if err := s.decodeJSON(w, r, &inputs); err != nil {
		s.writeErrorResponse(w, "invalid request body", http.StatusBadRequest, err)
		return
	}

	if err := schema.ValidateInstance(contract.InputSchema, inputs); err != nil {
		s.writeErrorResponse(w, "input validation failed", http.StatusBadRequest, err)
		return
	}

	outputs, err := tool.Execute(r.Context(), inputs)
	if err != nil {
		s.writeErrorResponse(w, "tool execution failed", http.StatusInternalServerError, err)
		return
	}

	if err := schema.ValidateInstance(contract.OutputSchema, outputs); err != nil {
		s.writeErrorResponse(w, "tool returned a malformed output", http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, outputs)
}

// handleSubmitWorkflow decodes, validates, and synchronously runs a
// WorkflowSpec, returning the completed WorkflowExecution.
func (s *Server) handleSubmitWorkflow(w http.ResponseWriter, r *http.Request) {
	var spec types.WorkflowSpec
	if err := s.decodeJSON(w, r, &spec); err != nil {
		s.writeErrorResponse(w, "invalid request body", http.StatusBadRequest, err)
		return
	}

	if err := s.validate.Struct(spec); err != nil {
		s.writeErrorResponse(w, "workflow spec failed validation", http.StatusBadRequest, err)
		return
	}

	maxNodes := s.config.MaxNodes
	if maxNodes > 0 && len(spec.Nodes) > maxNodes {
		s.writeErrorResponse(w, ErrTooManyNodes.Error(), http.StatusBadRequest, ErrTooManyNodes)
		return
	}
	maxEdges := s.config.MaxEdges
	if maxEdges > 0 && len(spec.Edges) > maxEdges {
		s.writeErrorResponse(w, ErrTooManyEdges.Error(), http.StatusBadRequest, ErrTooManyEdges)
		return
	}

	we, err := s.deps.Engine.Execute(r.Context(), spec)
	if err != nil && we == nil {
		s.writeErrorResponse(w, "workflow execution failed", http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if we.Status == types.StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, we)
}

// handleGetWorkflow returns the persisted record of a previously submitted
// workflow.
func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	we, err := s.deps.Store.GetWorkflow(r.Context(), id)
	if err != nil {
		s.writeErrorResponse(w, "workflow not found", http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, we)
}

// handleWorkflowEvents streams a workflow's event sequence as newline
// delimited JSON, read back off its Redis pub/sub channel. Available only
// when the server was built with an eventbus.Subscriber.
func (s *Server) handleWorkflowEvents(w http.ResponseWriter, r *http.Request) {
	if s.deps.Subscriber == nil {
		s.writeErrorResponse(w, ErrEventsUnavailable.Error(), http.StatusNotImplemented, ErrEventsUnavailable)
		return
	}
	id := chi.URLParam(r, "id")

	sub := s.deps.Subscriber.Subscribe(r.Context(), id)
	defer sub.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	ch := sub.Channel()
	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			event, err := eventbus.DecodeEvent(msg.Payload)
			if err != nil {
				continue
			}
			if err := json.NewEncoder(w).Encode(event); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
			if event.Type == "complete" {
				return
			}
		}
	}
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if s.config.MaxRequestBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestBodySize)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int, err error) {
	s.logger.WithError(err).WithField("status_code", statusCode).Error(message)
	s.writeJSON(w, statusCode, map[string]interface{}{
		"error":   message,
		"details": err.Error(),
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status_code": ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
		}).Info("http request")
	})
}

// Start runs the HTTP server until it is shut down. It always returns a
// non-nil error, which is http.ErrServerClosed on a clean Shutdown.
func (s *Server) Start() error {
	s.logger.WithField("address", s.config.Address).Info("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return http.ErrServerClosed
}

// runLimiterSweep periodically evicts idle per-IP buckets so the limiter's
// memory stays bounded under churn from many distinct clients.
func (s *Server) runLimiterSweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.limiter.sweep(15 * time.Minute)
		case <-s.stopSweep:
			return
		}
	}
}

// Shutdown gracefully stops the HTTP server and, if configured, the
// telemetry provider.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if s.stopSweep != nil {
		close(s.stopSweep)
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if s.deps.Telemetry != nil {
		if err := s.deps.Telemetry.Shutdown(ctx); err != nil {
			return fmt.Errorf("server: telemetry shutdown: %w", err)
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
