// Package api exposes the mission planning HTTP surface.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/internal/logging"
	"github.com/skyroutex/surveyplanner/internal/observability"
	"github.com/skyroutex/surveyplanner/internal/schema"
	"github.com/skyroutex/surveyplanner/missionstore"
)

// Options configures the Server.
type Options struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Logger         logging.Logger
	Planner        *core.Planner
	Store          *missionstore.Store
	APIMetrics     *observability.APICollector
	PlannerMetrics *observability.PlannerCollector
}

// Server wraps the router and HTTP listener.
type Server struct {
	router *mux.Router
	server *http.Server

	log         logging.Logger
	planner     *core.Planner
	store       *missionstore.Store
	validator   *schema.Validator
	planMetrics *observability.PlannerCollector
}

// NewServer builds the router and binds all mission routes.
func NewServer(opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}
	planner := opts.Planner
	if planner == nil {
		planner = core.NewPlanner()
	}
	store := opts.Store
	if store == nil {
		store = missionstore.NewStore()
	}

	validator, err := schema.NewSurveyValidator()
	if err != nil {
		return nil, fmt.Errorf("build survey validator: %w", err)
	}

	router := mux.NewRouter()

	s := &Server{
		router:      router,
		log:         log,
		planner:     planner,
		store:       store,
		validator:   validator,
		planMetrics: opts.PlannerMetrics,
	}

	router.Use(s.requestLogMiddleware)
	if opts.APIMetrics != nil {
		router.Use(opts.APIMetrics.Middleware())
	}

	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	if opts.APIMetrics != nil {
		router.Handle("/metrics", opts.APIMetrics.Handler()).Methods(http.MethodGet)
	}

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/missions/plan", s.handlePlan).Methods(http.MethodPost)
	v1.HandleFunc("/missions/validate", s.handleValidate).Methods(http.MethodPost)
	v1.HandleFunc("/missions", s.handleList).Methods(http.MethodGet)
	v1.HandleFunc("/missions/{id}", s.handleGet).Methods(http.MethodGet)
	v1.HandleFunc("/missions/{id}", s.handleDelete).Methods(http.MethodDelete)
	v1.HandleFunc("/missions/{id}/kml", s.handleKML).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         opts.ListenAddr,
		Handler:      router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	return s, nil
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "http server starting",
		logging.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqLog := logging.WithRequestLogger(r.Context(), s.log)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		reqLog.Debug(ctx, "request handled",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("duration", time.Since(start).String()),
		)
	})
}
