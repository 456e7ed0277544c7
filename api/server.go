// Package api provides the HTTP REST API server for stockpicker.
//
// It exposes endpoints for the industry taxonomy, sector overviews,
// screening, stock analysis, value divergence ranking, sentiment-tagged
// news and headline classification, plus a WebSocket progress stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/seenimoa/stockpicker/internal/analysis/divergence"
	"github.com/seenimoa/stockpicker/internal/analysis/fundamental"
	"github.com/seenimoa/stockpicker/internal/config"
	"github.com/seenimoa/stockpicker/internal/datasource"
	"github.com/seenimoa/stockpicker/internal/picker"
	"github.com/seenimoa/stockpicker/internal/screener"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/web"
)

// Picker is the set of operations the API serves.
type Picker interface {
	Industries(ctx context.Context) (models.SectorMap, error)
	SectorOverview(ctx context.Context, sector string) (*picker.SectorOverview, error)
	Screen(ctx context.Context, kind models.ScreenKind, value string, key screener.SortKey, scores map[string]divergence.Result) ([]models.ScreenedStock, error)
	Relative(ctx context.Context, symbol, industry string) ([]fundamental.RelativeMetric, error)
	DivergenceScores(ctx context.Context, symbols []string, progress picker.ProgressFunc) (map[string]divergence.Result, error)
	Analyze(ctx context.Context, symbol string, peers []string) (*picker.Analysis, error)
	StockNews(ctx context.Context, stock string) (*picker.NewsReport, error)
	MarketNews(ctx context.Context, limit int) (*picker.NewsReport, error)
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	svc      Picker
	wsHub    *WSHub
	logger   *zap.Logger
	validate *validator.Validate
	version  string
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, svc Picker, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		svc:      svc,
		wsHub:    NewWSHub(logger.Named("ws")),
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		version:  version,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.cfg.API.RequestTimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.wsHub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger.Named("http")))
	r.Use(middleware.Recoverer)

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket connections are long-lived; keep them out of the timeout group.
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.API.RequestTimeout()))

			r.Get("/health", s.handleHealth)
			r.Get("/config", s.handleGetConfig)

			r.Get("/industries", s.handleIndustries)
			r.Get("/sectors/{sector}/overview", s.handleSectorOverview)
			r.Get("/sort-options", s.handleSortOptions)

			r.Get("/screen", s.handleScreen)
			r.Get("/relative", s.handleRelative)
			r.Get("/analyze", s.handleAnalyze)
			r.Post("/divergence", s.handleDivergence)

			r.Get("/news", s.handleStockNews)
			r.Get("/news/market", s.handleMarketNews)
			r.Post("/classify", s.handleClassify)
		})
	})

	s.mountSPA(r, web.DistFS())
	return r
}

// mountSPA serves the embedded dashboard. Unknown paths fall back to
// index.html.
func (s *Server) mountSPA(r chi.Router, distFS fs.FS) {
	fileServer := http.FileServerFS(distFS)

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" {
			name = "index.html"
		}
		f, err := distFS.Open(name)
		if err != nil {
			serveIndexHTML(w, distFS)
			return
		}
		f.Close()

		if strings.HasSuffix(name, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		fileServer.ServeHTTP(w, r)
	})
}

func serveIndexHTML(w http.ResponseWriter, distFS fs.FS) {
	data, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// requestLogger writes one access log line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// ════════════════════════════════════════════════════════════════════
// Response helpers
// ════════════════════════════════════════════════════════════════════

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// writeServiceError maps service errors onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, picker.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, datasource.ErrTickerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// validationMessage turns validator errors into a short client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing '%s' parameter", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("'%s' must be one of: %s", field, fe.Param()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("'%s' must have %s %s", field, fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("'%s' is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
