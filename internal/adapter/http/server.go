package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/agri-advisor-service/internal/advisor"
	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const maxBodyBytes = 1 << 20

// Advisor is the recommendation API the server exposes.
type Advisor interface {
	Predict(ctx context.Context, body []byte) ([]domain.Recommendation, error)
	Advise(ctx context.Context, req domain.AdviseRequest) (advisor.Advice, error)
	History(ctx context.Context, state, district string, limit int) ([]domain.RecommendationRecord, error)
	Get(ctx context.Context, id string) (domain.RecommendationRecord, error)
	Districts(ctx context.Context, state string) ([]string, error)
	District(ctx context.Context, state, district string) (domain.DistrictRecord, error)
	Crops(season string) []domain.CropProfile
	Crop(name string) (domain.CropProfile, error)
}

// Server exposes the recommendation API plus health, readiness and metrics.
type Server struct {
	httpServer *http.Server
	advisor    Advisor
	logger     *slog.Logger
}

// NewServer creates the HTTP server. corsOrigins lists the allowed browser
// origins; "*" allows any.
func NewServer(addr string, a Advisor, ready sharedobs.ReadinessChecker, corsOrigins []string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		advisor: a,
		logger:  logger,
	}

	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /crops", s.handleCrops)
	mux.HandleFunc("GET /crops/{name}", s.handleCrop)
	mux.HandleFunc("GET /districts", s.handleDistricts)
	mux.HandleFunc("GET /districts/{state}/{district}", s.handleDistrict)
	mux.HandleFunc("POST /recommendations", s.handleAdvise(false))
	mux.HandleFunc("POST /recommendations/generate", s.handleAdvise(true))
	mux.HandleFunc("GET /recommendations", s.handleHistory)
	mux.HandleFunc("GET /recommendations/{id}", s.handleGet)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler(mux)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, err)
		return
	}

	recs, err := s.advisor.Predict(r.Context(), body)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	crops := s.advisor.Crops(r.URL.Query().Get("season"))
	writeJSON(w, http.StatusOK, map[string]any{"crops": crops})
}

func (s *Server) handleCrop(w http.ResponseWriter, r *http.Request) {
	crop, err := s.advisor.Crop(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, crop)
}

// handleDistricts lists the states with stored data, or the districts of the
// state named by the query.
func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	names, err := s.advisor.Districts(r.Context(), state)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	if state == "" {
		writeJSON(w, http.StatusOK, map[string]any{"states": names})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state, "districts": names})
}

func (s *Server) handleDistrict(w http.ResponseWriter, r *http.Request) {
	rec, err := s.advisor.District(r.Context(), r.PathValue("state"), r.PathValue("district"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAdvise(realtime bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.AdviseRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		req.RealtimeWeather = realtime

		advice, err := s.advisor.Advise(r.Context(), req)
		if err != nil {
			s.writeError(w, r, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, advice)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > domain.MaxHistoryLimit {
			s.writeError(w, r, http.StatusBadRequest,
				fmt.Errorf("limit must be an integer between 0 and %d", domain.MaxHistoryLimit))
			return
		}
		limit = n
	}

	history, err := s.advisor.History(r.Context(), q.Get("state"), q.Get("district"), limit)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": history})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.advisor.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDistrictNotFound), errors.Is(err, domain.ErrRecommendationNotFound),
		errors.Is(err, domain.ErrCropNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
