package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/config"
	"github.com/radiusdt/affiliate-hub/internal/dashboard"
	"github.com/radiusdt/affiliate-hub/internal/database"
	"github.com/radiusdt/affiliate-hub/internal/forecast"
	"github.com/radiusdt/affiliate-hub/internal/metrics"
	"github.com/radiusdt/affiliate-hub/internal/middleware"
	"github.com/radiusdt/affiliate-hub/internal/mockgen"
	"github.com/radiusdt/affiliate-hub/internal/models"
	"github.com/radiusdt/affiliate-hub/internal/notify"
	"github.com/radiusdt/affiliate-hub/internal/storage"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB      *database.PostgresDB
	Redis   *database.RedisDB
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Server wraps HTTP handlers and the affiliate services.
type Server struct {
	engine        *forecast.Engine
	dashboards    *dashboard.Service
	notifications *notify.Service
	events        storage.EventStore
	generator     *mockgen.Generator
	config        *config.Config
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	// Initialize repositories
	var eventStore storage.EventStore
	var notifRepo storage.NotificationRepo

	if deps.DB != nil {
		eventStore = storage.NewPostgresEventStore(deps.DB.Pool)
		notifRepo = storage.NewPostgresNotificationRepo(deps.DB.Pool)
	} else {
		eventStore = storage.NewInMemoryEventStore()
		notifRepo = storage.NewInMemoryNotificationRepo()
	}

	var rdb *redis.Client
	if deps.Redis != nil {
		rdb = deps.Redis.Client
	}

	s := &Server{
		engine:        forecast.NewEngine(eventStore, deps.Logger),
		dashboards:    dashboard.NewService(eventStore, notifRepo, rdb, deps.Logger),
		notifications: notify.NewService(notifRepo, deps.Logger),
		events:        eventStore,
		generator:     mockgen.New(deps.Config.Stream.Seed),
		config:        deps.Config,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Forecasting
	mux.HandleFunc("/api/affiliate/revenue-forecast", s.handleForecast)
	mux.HandleFunc("/api/affiliate/optimization-suggestions", s.handleSuggestions)

	// Events
	mux.HandleFunc("/api/affiliate/events", s.handleEvents)

	// Dashboard
	mux.HandleFunc("/api/affiliate/dashboard", s.handleDashboard)

	// Notifications
	mux.HandleFunc("/api/affiliate/notifications", s.handleNotifications)
	mux.HandleFunc("/api/affiliate/notifications/mark-read", s.handleMarkRead)

	// Live event stream
	mux.HandleFunc("/api/affiliate/ws/", s.handleStream)

	return mux
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Revenue Forecast ----

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	if tenantID == "" {
		s.errorResponse(w, "invalid user: no tenant", http.StatusUnauthorized)
		return
	}

	start := time.Now()
	resp, err := s.engine.Generate(r.Context(), tenantID)
	if err != nil {
		s.logger.Error("failed to generate revenue forecast", zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordForecast("error", time.Since(start))
		}
		s.errorResponse(w, "failed to generate revenue forecast", http.StatusInternalServerError)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordForecast("ok", time.Since(start))
	}
	s.jsonResponse(w, resp)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	if tenantID == "" {
		s.errorResponse(w, "invalid user: no tenant", http.StatusUnauthorized)
		return
	}

	suggestions, err := s.engine.Suggestions(r.Context(), tenantID)
	if err != nil {
		s.logger.Error("failed to generate optimization suggestions", zap.Error(err))
		s.errorResponse(w, "failed to generate optimization suggestions", http.StatusInternalServerError)
		return
	}

	s.jsonResponse(w, map[string]interface{}{"suggestions": suggestions})
}

// ---- Events ----

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFromContext(r.Context())
	if tenantID == "" {
		s.errorResponse(w, "invalid user: no tenant", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		events, err := s.events.ListEvents(r.Context(), tenantID)
		if err != nil {
			s.logger.Error("failed to list events", zap.Error(err))
			s.errorResponse(w, "failed to list events", http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []*models.Event{}
		}
		s.jsonResponse(w, map[string]interface{}{"events": events})

	case http.MethodPost:
		var ev models.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}

		ev.TenantID = tenantID
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if ev.Date == "" {
			ev.Date = time.Now().UTC().Format(time.RFC3339Nano)
		}

		if err := ev.Validate(); err != nil {
			if s.metrics != nil {
				s.metrics.RecordEventRejected("invalid")
			}
			s.errorResponse(w, "invalid event: "+err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.events.SaveEvent(r.Context(), &ev); err != nil {
			s.logger.Error("failed to save event", zap.Error(err))
			s.errorResponse(w, "failed to save event", http.StatusInternalServerError)
			return
		}

		s.dashboards.RecordActivity(r.Context(), tenantID)
		if s.metrics != nil {
			s.metrics.RecordEventIngested(string(ev.Kind), ev.Network)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&ev)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ---- Dashboard ----

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	if tenantID == "" {
		s.errorResponse(w, "invalid user: no tenant", http.StatusUnauthorized)
		return
	}

	overview, err := s.dashboards.Summarize(r.Context(), tenantID)
	if err != nil {
		s.logger.Error("failed to build dashboard overview", zap.Error(err))
		s.errorResponse(w, "failed to build dashboard overview", http.StatusInternalServerError)
		return
	}

	s.jsonResponse(w, overview)
}

// ---- Notifications ----

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	if tenantID == "" {
		s.errorResponse(w, "invalid user: no tenant", http.StatusUnauthorized)
		return
	}

	notifications, err := s.notifications.List(r.Context(), tenantID)
	if err != nil {
		s.logger.Error("failed to list notifications", zap.Error(err))
		s.errorResponse(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}

	s.jsonResponse(w, map[string]interface{}{"notifications": notifications})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	if tenantID == "" {
		s.errorResponse(w, "invalid user: no tenant", http.StatusUnauthorized)
		return
	}

	var req struct {
		NotificationIDs []string `json:"notification_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}

	modified, err := s.notifications.MarkRead(r.Context(), tenantID, req.NotificationIDs)
	if err != nil {
		s.logger.Error("failed to mark notifications read", zap.Error(err))
		s.errorResponse(w, "failed to mark notifications read", http.StatusInternalServerError)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationsRead(modified)
	}
	s.jsonResponse(w, map[string]string{
		"message": fmt.Sprintf("%d notifications marked as read.", modified),
	})
}

// ---- Helper Methods ----

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
