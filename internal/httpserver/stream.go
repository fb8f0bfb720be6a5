package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/middleware"
	"github.com/radiusdt/affiliate-hub/internal/mockgen"
)

const (
	authTimeout   = 5 * time.Second
	writeTimeout  = 10 * time.Second
	minFrequency  = 1000 // ms, floor for client-requested intervals
	closeAuthFail = 4001
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamSettings is the client-tunable stream configuration.
type streamSettings struct {
	Frequency int      `json:"frequency"`
	Networks  []string `json:"networks"`
}

// clientMessage is anything the client sends after connecting: the initial
// token, or a config update.
type clientMessage struct {
	Token  string          `json:"token"`
	Config *streamSettings `json:"config"`
}

// handleStream upgrades to a websocket and pushes one synthetic event plus
// its notification per interval. The first client message must carry a JWT;
// later messages may tune the frequency. Every pushed event is persisted, so
// the forecast and dashboard reflect the stream immediately.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	network := streamNetwork(r.URL.Path)
	if network == "" {
		http.NotFound(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err), zap.String("network", network))
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.StreamOpened()
		defer s.metrics.StreamClosed()
	}

	tenantID, userID, ok := s.authenticateStream(conn, network)
	if !ok {
		return
	}

	s.logger.Info("stream authenticated",
		zap.String("network", network),
		zap.String("tenant_id", tenantID),
	)

	interval := s.config.Stream.Interval

	// Reader goroutine: config updates and connection liveness.
	updates := make(chan streamSettings, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Config != nil {
				select {
				case updates <- *msg.Config:
				default:
				}
			}
		}
	}()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-done:
			s.logger.Info("stream client disconnected",
				zap.String("network", network),
				zap.String("tenant_id", tenantID),
			)
			return

		case cfg := <-updates:
			if cfg.Frequency >= minFrequency {
				interval = time.Duration(cfg.Frequency) * time.Millisecond
			}

		case <-timer.C:
			if err := s.pushStreamEvent(conn, network, tenantID, userID); err != nil {
				s.logger.Warn("stream push failed",
					zap.String("network", network),
					zap.Error(err),
				)
				return
			}
			timer.Reset(interval)
		}
	}
}

// authenticateStream waits for the token message and validates it. On any
// failure it sends an error frame and closes with the auth close code.
func (s *Server) authenticateStream(conn *websocket.Conn, network string) (tenantID, userID string, ok bool) {
	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var msg clientMessage
	if err := conn.ReadJSON(&msg); err != nil {
		s.closeStream(conn, "No token received within timeout")
		return "", "", false
	}
	if msg.Token == "" {
		s.logger.Warn("stream auth missing token", zap.String("network", network))
		s.closeStream(conn, "No token provided")
		return "", "", false
	}

	tenantID, userID, err := middleware.ParseToken(msg.Token, s.config.Auth.JWTSecret)
	if err != nil {
		s.logger.Warn("stream auth rejected",
			zap.String("network", network),
			zap.Error(err),
		)
		s.closeStream(conn, "Invalid token")
		return "", "", false
	}

	return tenantID, userID, true
}

// pushStreamEvent generates, persists and sends one event/notification pair.
func (s *Server) pushStreamEvent(conn *websocket.Conn, network, tenantID, userID string) error {
	ctx := context.Background()

	ev := s.generator.Event(tenantID, network)
	if err := s.events.SaveEvent(ctx, ev); err != nil {
		return err
	}
	s.dashboards.RecordActivity(ctx, tenantID)

	n := mockgen.Notification(ev, userID, time.Now().UTC())
	if err := s.notifications.Record(ctx, n); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordMockEvent(string(ev.Kind))
		s.metrics.RecordEventIngested(string(ev.Kind), ev.Network)
		s.metrics.RecordNotificationCreated()
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(map[string]interface{}{
		"event":        ev,
		"notification": n,
	})
}

func (s *Server) closeStream(conn *websocket.Conn, message string) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = conn.WriteJSON(map[string]string{"error": message})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(closeAuthFail, message), time.Now().Add(writeTimeout))
}

// streamNetwork extracts the network name from "/api/affiliate/ws/{network}-events".
func streamNetwork(path string) string {
	slug := strings.TrimPrefix(path, "/api/affiliate/ws/")
	if !strings.HasSuffix(slug, "-events") {
		return ""
	}
	slug = strings.TrimSuffix(slug, "-events")
	if decoded, err := url.PathUnescape(slug); err == nil {
		slug = decoded
	}
	return slug
}
