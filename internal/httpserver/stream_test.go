package httpserver

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/middleware"
)

func newStreamServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	cfg := testConfig()
	cfg.Stream.Interval = 50 * time.Millisecond
	logger := zap.NewNop()

	handler := NewServer(&Dependencies{Config: cfg, Logger: logger})
	authMW := middleware.NewAuthMiddleware(cfg.Auth, logger)
	srv := httptest.NewServer(authMW.Handler(handler))
	t.Cleanup(srv.Close)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"tenant_id": "tenant-1", "sub": "user-1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return srv, token
}

func dialStream(t *testing.T, srv *httptest.Server, network string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/affiliate/ws/" + network + "-events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestStreamPushesPersistedEvents(t *testing.T) {
	srv, token := newStreamServer(t)
	conn := dialStream(t, srv, "TestNet")

	require.NoError(t, conn.WriteJSON(map[string]string{"token": token}))

	var frame struct {
		Event        map[string]interface{} `json:"event"`
		Notification map[string]interface{} `json:"notification"`
	}
	require.NoError(t, conn.ReadJSON(&frame))

	require.NotNil(t, frame.Event)
	assert.Equal(t, "TestNet", frame.Event["network"])
	assert.Equal(t, "tenant-1", frame.Event["tenantId"])
	assert.NotEmpty(t, frame.Event["event"])

	require.NotNil(t, frame.Notification)
	assert.Equal(t, "tenant-1", frame.Notification["tenantId"])
	assert.Equal(t, "user-1", frame.Notification["user_id"])
	assert.NotEmpty(t, frame.Notification["message"])
}

func TestStreamRejectsMissingToken(t *testing.T) {
	srv, _ := newStreamServer(t)
	conn := dialStream(t, srv, "TestNet")

	require.NoError(t, conn.WriteJSON(map[string]string{}))

	var errFrame map[string]string
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, "No token provided", errFrame["error"])
}

func TestStreamRejectsBadToken(t *testing.T) {
	srv, _ := newStreamServer(t)
	conn := dialStream(t, srv, "TestNet")

	require.NoError(t, conn.WriteJSON(map[string]string{"token": "not-a-jwt"}))

	var errFrame map[string]string
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, "Invalid token", errFrame["error"])
}
