package utility

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRealIP(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", GetRealIP(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", GetRealIP(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", GetRealIP(e.NewContext(req, httptest.NewRecorder())))
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	SetupLogger("debug", true)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger("nonsense", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestHubRegisterAndCloseAll(t *testing.T) {
	hub := NewHub()
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := NewUpgrader(false).Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register("c1", conn)
		close(registered)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	<-registered
	assert.Equal(t, 1, hub.Count())

	hub.CloseAll()
	assert.Equal(t, 0, hub.Count())

	_, _, err = client.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))

	hub.Unregister("c1")
	assert.Equal(t, 0, hub.Count())
}

func TestUpgraderOriginPolicy(t *testing.T) {
	serve := func(production bool) *httptest.Server {
		u := NewUpgrader(production)
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := u.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			conn.Close()
		}))
	}
	foreign := http.Header{"Origin": {"http://evil.example"}}

	prod := serve(true)
	defer prod.Close()
	wsURL := "ws" + strings.TrimPrefix(prod.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, foreign)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {prod.URL}})
	require.NoError(t, err)
	conn.Close()

	dev := serve(false)
	defer dev.Close()
	conn, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(dev.URL, "http"), foreign)
	require.NoError(t, err)
	conn.Close()
}
