package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
)

func setup(t *testing.T) (*desktop.Manager, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	desktops, err := desktop.NewManager(catalog.MustLoad(), desktop.Config{
		Username:   "user@example.com",
		Password:   "password",
		BcryptCost: bcrypt.MinCost,
	}, zap.NewNop())
	require.NoError(t, err)

	router := gin.New()
	router.GET("/sessions/:id/stream", NewHandler(desktops, monitoring.NewMetrics(), zap.NewNop()).HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return desktops, srv
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + sessionID + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestStreamSendsSnapshots(t *testing.T) {
	desktops, srv := setup(t)
	s, err := desktops.Create()
	require.NoError(t, err)

	conn := dial(t, srv, s.ID())

	first := readFrame(t, conn)
	require.Equal(t, TypeSnapshot, first.Type)
	require.NotNil(t, first.Snapshot)
	assert.True(t, first.Snapshot.Locked)

	_, err = s.Unlock("user@example.com", "password")
	require.NoError(t, err)

	update := readFrame(t, conn)
	require.Equal(t, TypeSnapshot, update.Type)
	assert.False(t, update.Snapshot.Locked)
	assert.Greater(t, update.Snapshot.Version, first.Snapshot.Version)
}

func TestStreamClientMessages(t *testing.T) {
	desktops, srv := setup(t)
	s, err := desktops.Create()
	require.NoError(t, err)

	conn := dial(t, srv, s.ID())
	readFrame(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, TypePong, readFrame(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"snapshot"}`)))
	f := readFrame(t, conn)
	assert.Equal(t, TypeSnapshot, f.Type)
	assert.Equal(t, s.ID(), f.Snapshot.SessionID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	assert.Equal(t, TypeError, readFrame(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.Equal(t, TypeError, readFrame(t, conn).Type)
}

func TestStreamClosesWithSession(t *testing.T) {
	desktops, srv := setup(t)
	s, err := desktops.Create()
	require.NoError(t, err)

	conn := dial(t, srv, s.ID())
	readFrame(t, conn)

	require.NoError(t, desktops.Delete(s.ID()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
}

func TestStreamUnknownSession(t *testing.T) {
	_, srv := setup(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/desk_nope/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVersionGateDropsOlderSnapshots(t *testing.T) {
	snap := func(v uint64) Frame {
		return Frame{Type: TypeSnapshot, Snapshot: &desktop.Snapshot{Version: v}}
	}

	var g versionGate
	assert.True(t, g.allow(snap(0)))
	assert.True(t, g.allow(snap(2)))
	assert.False(t, g.allow(snap(1)), "stale initial snapshot after a newer update")
	assert.True(t, g.allow(snap(2)), "explicit re-request of the current version")
	assert.True(t, g.allow(Frame{Type: TypePong}))
	assert.True(t, g.allow(snap(3)))
}
