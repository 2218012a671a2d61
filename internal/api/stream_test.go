package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcfg/pkg/deviceconf"
)

func dialStream(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/settings/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestStream_ReceivesChanges(t *testing.T) {
	env := newTestEnv(t)
	conn := dialStream(t, env)

	hello := readEvent(t, conn)
	assert.Equal(t, "hello", hello.Type)
	assert.NotEmpty(t, hello.ID)
	assert.Equal(t, 1, env.hub.Clients())
	assert.Equal(t, float64(1), testutil.ToFloat64(env.m.WSConnections))

	resp, _ := env.do(t, http.MethodPut, "/api/settings/"+deviceconf.KeyTXRFPower, `{"value":"10mw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ev := readEvent(t, conn)
	assert.Equal(t, "change", ev.Type)
	assert.Equal(t, deviceconf.KeyTXRFPower, ev.Key)
	assert.Equal(t, "10mw", ev.Display)
	assert.Equal(t, float64(2), ev.Value)
}

func TestStream_UnchangedValueIsSilent(t *testing.T) {
	env := newTestEnv(t)
	conn := dialStream(t, env)
	readEvent(t, conn)

	// same value: no event; then a real change arrives first
	env.do(t, http.MethodPut, "/api/settings/"+deviceconf.KeyTXRFPower, `{"value":0}`)
	env.do(t, http.MethodPut, "/api/settings/"+deviceconf.KeyTXPilotName, `{"value":"ice"}`)

	ev := readEvent(t, conn)
	assert.Equal(t, deviceconf.KeyTXPilotName, ev.Key)
	assert.Equal(t, "ice", ev.Value)
}

func TestStream_CloseDisconnectsClients(t *testing.T) {
	env := newTestEnv(t)
	conn := dialStream(t, env)
	readEvent(t, conn)

	env.hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error %v", err)

	assert.Eventually(t, func() bool { return env.hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
