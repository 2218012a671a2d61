package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcfg/pkg/board"
	"linkcfg/pkg/codec"
	"linkcfg/pkg/deviceconf"
	"linkcfg/pkg/logging"
	"linkcfg/pkg/metrics"
	"linkcfg/pkg/output"
	"linkcfg/pkg/settings"
)

type testEnv struct {
	srv   *httptest.Server
	guard *Guard
	dev   *deviceconf.Device
	store *settings.MemoryStore
	hub   *StreamHub
	craft *output.CraftNameSync
	m     *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := settings.NewMemoryStore()
	dev, err := deviceconf.Build(board.Default(), nil, store, settings.WithListenerCapacity(6))
	require.NoError(t, err)

	env := &testEnv{dev: dev, store: store, m: metrics.New()}
	env.guard = NewGuard(dev.Registry)
	env.hub = NewStreamHub(env.m)
	detach := env.hub.Attach(env.guard)
	env.craft = output.NewCraftNameSync(dev.Registry, nil, 0)
	var detachMetrics func()
	env.guard.Do(func(r *settings.Registry) {
		env.craft.Open()
		detachMetrics = env.m.Attach(r)
	})

	srv := NewServer("", NewSettingsHandler(env.guard), env.hub, NewCraftNameHandler(env.guard, env.craft), env.m, func() {})
	env.srv = httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		env.hub.Close()
		env.srv.Close()
		detach()
		env.guard.Do(func(*settings.Registry) { detachMetrics() })
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeEntry(t *testing.T, data []byte) Entry {
	t.Helper()
	var e Entry
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func TestHealthAndVersion(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, body = env.do(t, http.MethodGet, "/api/version", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var v VersionResponse
	require.NoError(t, json.Unmarshal(body, &v))
	assert.NotEmpty(t, v.Version)
}

func TestHandleView(t *testing.T) {
	env := newTestEnv(t)

	keysOf := func(body []byte) []string {
		var vr ViewResponse
		require.NoError(t, json.Unmarshal(body, &vr))
		keys := make([]string, 0, len(vr.Entries))
		for _, e := range vr.Entries {
			keys = append(keys, e.Key)
		}
		return keys
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		contains   []string
		excludes   []string
	}{
		{
			name:       "menu root is one level",
			query:      "",
			wantStatus: http.StatusOK,
			contains:   []string{deviceconf.KeyLoRaBand, deviceconf.KeyTX},
			excludes:   []string{deviceconf.KeyTXRFPower, deviceconf.KeyRX},
		},
		{
			name:       "remote view is recursive",
			query:      "?view=remote",
			wantStatus: http.StatusOK,
			contains:   []string{deviceconf.KeyTX, deviceconf.KeyTXRFPower, deviceconf.KeyAboutVersion},
			excludes:   []string{deviceconf.KeyScreen},
		},
		{
			name:       "menu of the tx folder",
			query:      "?view=menu&folder=1",
			wantStatus: http.StatusOK,
			contains:   []string{deviceconf.KeyTXRFPower, deviceconf.KeyTXCRSFPin},
		},
		{
			name:       "fixed input list",
			query:      "?view=input",
			wantStatus: http.StatusOK,
			contains:   []string{deviceconf.KeyTXRFPower},
		},
		{name: "unknown view", query: "?view=tree", wantStatus: http.StatusBadRequest},
		{name: "bad folder", query: "?folder=x", wantStatus: http.StatusBadRequest},
		{name: "unknown folder", query: "?folder=200", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodGet, "/api/settings"+tt.query, "")
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if tt.wantStatus != http.StatusOK {
				return
			}
			keys := keysOf(body)
			for _, k := range tt.contains {
				assert.Contains(t, keys, k)
			}
			for _, k := range tt.excludes {
				assert.NotContains(t, keys, k)
			}
		})
	}
}

func TestHandleGet(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/settings/"+deviceconf.KeyTXRFPower, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	e := decodeEntry(t, body)
	assert.Equal(t, deviceconf.KeyTXRFPower, e.Key)
	assert.Equal(t, "u8", e.Type)
	assert.Equal(t, "Auto", e.Display)
	assert.Equal(t, float64(0), e.Value)
	require.NotNil(t, e.Max)
	assert.Equal(t, uint8(4), *e.Max)
	assert.Len(t, e.Names, 5)
	assert.Contains(t, e.Flags, "namemap")
	assert.Equal(t, uint8(deviceconf.FolderTX), e.Parent)

	resp, body = env.do(t, http.MethodGet, "/api/settings/"+deviceconf.KeyTX, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	e = decodeEntry(t, body)
	require.NotNil(t, e.Folder)
	assert.Equal(t, uint8(deviceconf.FolderTX), *e.Folder)
	assert.Nil(t, e.Min)

	resp, body = env.do(t, http.MethodGet, "/api/settings/"+deviceconf.KeyPowerOff, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "none", decodeEntry(t, body).CmdState)

	resp, _ = env.do(t, http.MethodGet, "/api/settings/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleSet(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		body        string
		wantStatus  int
		wantDisplay string
	}{
		{"name from table", deviceconf.KeyTXRFPower, `{"value":"25mw"}`, http.StatusOK, "25mw"},
		{"number", deviceconf.KeyTXRFPower, `{"value":2}`, http.StatusOK, "10mw"},
		{"number clamps", deviceconf.KeyTXRFPower, `{"value":99}`, http.StatusOK, "50mw"},
		{"huge number clamps to max", deviceconf.KeyScreenAutoOff, `{"value":1e300}`, http.StatusOK, "10 min"},
		{"huge negative clamps to min", deviceconf.KeyScreenAutoOff, `{"value":-1e300}`, http.StatusOK, "Disabled"},
		{"bool", deviceconf.KeyRXAutoCraftName, `{"value":false}`, http.StatusOK, "No"},
		{"string", deviceconf.KeyTXPilotName, `{"value":"maverick"}`, http.StatusOK, "maverick"},
		{"read only", deviceconf.KeyAboutVersion, `{"value":"2.0"}`, http.StatusForbidden, ""},
		{"unknown name", deviceconf.KeyTXRFPower, `{"value":"lots"}`, http.StatusBadRequest, ""},
		{"string expected", deviceconf.KeyTXPilotName, `{"value":5}`, http.StatusBadRequest, ""},
		{"unknown key", "nope", `{"value":1}`, http.StatusNotFound, ""},
		{"invalid json", deviceconf.KeyTXRFPower, `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			resp, body := env.do(t, http.MethodPut, "/api/settings/"+tt.key, tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantDisplay, decodeEntry(t, body).Display)
				assert.True(t, env.store.Has(tt.key), "change should be persisted")
			}
		})
	}
}

func TestHandleStep(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/settings/" + deviceconf.KeyScreenBrightness

	resp, body := env.do(t, http.MethodPost, path+"/increment", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "High", decodeEntry(t, body).Display)

	// wraps to the minimum
	_, body = env.do(t, http.MethodPost, path+"/increment", "")
	assert.Equal(t, "Low", decodeEntry(t, body).Display)

	_, body = env.do(t, http.MethodPost, path+"/decrement", "")
	assert.Equal(t, "High", decodeEntry(t, body).Display)

	resp, _ = env.do(t, http.MethodPost, "/api/settings/nope/increment", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCBOR(t *testing.T) {
	env := newTestEnv(t)

	payload, err := codec.Marshal(SetRequest{Value: 3})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, env.srv.URL+"/api/settings/"+deviceconf.KeyTXRFPower, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", codec.ContentType)
	req.Header.Set("Accept", codec.ContentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, codec.ContentType, resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var e Entry
	require.NoError(t, codec.Unmarshal(data, &e))
	assert.Equal(t, deviceconf.KeyTXRFPower, e.Key)
	assert.Equal(t, "25mw", e.Display)
	assert.Equal(t, uint64(3), e.Value)
}

func TestCraftName(t *testing.T) {
	env := newTestEnv(t)

	var poll PollResponse
	_, body := env.do(t, http.MethodGet, "/api/output/craft-name/poll", "")
	require.NoError(t, json.Unmarshal(body, &poll))
	assert.True(t, poll.Due)

	_, body = env.do(t, http.MethodGet, "/api/output/craft-name/poll", "")
	require.NoError(t, json.Unmarshal(body, &poll))
	assert.False(t, poll.Due)

	resp, _ := env.do(t, http.MethodPut, "/api/output/craft-name", "QUAD-7")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var name string
	env.guard.Do(func(r *settings.Registry) { name = r.Str(deviceconf.KeyRXCraftName) })
	assert.Equal(t, "QUAD-7", name)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPut, "/api/settings/"+deviceconf.KeyTXRFPower, `{"value":1}`)

	resp, body := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "linkcfg_http_requests_total")
	assert.Contains(t, string(body), `linkcfg_setting_changes_total{key="tx.rf_power"} 1`)
}

func TestLatestLog(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/log/latest", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out, "log")
}

func TestRecentChanges(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/log/changes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []logging.Change
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	assert.NotNil(t, out)
}
