package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedboard/internal/models"
	"feedboard/internal/testutil"
)

func newWsStack(t *testing.T, rem *testutil.MockRemote) (*testStack, *WsController, *httptest.Server) {
	t.Helper()
	st := newTestStack(t, rem)
	ws := NewWsController(&testutil.MockLogger{}, st.dc, st.sess, st.syncer, st.poller)
	server := httptest.NewServer(http.HandlerFunc(ws.Handle))
	t.Cleanup(server.Close)
	return st, ws, server
}

func dialWs(t *testing.T, server *httptest.Server, cookie *http.Cookie) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	header := http.Header{}
	if cookie != nil {
		header.Add("Cookie", cookie.Name+"="+cookie.Value)
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readStateFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var state map[string]any
	require.NoError(t, json.Unmarshal(data, &state))
	return state
}

func TestWs_RejectsUnauthorized(t *testing.T) {
	_, _, server := newWsStack(t, &testutil.MockRemote{})

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWs_InitialSnapshotOnConnect(t *testing.T) {
	st, _, server := newWsStack(t, &testutil.MockRemote{
		ConfigDoc: models.Document{"feeds": map[string]any{"kill": true}},
	})
	cookie := doLogin(t, st.dc, "secret")
	_, err := st.syncer.Fetch(context.Background())
	require.NoError(t, err)

	conn := dialWs(t, server, cookie)

	state := readStateFrame(t, conn)
	assert.Equal(t, "authenticated", state["session"])
	cfg, ok := state["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"kill": true}, cfg["feeds"])
}

func TestWs_PushesOnConfigChange(t *testing.T) {
	st, _, server := newWsStack(t, &testutil.MockRemote{ConfigDoc: models.Document{}})
	cookie := doLogin(t, st.dc, "secret")

	conn := dialWs(t, server, cookie)
	readStateFrame(t, conn)

	st.syncer.ApplyPatch(models.ChannelPatch("kill", "111"))

	// The change-watcher debounces, and the login transition may have queued
	// one more clean snapshot; skip frames until the edit shows up.
	deadline := time.Now().Add(2 * time.Second)
	for {
		state := readStateFrame(t, conn)
		if state["dirty"] == true {
			cfg, ok := state["config"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, map[string]any{"kill": "111"}, cfg["channelIds"])
			return
		}
		require.True(t, time.Now().Before(deadline), "no updated state frame received")
	}
}

// Connecting clients while broadcasts are firing must never produce
// interleaved writes on one connection; each connection has a single writer.
func TestWs_ConcurrentConnectAndBroadcast(t *testing.T) {
	st, ws, server := newWsStack(t, &testutil.MockRemote{ConfigDoc: models.Document{}})
	cookie := doLogin(t, st.dc, "secret")

	stop := make(chan struct{})
	var hammer sync.WaitGroup
	hammer.Add(1)
	go func() {
		defer hammer.Done()
		for {
			select {
			case <-stop:
				return
			default:
				ws.Broadcast()
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := dialWs(t, server, cookie)
			// Every received frame must be intact JSON.
			for j := 0; j < 5; j++ {
				state := readStateFrame(t, conn)
				assert.Contains(t, state, "session")
			}
		}()
	}
	wg.Wait()
	close(stop)
	hammer.Wait()
}
