package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedboard/internal/models"
	"feedboard/internal/structures"
	"feedboard/internal/testutil"
)

func testClient(baseURL string, timeout time.Duration) API {
	conf := &structures.Config{
		Remote: structures.RemoteConfig{BaseURL: baseURL, Timeout: timeout},
	}
	return NewClient(conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
}

func TestFetchConfig_Success(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/config", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"channelIds":{"kill":"111"},"feeds":{"built":false}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	doc, err := c.FetchConfig(context.Background(), "admin-key")
	require.NoError(t, err)

	assert.Equal(t, "Bearer admin-key", gotAuth)
	assert.Equal(t, "111", doc.ChannelID(models.FeedKill))
}

func TestFetchConfig_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid admin key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	_, err := c.FetchConfig(context.Background(), "bad-key")

	require.Error(t, err)
	assert.True(t, IsAuth(err))
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnauthorized, re.Status)
	assert.Equal(t, "invalid admin key", re.Detail)
}

func TestUpdateConfig_PostsFullDocument(t *testing.T) {
	var received models.Document
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		// The bot adds a default before answering.
		received["feeds"].(map[string]any)["dismantled"] = false
		json.NewEncoder(w).Encode(received)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	doc := models.Document{
		"channelIds": map[string]any{"kill": "111"},
		"feeds":      map[string]any{"built": true},
	}
	updated, err := c.UpdateConfig(context.Background(), "admin-key", doc)
	require.NoError(t, err)

	assert.Equal(t, "111", received.ChannelID(models.FeedKill))
	assert.True(t, updated.FeedEnabled(models.FeedBuilt))
	assert.False(t, updated.FeedEnabled(models.FeedDismantled))
	_, present := updated["feeds"].(map[string]any)["dismantled"]
	assert.True(t, present)
}

func TestUpdateConfig_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unknown channel id"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	_, err := c.UpdateConfig(context.Background(), "admin-key", models.Document{})

	assert.True(t, IsValidation(err))
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "unknown channel id", re.Detail)
}

func TestChannels_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/discord/channels", r.URL.Path)
		w.Write([]byte(`{"channels":[{"id":"1","name":"kill-feed"},{"id":"2","name":"online"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	channels, err := c.Channels(context.Background(), "admin-key")
	require.NoError(t, err)

	require.Len(t, channels, 2)
	assert.Equal(t, "kill-feed", channels[0].Name)
}

func TestStats_NoAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"eventsProcessed":100,"onlinePlayers":{"currentOnline":12,"peakOnline":40},"altDetection":{"totalDevices":7},"version":"1.4.2","uptime":3600.5}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	snap, err := c.Stats(context.Background())
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.Equal(t, int64(100), snap.EventsProcessed)
	assert.Equal(t, 12, snap.OnlinePlayers.CurrentOnline)
	assert.Equal(t, 40, snap.OnlinePlayers.PeakOnline)
	assert.Equal(t, 7, snap.AltDetection.TotalDevices)
	assert.Equal(t, "1.4.2", snap.Version)
	assert.InDelta(t, 3600.5, snap.Uptime, 0.001)
}

func TestClassify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	_, err := c.Stats(context.Background())
	assert.True(t, IsServer(err))
}

func TestClassify_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"eventsProcessed":`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	_, err := c.Stats(context.Background())
	assert.True(t, IsServer(err))
}

func TestClassify_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := testClient(srv.URL, 0)
	_, err := c.Stats(context.Background())
	assert.True(t, IsNetwork(err))
}

func TestClassify_TimeoutIsNetwork(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := testClient(srv.URL, 30*time.Millisecond)
	_, err := c.Stats(context.Background())
	assert.True(t, IsNetwork(err))
}

func TestErrorKind_Helpers(t *testing.T) {
	assert.True(t, IsAuth(&Error{Kind: KindAuth}))
	assert.False(t, IsAuth(&Error{Kind: KindServer}))
	assert.False(t, IsNetwork(nil))
	assert.Equal(t, "auth", KindAuth.String())
	assert.Equal(t, "network", KindNetwork.String())
}
