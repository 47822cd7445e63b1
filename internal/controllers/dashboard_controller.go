package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"feedboard/internal/configsync"
	"feedboard/internal/history"
	"feedboard/internal/models"
	"feedboard/internal/providers"
	"feedboard/internal/remote"
	"feedboard/internal/session"
	"feedboard/internal/stats"
)

const (
	sessionCookieName  = "feedboard_session"
	browserSessionTTL  = 24 * time.Hour
	maxRequestBodySize = 1 << 20 // 1 MB
	channelsCacheKey   = "channels"
)

// DashboardController is the browser-facing API. The admin key itself never
// round-trips to the page after login; the browser holds a random cookie
// token mapped onto the single operator session.
type DashboardController struct {
	logger providers.Logger
	sess   *session.Manager
	sync   *configsync.Synchronizer
	poller *stats.Poller
	client remote.API
	cache  providers.CacheProviderInterface
	hist   *history.Journal

	tokens sync.Map // cookie token -> expiry time.Time
}

func NewDashboardController(logger providers.Logger, sess *session.Manager, syncer *configsync.Synchronizer, poller *stats.Poller, client remote.API, cache providers.CacheProviderInterface, hist *history.Journal) *DashboardController {
	dc := &DashboardController{
		logger: logger,
		sess:   sess,
		sync:   syncer,
		poller: poller,
		client: client,
		cache:  cache,
		hist:   hist,
	}
	// A lost operator session makes every browser token worthless, and the
	// cached channel list belongs to the revoked credential.
	sess.OnTransition(func(s session.State) {
		if s == session.Unauthenticated {
			dc.dropAllTokens()
			dc.cache.Del(channelsCacheKey)
		}
	})
	return dc
}

// generateToken produces a cryptographically random 32-byte hex session token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (dc *DashboardController) validToken(token string) bool {
	if token == "" {
		return false
	}
	v, ok := dc.tokens.Load(token)
	if !ok {
		return false
	}
	if time.Now().After(v.(time.Time)) {
		dc.tokens.Delete(token)
		return false
	}
	return true
}

func (dc *DashboardController) dropAllTokens() {
	dc.tokens.Range(func(key, _ any) bool {
		dc.tokens.Delete(key)
		return true
	})
}

// Authorized reports whether the request carries a live browser token and
// the operator session is authenticated.
func (dc *DashboardController) Authorized(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || !dc.validToken(cookie.Value) {
		return false
	}
	return dc.sess.State() == session.Authenticated
}

// RequireAuth wraps an API handler with the cookie check.
func (dc *DashboardController) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !dc.Authorized(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	AdminKey string `json:"adminKey"`
}

func (dc *DashboardController) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.AdminKey == "" {
		writeError(w, http.StatusBadRequest, "adminKey required")
		return
	}

	if err := dc.sess.Login(r.Context(), payload.AdminKey); err != nil {
		dc.logger.Warnf(providers.TypePost, "Login failed from %s: %s", r.RemoteAddr, err)
		writeRemoteError(w, err)
		return
	}

	token, err := generateToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	dc.tokens.Store(token, time.Now().Add(browserSessionTTL))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(browserSessionTTL.Seconds()),
	})
	dc.logger.Infof(providers.TypePost, "Login from %s", r.RemoteAddr)
	writeJSON(w, map[string]any{"ok": true})
}

func (dc *DashboardController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		dc.tokens.Delete(cookie.Value)
	}
	dc.sess.Logout()
	dc.sync.Reset()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, map[string]any{"ok": true})
}

type stateResponse struct {
	Session string                `json:"session"`
	Stats   *models.StatsSnapshot `json:"stats,omitempty"`
	Config  models.Document       `json:"config,omitempty"`
	Dirty   bool                  `json:"dirty"`
}

// StateJSON builds the snapshot pushed to browsers; shared by the state
// endpoint and the websocket broadcaster.
func (dc *DashboardController) StateJSON() []byte {
	resp := stateResponse{
		Session: dc.sess.State().String(),
		Stats:   dc.poller.Snapshot(),
		Config:  dc.sync.Working(),
		Dirty:   dc.sync.Dirty(),
	}
	gson, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"session":"unknown"}`)
	}
	return gson
}

func (dc *DashboardController) State(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dc.StateJSON())
}

// UpdateConfig applies the submitted patch optimistically and saves. The
// response carries the bot's authoritative document.
func (dc *DashboardController) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var patch models.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch body")
		return
	}

	dc.sync.ApplyPatch(patch)

	doc, err := dc.sync.Save(r.Context())
	if err != nil {
		if errors.Is(err, configsync.ErrBusy) {
			writeError(w, http.StatusConflict, "save already in progress")
			return
		}
		writeRemoteError(w, err)
		return
	}
	writeJSON(w, doc)
}

// Channels proxies the bot's Discord channel list, cached for one poll
// interval.
func (dc *DashboardController) Channels(w http.ResponseWriter, r *http.Request) {
	if data, ok := dc.cache.Get(channelsCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	token, ok := dc.sess.Credential()
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	channels, err := dc.client.Channels(r.Context(), token)
	if err != nil {
		if remote.IsAuth(err) {
			dc.sess.Invalidate()
		}
		writeRemoteError(w, err)
		return
	}

	gson, err := json.Marshal(models.ChannelList{Channels: channels})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	dc.cache.Set(channelsCacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// History returns the journal of confirmed saves, newest last.
func (dc *DashboardController) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, dc.hist.Entries())
}

// UI serves the single-page dashboard; unauthenticated visitors get the
// login page.
func (dc *DashboardController) UI(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !dc.Authorized(r) {
		_, _ = w.Write([]byte(loginHTML))
		return
	}
	_, _ = w.Write([]byte(dashboardHTML))
}

func writeJSON(w http.ResponseWriter, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	gson, _ := json.Marshal(map[string]string{"error": msg})
	_, _ = w.Write(gson)
}

// writeRemoteError maps the client's error taxonomy onto HTTP statuses the
// page can act on.
func writeRemoteError(w http.ResponseWriter, err error) {
	var re *remote.Error
	if !errors.As(err, &re) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	msg := re.Detail
	switch re.Kind {
	case remote.KindNetwork:
		if msg == "" {
			msg = "cannot reach the bot"
		}
		writeError(w, http.StatusBadGateway, msg)
	case remote.KindAuth:
		if msg == "" {
			msg = "invalid admin key"
		}
		writeError(w, http.StatusUnauthorized, msg)
	case remote.KindValidation:
		if msg == "" {
			msg = "rejected by the bot"
		}
		writeError(w, http.StatusBadRequest, msg)
	default:
		if msg == "" {
			msg = "bot error"
		}
		writeError(w, http.StatusBadGateway, msg)
	}
}
