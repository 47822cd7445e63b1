package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"feedboard/internal/configsync"
	"feedboard/internal/providers"
	"feedboard/internal/session"
	"feedboard/internal/stats"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same-origin enforcement happens via the cookie check
	},
}

// wsClient owns one browser connection. All writes to the connection go
// through the send channel and its single writer goroutine; the websocket
// package allows at most one concurrent writer per connection.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *wsClient) writePump() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.conn.Close()
			return
		}
	}
}

// WsController pushes state snapshots to connected browsers whenever the
// poller or the synchronizer publishes a change.
type WsController struct {
	logger    providers.Logger
	dashboard *DashboardController

	clientsMu sync.RWMutex
	clients   map[*wsClient]bool
	broadcast chan []byte
}

func NewWsController(logger providers.Logger, dashboard *DashboardController, sess *session.Manager, syncer *configsync.Synchronizer, poller *stats.Poller) *WsController {
	wc := &WsController{
		logger:    logger,
		dashboard: dashboard,
		clients:   make(map[*wsClient]bool),
		broadcast: make(chan []byte, 64),
	}

	sessionChanged := make(chan struct{}, 1)
	sess.OnTransition(func(session.State) {
		select {
		case sessionChanged <- struct{}{}:
		default:
		}
	})

	go wc.fanOut()
	go wc.watch(sessionChanged, syncer.Changes(), poller.Changes())

	return wc
}

// watch debounces change signals so a burst of edits becomes one push.
func (wc *WsController) watch(chans ...<-chan struct{}) {
	agg := make(chan struct{}, 1)
	for _, ch := range chans {
		go func(c <-chan struct{}) {
			for range c {
				select {
				case agg <- struct{}{}:
				default:
				}
			}
		}(ch)
	}

	for range agg {
		time.Sleep(50 * time.Millisecond)
		// Drain anything that piled up during the quiet window.
		select {
		case <-agg:
		default:
		}
		wc.Broadcast()
	}
}

// Broadcast queues the current state snapshot for every connected client.
func (wc *WsController) Broadcast() {
	select {
	case wc.broadcast <- wc.dashboard.StateJSON():
	default:
		// A slow consumer never blocks state publication.
	}
}

func (wc *WsController) fanOut() {
	for data := range wc.broadcast {
		wc.clientsMu.RLock()
		for client := range wc.clients {
			select {
			case client.send <- data:
			default:
				// Client is not keeping up; it catches up on the next push.
			}
		}
		wc.clientsMu.RUnlock()
	}
}

func (wc *WsController) register(client *wsClient) {
	wc.clientsMu.Lock()
	wc.clients[client] = true
	wc.clientsMu.Unlock()
}

// unregister removes the client and closes its send channel. The close
// happens under the write lock, so fanOut can never send on a closed channel.
func (wc *WsController) unregister(client *wsClient) {
	wc.clientsMu.Lock()
	delete(wc.clients, client)
	close(client.send)
	wc.clientsMu.Unlock()
}

// Handle upgrades the connection and keeps it registered until the browser
// goes away. Unauthorized requests are rejected before the upgrade.
func (wc *WsController) Handle(w http.ResponseWriter, r *http.Request) {
	if !wc.dashboard.Authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		wc.logger.Warnf(providers.TypeGet, "WebSocket upgrade failed: %s", err)
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn, send: make(chan []byte, 16)}
	// Initial snapshot so the page renders without waiting for a change.
	// Queued before registration, so it is always the first frame out.
	client.send <- wc.dashboard.StateJSON()
	wc.register(client)
	go client.writePump()
	wc.logger.Debugf(providers.TypeGet, "WebSocket client connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	wc.unregister(client)
	wc.logger.Debugf(providers.TypeGet, "WebSocket client disconnected")
}
