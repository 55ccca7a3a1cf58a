// Package ticker streams current token prices to websocket subscribers.
package ticker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	domsvc "YieldSense/internal/domain/service"
	applogger "YieldSense/pkg/logger"
	"YieldSense/pkg/util"
)

const (
	sendBuffer = 8
	writeWait  = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub resolves prices for every supported token on each interval and fans
// the snapshot out to connected clients. Nothing is resolved while no
// client is connected.
type Hub struct {
	resolver     domsvc.PriceResolver
	interval     time.Duration
	pingInterval time.Duration
	upgrader     websocket.Upgrader
	metrics      domrepo.Metrics
	l            *applogger.Logger
	now          func() time.Time

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type Option func(*Hub)

func WithInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.interval = d
		}
	}
}

func WithPingInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pingInterval = d
		}
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

func WithLogger(l *applogger.Logger) Option {
	return func(h *Hub) { h.l = l }
}

func New(resolver domsvc.PriceResolver, opts ...Option) *Hub {
	h := &Hub{
		resolver:     resolver,
		interval:     15 * time.Second,
		pingInterval: 30 * time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		l:       applogger.Nop(),
		now:     time.Now,
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run broadcasts until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			if h.Clients() == 0 {
				continue
			}
			msg, err := h.snapshot(ctx)
			if err != nil {
				h.l.Warn("ticker.run snapshot failed", applogger.Error(err))
				continue
			}
			h.broadcast(msg)
		}
	}
}

// ServeWS upgrades the request and registers the connection. The new client
// receives a snapshot immediately.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.l.Debug("ticker.serve client connected", applogger.Int("clients", h.Clients()))

	go h.writeLoop(c)
	go h.readLoop(c)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.interval)
		defer cancel()
		if msg, err := h.snapshot(ctx); err == nil {
			h.deliver(c, msg)
		}
	}()
	return nil
}

func (h *Hub) snapshot(ctx context.Context) ([]byte, error) {
	tick := models.PriceTick{
		Type:   "prices",
		Prices: make(map[string]util.Float, len(models.SupportedTokens)),
		TS:     h.now().Unix(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, t := range models.SupportedTokens {
		wg.Add(1)
		go func(t models.TokenSymbol) {
			defer wg.Done()
			p := h.resolver.Resolve(ctx, t, nil)
			if h.metrics != nil && p.Resolved() {
				h.metrics.RecordLastPrice(t.String(), p.USD)
			}
			mu.Lock()
			tick.Prices[t.String()] = util.Float(p.USD)
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	return json.Marshal(tick)
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.deliverLocked(c, msg)
	}
}

func (h *Hub) deliver(c *client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliverLocked(c, msg)
}

func (h *Hub) deliverLocked(c *client, msg []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		// drop on backpressure
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) writeLoop(c *client) {
	ping := time.NewTicker(h.pingInterval)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readLoop discards inbound frames; it exists to notice disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
