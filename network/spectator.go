// Package network streams presented frames to read-only websocket spectators
package network

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/gridcrawl/logger"
	"github.com/lixenwraith/gridcrawl/render"
	"github.com/lixenwraith/gridcrawl/status"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 8192,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// FrameMessage is the JSON payload sent for every presented frame
type FrameMessage struct {
	Tick uint64   `json:"tick"`
	Rows []string `json:"rows"`
}

// Spectator is a presenter fanning frames out to websocket clients on /ws
// Presenting never blocks the tick: a client whose buffer is full misses that frame
type Spectator struct {
	addr string

	mu      sync.RWMutex
	clients map[*client]struct{}

	sent    atomic.Uint64
	dropped atomic.Uint64
	gauge   *atomic.Int64
}

// NewSpectator creates a spectator for addr; reg may be nil
func NewSpectator(addr string, reg *status.Registry) *Spectator {
	s := &Spectator{
		addr:    addr,
		clients: make(map[*client]struct{}),
	}
	if reg != nil {
		s.gauge = reg.Counter(status.KeySpectators)
	}
	return s
}

// Handler serves the websocket endpoint and a plain-text root
func (s *Spectator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

func (s *Spectator) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("gridcrawl spectator: connect a websocket to /ws\n")); err != nil {
		logger.Log.WithError(err).Debug("spectator root write failed")
	}
}

// Serve listens on the configured address until ctx is done, then disconnects every client
func (s *Spectator) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener
func (s *Spectator) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Log.WithField("addr", ln.Addr().String()).Info("spectator listening")

	select {
	case err := <-errCh:
		s.closeAll()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeAll()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Present encodes the frame once and offers it to every client
func (s *Spectator) Present(f *render.Frame) error {
	s.mu.RLock()
	n := len(s.clients)
	s.mu.RUnlock()
	if n == 0 {
		return nil
	}

	data, err := json.Marshal(FrameMessage{Tick: f.Tick, Rows: f.Rows()})
	if err != nil {
		return err
	}
	s.broadcast(data)
	return nil
}

func (s *Spectator) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
			s.sent.Add(1)
		default:
			s.dropped.Add(1)
		}
	}
}

// ClientCount returns the number of connected spectators
func (s *Spectator) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Stats returns frames queued and frames dropped across all clients
func (s *Spectator) Stats() (sent, dropped uint64) {
	return s.sent.Load(), s.dropped.Load()
}

func (s *Spectator) register(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	if s.gauge != nil {
		s.gauge.Store(int64(n))
	}
}

// unregister removes c and closes its send channel, once
func (s *Spectator) unregister(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	if ok {
		delete(s.clients, c)
		close(c.send)
	}
	n := len(s.clients)
	s.mu.Unlock()
	if s.gauge != nil {
		s.gauge.Store(int64(n))
	}
}

func (s *Spectator) closeAll() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.unregister(c)
	}
}

func (s *Spectator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.register(c)
	logger.Log.WithField("remote", conn.RemoteAddr().String()).Info("spectator connected")

	go c.writePump()
	c.readPump()
	s.unregister(c)
	logger.Log.WithField("remote", conn.RemoteAddr().String()).Info("spectator disconnected")
}
