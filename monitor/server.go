// Package monitor streams simulation observations to external collaborators
// over a websocket (spec §1 "external collaborators interact with the
// core only through the operations enumerated in §4"). It is adapted from
// the teacher's server.go push-update websocket lifecycle and from
// tabular/server/fastview/client.go's errgroup-coordinated read/ping/publish
// goroutines: the same ping/pong/close handling and write-deadline
// discipline, generalized from a single assumed client to any number of
// concurrent subscribers, and publishing raw gridstate.Observation JSON
// instead of rendered SVG/HTML view updates.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"wildfireevac/gridstate"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// pingPeriod sends pings to the peer with this period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// closeGracePeriod is the time to wait before force-closing a connection.
	closeGracePeriod = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the current simulation observation over HTTP/websocket and
// Prometheus metrics over /metrics.
type Server struct {
	addr     string
	registry *prometheus.Registry
	logger   zerolog.Logger

	mu       sync.RWMutex
	latest   *gridstate.Observation
	clients  map[chan gridstate.Observation]bool
	clientMu sync.Mutex
}

// NewServer constructs a Server that relays observations read from upstream
// onto any number of websocket subscribers. registry may be nil to serve the
// default global Prometheus registry.
func NewServer(addr string, upstream <-chan gridstate.Observation, registry *prometheus.Registry) *Server {
	s := &Server{
		addr:     addr,
		registry: registry,
		logger:   log.With().Str("component", "monitor.Server").Logger(),
		clients:  map[chan gridstate.Observation]bool{},
	}
	go s.watch(upstream)
	return s
}

// watch drains upstream, caching the latest observation and broadcasting it
// to every currently-subscribed client. A slow client never blocks the
// broadcast: its update is dropped rather than queued.
func (s *Server) watch(upstream <-chan gridstate.Observation) {
	for obs := range upstream {
		obs := obs
		s.mu.Lock()
		s.latest = &obs
		s.mu.Unlock()

		s.clientMu.Lock()
		for ch := range s.clients {
			select {
			case ch <- obs:
			default:
			}
		}
		s.clientMu.Unlock()
	}
}

// Router builds the mux.Router serving this Server's endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/observation", s.serveLatestObservation).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWebsocket)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

// Serve blocks, serving the Router on addr.
func (s *Server) Serve() error {
	return http.ListenAndServe(s.addr, s.Router())
}

func (s *Server) serveLatestObservation(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	obs := s.latest
	s.mu.RUnlock()

	if obs == nil {
		http.Error(w, "no observation yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(obs)
}

// serveWebsocket upgrades the connection and streams observations to it
// until the client disconnects or a write fails. The read, ping/pong, and
// publish loops run in an errgroup, mirroring the teacher's client.go Sync
// method; the first one to fail cancels the group's context for the rest.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	connID := uuid.NewString()
	logger := s.logger.With().Str("conn_id", connID).Logger()

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	updates := make(chan gridstate.Observation, 1)
	s.clientMu.Lock()
	s.clients[updates] = true
	s.clientMu.Unlock()
	logger.Info().Msg("websocket subscriber connected")

	defer func() {
		s.clientMu.Lock()
		delete(s.clients, updates)
		s.clientMu.Unlock()
		close(updates)
		s.closeWebsocket(ws, logger)
	}()

	pong := make(chan struct{})
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	group, groupCtx := errgroup.WithContext(r.Context())
	group.Go(func() error { return s.readPump(ws) })
	group.Go(func() error { return s.pingPong(groupCtx, ws, pong) })
	group.Go(func() error { return s.publishUpdates(groupCtx, ws, updates) })

	if err := group.Wait(); err != nil {
		logger.Debug().Err(err).Msg("websocket session ended")
	}
}

// readPump drives the gorilla read loop so control frames (pongs) reach the
// handler registered above; it returns once the peer closes the connection
// or its read deadline lapses without a pong, per the gorilla chat example
// referenced in the teacher's client.go.
func (s *Server) readPump(ws *websocket.Conn) error {
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return err
		}
	}
}

// pingPong sends a periodic ping over a channerics.NewTicker, the same
// fan-out primitive the teacher uses for its own websocket ping loop
// (tabular/server/server.go, tabular/server/fastview/client.go).
func (s *Server) pingPong(ctx context.Context, ws *websocket.Conn, pong <-chan struct{}) error {
	ticker := channerics.NewTicker(ctx.Done(), pingPeriod)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-pong:
		}
	}
}

// publishUpdates mirrors the teacher's publish loop: await the next update,
// set a write deadline, write it, and never let a slow write block receiving
// the next update indefinitely.
func (s *Server) publishUpdates(ctx context.Context, ws *websocket.Conn, updates <-chan gridstate.Observation) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case obs, ok := <-updates:
			if !ok {
				return nil
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := ws.WriteJSON(obs); err != nil {
				return err
			}
		}
	}
}

func (s *Server) closeWebsocket(ws *websocket.Conn, logger zerolog.Logger) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	if err := ws.Close(); err != nil {
		logger.Debug().Err(err).Msg("websocket close")
	}
	logger.Info().Msg("websocket subscriber disconnected")
}
