// Package stats broadcasts frame timings to websocket subscribers and
// serves a small health endpoint, so a browser dashboard can watch the
// frame loop without touching the render thread.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Frame is one published frame-timing sample.
type Frame struct {
	ID       uint64  `json:"id"`
	UptimeS  float64 `json:"uptime_s"`
	DeltaMS  float64 `json:"delta_ms"`
	UpdateMS float64 `json:"update_ms"`
	RenderMS float64 `json:"render_ms"`
}

type Server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	latest  Frame
	frameID uint64
	start   time.Time
}

func NewServer() *Server {
	return &Server{
		clients: map[*websocket.Conn]bool{},
		start:   time.Now(),
	}
}

// Publish records the latest frame timings. Cheap enough to call from the
// render thread every tick; broadcasting happens on the server's own
// cadence.
func (s *Server) Publish(deltaMS, updateMS, renderMS float64) {
	s.mu.Lock()
	s.frameID++
	s.latest = Frame{
		ID:       s.frameID,
		UptimeS:  time.Since(s.start).Seconds(),
		DeltaMS:  deltaMS,
		UpdateMS: updateMS,
		RenderMS: renderMS,
	}
	s.mu.Unlock()
}

// HandleFramesWS upgrades the connection and subscribes it to frame
// broadcasts.
func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth reports liveness plus the latest frame id.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	frame := s.latest
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":       true,
		"frame_id": frame.ID,
		"uptime_s": time.Since(s.start).Seconds(),
	})
}

// Run broadcasts the latest frame to all subscribers on a fixed cadence
// until ctx is done.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast()
		}
	}
}

func (s *Server) broadcast() {
	s.mu.Lock()
	frame := s.latest
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if frame.ID == 0 || len(conns) == 0 {
		return
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debug().Err(err).Msg("dropping stats client")
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}
	}
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", s.HandleFramesWS)
	mux.HandleFunc("/healthz", s.HandleHealth)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Info().Str("addr", addr).Msg("stats server listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
