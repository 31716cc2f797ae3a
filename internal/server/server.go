// Package server exposes the daemon's HTTP surface: a websocket feed of
// pulse readings, a polling endpoint for the latest reading, health, and
// Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tgarrido/pulsecam"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ReadingFunc supplies the latest pulse reading; it returns
// pulsecam.ErrNoReading when none is available.
type ReadingFunc func() (pulsecam.Reading, error)

// Server is the daemon's HTTP front end.
type Server struct {
	hub     *Hub
	reading ReadingFunc
	logger  *zap.Logger
	httpSrv *http.Server
}

// New builds the server on addr. The hub may be shared with the event pump
// that broadcasts pulse messages.
func New(addr string, hub *Hub, reading ReadingFunc, logger *zap.Logger) *Server {
	s := &Server{
		hub:     hub,
		reading: reading,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/reading", s.handleReading)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	s.httpSrv = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Handler exposes the route mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving HTTP until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpSrv.Addr))
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	s.hub.Add(conn)
	defer func() {
		s.hub.Remove(conn)
		conn.Close()
	}()

	// Clients only listen; reads just detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handleReading(w http.ResponseWriter, r *http.Request) {
	reading, err := s.reading()
	if errors.Is(err, pulsecam.ErrNoReading) {
		w.WriteHeader(http.StatusNoContent)
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reading); err != nil {
		s.logger.Warn("could not encode reading", zap.Error(err))
	}
}
