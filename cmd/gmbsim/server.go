// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kortschak/gmb/game"
)

// statusMessage is the JSON form of a game.Status.
type statusMessage struct {
	State       string `json:"state"`
	Difficulty  string `json:"difficulty"`
	Score       int    `json:"score"`
	TimeLimitMs int64  `json:"time_limit_ms"`
	Target      int    `json:"target"`
	Input       int    `json:"input"`
}

func newStatusMessage(s game.Status) statusMessage {
	return statusMessage{
		State:       s.State.String(),
		Difficulty:  s.Difficulty.String(),
		Score:       s.Score,
		TimeLimitMs: s.TimeLimit.Milliseconds(),
		Target:      s.Target,
		Input:       s.Input,
	}
}

// statusServer serves the game status over HTTP and streams changes
// to websocket clients.
type statusServer struct {
	status func() game.Status
	log    *slog.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan statusMessage
}

func newStatusServer(status func() game.Status, log *slog.Logger) *statusServer {
	return &statusServer{
		status:  status,
		log:     log,
		clients: make(map[*websocket.Conn]chan statusMessage),
	}
}

func (s *statusServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/status.json", s.handleStatusJSON).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	return r
}

func (s *statusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, s.status())
}

func (s *statusServer) handleStatusJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newStatusMessage(s.status()))
}

func (s *statusServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.LogAttrs(r.Context(), slog.LevelError, "websocket upgrade", slog.Any("err", err))
		return
	}
	s.log.LogAttrs(r.Context(), slog.LevelInfo, "websocket client", slog.String("addr", conn.RemoteAddr().String()))

	updates := make(chan statusMessage, 8)
	s.mu.Lock()
	s.clients[conn] = updates
	s.mu.Unlock()

	// Drain client messages so that a close is noticed.
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				s.remove(conn)
				return
			}
		}
	}()

	err = conn.WriteJSON(newStatusMessage(s.status()))
	for err == nil {
		msg, ok := <-updates
		if !ok {
			break
		}
		err = conn.WriteJSON(msg)
	}
	if err != nil {
		s.log.LogAttrs(r.Context(), slog.LevelDebug, "websocket write", slog.Any("err", err))
	}
	s.remove(conn)
	conn.Close()
}

func (s *statusServer) remove(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updates, ok := s.clients[conn]
	if !ok {
		return
	}
	delete(s.clients, conn)
	close(updates)
}

// publish sends st to all websocket clients. Slow clients miss
// updates rather than blocking the game.
func (s *statusServer) publish(st game.Status) {
	msg := newStatusMessage(st)
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, updates := range s.clients {
		select {
		case updates <- msg:
		default:
			s.log.LogAttrs(context.Background(), slog.LevelDebug, "dropped status update", slog.String("addr", conn.RemoteAddr().String()))
		}
	}
}

// close disconnects all websocket clients.
func (s *statusServer) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, updates := range s.clients {
		delete(s.clients, conn)
		close(updates)
	}
}
