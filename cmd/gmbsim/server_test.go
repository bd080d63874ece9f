// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kortschak/gmb/game"
)

func newTestServer(t *testing.T, st game.Status) (*statusServer, *httptest.Server) {
	t.Helper()
	var current atomic.Pointer[game.Status]
	current.Store(&st)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := newStatusServer(func() game.Status { return *current.Load() }, log)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(func() {
		srv.close()
		ts.Close()
	})
	return srv, ts
}

var processing = game.Status{
	State:      game.Processing,
	Difficulty: game.Normal,
	Score:      1,
	TimeLimit:  13 * time.Second,
	Target:     5,
	Input:      4,
}

func TestStatusText(t *testing.T) {
	_, ts := newTestServer(t, processing)
	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error reading body: %v", err)
	}
	got := strings.TrimSpace(string(b))
	want := processing.String()
	if got != want {
		t.Errorf("unexpected status:\ngot: %s\nwant:%s", got, want)
	}
}

func TestStatusJSON(t *testing.T) {
	_, ts := newTestServer(t, processing)
	resp, err := http.Get(ts.URL + "/status.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %q", ct)
	}
	var got statusMessage
	err = json.NewDecoder(resp.Body).Decode(&got)
	if err != nil {
		t.Fatalf("unexpected error decoding status: %v", err)
	}
	want := statusMessage{
		State:       "processing",
		Difficulty:  "Normal",
		Score:       1,
		TimeLimitMs: 13000,
		Target:      5,
		Input:       4,
	}
	if got != want {
		t.Errorf("unexpected status:\ngot: %+v\nwant:%+v", got, want)
	}
}

func TestStatusMethod(t *testing.T) {
	_, ts := newTestServer(t, processing)
	resp, err := http.Post(ts.URL+"/status", "text/plain", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("unexpected status code: got:%d want:%d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestStatusWebsocket(t *testing.T) {
	srv, ts := newTestServer(t, processing)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("unexpected error dialing: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var got statusMessage
	err = conn.ReadJSON(&got)
	if err != nil {
		t.Fatalf("unexpected error reading initial status: %v", err)
	}
	if got.State != "processing" || got.Target != 5 {
		t.Errorf("unexpected initial status: %+v", got)
	}

	next := processing
	next.State = game.ResolveRound
	next.Score = 2
	srv.publish(next)
	err = conn.ReadJSON(&got)
	if err != nil {
		t.Fatalf("unexpected error reading update: %v", err)
	}
	if got.State != "resolve_round" || got.Score != 2 {
		t.Errorf("unexpected update: %+v", got)
	}

	srv.close()
	_, _, err = conn.ReadMessage()
	if err == nil {
		t.Error("expected connection to close after server close")
	}
}
