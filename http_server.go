// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build http || !bluetooth

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/soypat/seqs/stacks"

	"github.com/kortschak/gmb/wifi"
	"github.com/kortschak/gmb/wire"
)

var useHTTP = true

func (c *console) httpServer(ctx context.Context) error {
	_, stack, err := wifi.SetupWithDHCP(ctx, c.dev, wifi.SetupConfig{
		Hostname: "gmb",
		TCPPorts: 1,
	}, c.log)
	if err != nil {
		return fmt.Errorf("failed to set up dhcp: %w", err)
	}

	const tcpBufLen = 2048 // Half a page each direction.
	ln, err := stacks.NewTCPListener(stack, stacks.TCPListenerConfig{
		MaxConnections: 3,
		ConnTxBufSize:  tcpBufLen,
		ConnRxBufSize:  tcpBufLen,
	})
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	const port = 80
	err = ln.StartListening(port)
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	addr := netip.AddrPortFrom(stack.Addr(), port)
	c.log.LogAttrs(ctx, slog.LevelInfo, "listening", slog.String("addr", "http://"+addr.String()))
	mux := http.NewServeMux()
	mux.Handle("/status/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		c.log.LogAttrs(ctx, slog.LevelInfo, "status request")
		w.Header().Set("Connection", "close")
		fmt.Fprintln(w, c.game.Status())
	}))
	mux.Handle("/status/raw", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		pkt := wire.Encode(c.game.Status())
		c.log.LogAttrs(ctx, slog.LevelInfo, "raw status request", slog.Any("pkt", bytesAttr(pkt)))
		w.Header().Set("Connection", "close")
		fmt.Fprintf(w, "%x\n", pkt)
	}))
	mux.Handle("/log_at/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		c.log.LogAttrs(ctx, slog.LevelInfo, "set log level request")
		w.Header().Set("Connection", "close")
		err := c.level.UnmarshalText([]byte(r.URL.Query().Get("level")))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, err)
			return
		}
		c.log.LogAttrs(ctx, slog.LevelInfo, "request level", slog.Any("level", c.level.Level()))
		w.Write([]byte("ok"))
	}))
	mux.Handle("/log/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		c.log.LogAttrs(ctx, slog.LevelInfo, "get log")
		w.Header().Set("Connection", "Keep-Alive")
		w.Header().Set("Transfer-Encoding", "chunked")
		c.sw.use(w)
		defer c.sw.close()
		time.Sleep(10 * time.Minute)
	}))
	return http.Serve(ln, mux)
}
