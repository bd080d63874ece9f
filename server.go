// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soypat/cyw43439"
)

// radioConfig returns the CYW43439 configuration for the status
// servers included in the build.
func radioConfig() cyw43439.Config {
	switch {
	case useHTTP && useBluetooth:
		return cyw43439.DefaultWifiBluetoothConfig()
	case useBluetooth:
		return cyw43439.DefaultBluetoothConfig()
	default:
		return cyw43439.DefaultWifiConfig()
	}
}

// server runs the status servers included in the build, returning
// when all have stopped.
func (c *console) server(ctx context.Context) error {
	var servers []func(context.Context) error
	if useHTTP {
		servers = append(servers, c.httpServer)
	}
	if useBluetooth {
		servers = append(servers, c.bluetoothServer)
	}
	errc := make(chan error, len(servers))
	for _, srv := range servers {
		go func() {
			errc <- srv(ctx)
		}()
	}
	var errs []error
	for range servers {
		err := <-errc
		if err != nil {
			c.log.LogAttrs(ctx, slog.LevelError, "status server", slog.Any("err", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
