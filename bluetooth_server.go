// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build bluetooth

package main

import (
	"context"
	"log/slog"
	"strings"

	_ "embed"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/gmb/wire"
)

var useBluetooth = true

var (
	//go:embed advertise_name.text
	name string
	//go:embed service.uuid
	service string
	//go:embed status.uuid
	status string
	//go:embed log_level.uuid
	logLevel string
)

func (c *console) bluetoothServer(ctx context.Context) error {
	serviceUUID, err := bluetooth.ParseUUID(strings.TrimSpace(service))
	if err != nil {
		return err
	}
	statusUUID, err := bluetooth.ParseUUID(strings.TrimSpace(status))
	if err != nil {
		return err
	}
	levelUUID, err := bluetooth.ParseUUID(strings.TrimSpace(logLevel))
	if err != nil {
		return err
	}

	adapter := bluetooth.DefaultAdapter
	adapter.Use(c.dev)

	adv := adapter.DefaultAdvertisement()
	err = adv.Configure(bluetooth.AdvertisementOptions{
		LocalName: strings.TrimSpace(name),
	})
	if err != nil {
		return err
	}
	err = adv.Start()
	if err != nil {
		return err
	}
	var (
		stat     bluetooth.Characteristic
		statData [wire.Len]byte

		level     bluetooth.Characteristic
		levelData [1]byte
	)
	return adapter.AddService(&bluetooth.Service{
		UUID: serviceUUID,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &stat,
				UUID:   statusUUID,
				Value:  statData[:],
				Flags:  bluetooth.CharacteristicReadPermission,
				ReadEvent: func(client bluetooth.Connection, offset int, value []byte) {
					if offset != 0 || len(value) != wire.Len {
						return
					}
					s := c.game.Status()
					c.log.LogAttrs(ctx, slog.LevelInfo, "status request", slog.Any("status", s))
					wire.Append(value[:0], s)
				},
			},
			{
				Handle: &level,
				UUID:   levelUUID,
				Value:  levelData[:],
				Flags:  bluetooth.CharacteristicReadPermission | bluetooth.CharacteristicWritePermission | bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: func(client bluetooth.Connection, offset int, value []byte) {
					if offset != 0 || len(value) != 1 {
						return
					}
					// The level is a signed slog level, so
					// 0xfc is debug and 0x08 is error.
					l := slog.Level(int8(value[0]))
					c.level.Set(l)
					c.log.LogAttrs(ctx, slog.LevelInfo, "request level", slog.Any("level", l))
					levelData[0] = value[0]
				},
			},
		},
	})
}
