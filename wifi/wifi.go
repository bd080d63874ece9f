// MIT License
//
// Copyright (c) 2022 Patricio Whittingslow
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package wifi joins the game console to a WiFi network and runs the
// userspace network stack used by the HTTP status server.
package wifi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"time"

	_ "embed"

	"github.com/soypat/cyw43439"
	"github.com/soypat/seqs/eth/dhcp"
	"github.com/soypat/seqs/stacks"
)

var (
	//go:embed ssid.text
	ssid string
	//go:embed password.text
	pass string
)

const mtu = cyw43439.MTU

const (
	// joinRetry is the delay between failed network joins.
	joinRetry = 5 * time.Second
	// dhcpPoll and dhcpAttempts bound the wait for a DHCP lease
	// before falling back to the requested address.
	dhcpPoll     = time.Second / 2
	dhcpAttempts = 16
)

type SetupConfig struct {
	// DHCP requested hostname.
	Hostname string
	// DHCP requested IP address. If no DHCP server answers, it is
	// used as a static address.
	RequestedIP string
	// Number of UDP ports to open in addition to the DHCP client port.
	UDPPorts uint16
	// Number of TCP ports to open.
	TCPPorts uint16
}

var nolog = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.Level(127),
}))

// SetupWithDHCP joins the embedded network, retrying until it
// succeeds, starts the NIC loop and obtains an address by DHCP.
func SetupWithDHCP(ctx context.Context, dev *cyw43439.Device, cfg SetupConfig, log *slog.Logger) (*stacks.DHCPClient, *stacks.PortStack, error) {
	if log == nil {
		log = nolog
	}
	var (
		static netip.Addr
		err    error
	)
	if cfg.RequestedIP != "" {
		static, err = netip.ParseAddr(cfg.RequestedIP)
		if err != nil {
			return nil, nil, err
		}
	}

	join(ctx, dev, log)
	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, nil, err
	}
	log.LogAttrs(ctx, slog.LevelInfo, "joined wifi", slog.String("mac", net.HardwareAddr(mac[:]).String()))

	stack := stacks.NewPortStack(stacks.PortStackConfig{
		MAC:             mac,
		MaxOpenPortsUDP: int(cfg.UDPPorts) + 1,
		MaxOpenPortsTCP: int(cfg.TCPPorts),
		MTU:             mtu,
		Logger:          log,
	})
	dev.RecvEthHandle(stack.RecvEth)
	go (&nic{dev: dev, stack: stack}).loop()

	client := stacks.NewDHCPClient(stack, dhcp.DefaultClientPort)
	err = client.BeginRequest(stacks.DHCPRequestConfig{
		RequestedAddr: static,
		Xid:           uint32(time.Now().Nanosecond()),
		Hostname:      cfg.Hostname,
	})
	if err != nil {
		return nil, stack, fmt.Errorf("dhcp begin request: %w", err)
	}
	for i := 0; client.State() != dhcp.StateBound; i++ {
		if i == dhcpAttempts {
			if !static.IsValid() {
				return client, stack, errors.New("dhcp did not complete and no static ip was requested")
			}
			log.LogAttrs(ctx, slog.LevelInfo, "dhcp did not complete, using static ip", slog.String("ip", cfg.RequestedIP))
			stack.SetAddr(static)
			return client, stack, nil
		}
		log.LogAttrs(ctx, slog.LevelDebug, "dhcp ongoing")
		time.Sleep(dhcpPoll)
	}

	ip := client.Offer()
	log.LogAttrs(ctx, slog.LevelInfo, "dhcp complete",
		slog.String("ip", ip.String()),
		slog.Uint64("cidrbits", uint64(client.CIDRBits())),
		slog.String("gateway", client.Gateway().String()),
		slog.String("hostname", string(client.Hostname())),
		slog.Duration("lease", client.IPLeaseTime()),
	)
	// The address must only be set once DHCP is bound.
	stack.SetAddr(ip)

	return client, stack, nil
}

// join blocks until dev has joined the embedded network.
func join(ctx context.Context, dev *cyw43439.Device, log *slog.Logger) {
	if pass == "" {
		log.LogAttrs(ctx, slog.LevelInfo, "joining open network", slog.String("ssid", ssid))
	} else {
		log.LogAttrs(ctx, slog.LevelInfo, "joining WPA secure network", slog.String("ssid", ssid), slog.Int("passlen", len(pass)))
	}
	for {
		err := dev.JoinWPA2(ssid, pass)
		if err == nil {
			return
		}
		log.LogAttrs(ctx, slog.LevelError, "failed to join wifi", slog.Any("err", err))
		time.Sleep(joinRetry)
	}
}

// nic shuttles ethernet frames between the radio and the stack.
type nic struct {
	dev   *cyw43439.Device
	stack *stacks.PortStack

	queue   [queueSize][mtu]byte
	lens    [queueSize]int
	retries [queueSize]int
}

const (
	// queueSize is the number of outgoing frames held before
	// sending.
	queueSize = 3
	// maxRetries is the number of failed sends before a frame
	// is dropped.
	maxRetries = 3
	// idle is the pause when there is no traffic in either
	// direction.
	idle = 51 * time.Millisecond
)

func (n *nic) loop() {
	for {
		rx := n.receive()
		tx := n.fill()
		if !tx {
			if !rx {
				time.Sleep(idle)
			}
			continue
		}
		n.send()
	}
}

// receive polls for one incoming frame and reports whether one
// arrived.
func (n *nic) receive() bool {
	got, err := n.dev.PollOne()
	if err != nil {
		println("poll error:", err.Error())
	}
	return got
}

// fill queues outgoing frames from the stack into free slots and
// reports whether any frame is waiting to be sent.
func (n *nic) fill() bool {
	for i := range n.queue {
		if n.retries[i] != 0 {
			// Waiting for retransmission.
			continue
		}
		var err error
		n.lens[i], err = n.stack.HandleEth(n.queue[i][:])
		if err != nil {
			println("stack error n(should be 0)=", n.lens[i], "err=", err.Error())
			n.lens[i] = 0
			continue
		}
		if n.lens[i] == 0 {
			break
		}
	}
	return n.lens != [queueSize]int{}
}

func (n *nic) send() {
	for i, l := range n.lens {
		if l <= 0 {
			continue
		}
		err := n.dev.SendEth(n.queue[i][:l])
		if err == nil {
			n.release(i)
			continue
		}
		n.retries[i]++
		if n.retries[i] > maxRetries {
			n.release(i)
			println("dropped outgoing packet:", err.Error())
		}
	}
}

func (n *nic) release(i int) {
	n.lens[i] = 0
	n.retries[i] = 0
}
