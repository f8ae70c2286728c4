// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package poller runs the sampling loop: every interval it issues the
// configured reads through one Client and logs the decoded values.
// Tasks run sequentially because the Client and the serial link serve
// one request/response cycle at a time.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ffutop/modbus-master/internal/config"
	"github.com/ffutop/modbus-master/master"
	"github.com/ffutop/modbus-master/modbus"
)

// Poller drives the configured poll tasks over one Client.
type Poller struct {
	client *master.Client
	cfg    config.PollConfig
}

// New allocates a Poller.
func New(client *master.Client, cfg config.PollConfig) *Poller {
	return &Poller{client: client, cfg: cfg}
}

// Start blocks, polling until the context is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		p.cycle(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	for _, task := range p.cfg.Tasks {
		if ctx.Err() != nil {
			return
		}
		if err := p.run(ctx, task); err != nil {
			// A link fault, as opposed to a protocol outcome. The
			// next cycle retries; retry policy stays with the poller.
			slog.Error("poll task failed", "task", task.Name, "device", task.DeviceID, "err", err)
		}
	}
}

func (p *Poller) run(ctx context.Context, task config.TaskConfig) error {
	var err error
	switch task.Table {
	case "coils":
		err = p.client.InitReadCoilsRequest(task.DeviceID, task.StartAddress, task.Count)
	case "discrete":
		err = p.client.InitReadDiscreteInputsRequest(task.DeviceID, task.StartAddress, task.Count)
	case "holding":
		err = p.client.InitReadHoldingRegistersRequest(task.DeviceID, task.StartAddress, task.Count)
	case "input":
		err = p.client.InitReadInputRegistersRequest(task.DeviceID, task.StartAddress, task.Count)
	default:
		err = fmt.Errorf("unknown table %q", task.Table)
	}
	if err != nil {
		return err
	}

	result, err := p.client.Execute(ctx)
	if err != nil {
		return err
	}
	if result != modbus.ResultOK {
		// The client already logged the outcome.
		return nil
	}

	values, err := p.decode(task)
	if err != nil {
		return err
	}
	slog.Info("poll", "task", task.Name, "device", task.DeviceID,
		"table", task.Table, "address", task.StartAddress, "values", values)
	return nil
}

func (p *Poller) decode(task config.TaskConfig) (any, error) {
	switch task.Table {
	case "coils", "discrete":
		bits := make([]bool, task.Count)
		for i := range bits {
			b, err := p.client.ResponseBit(task.StartAddress + i)
			if err != nil {
				return nil, err
			}
			bits[i] = b
		}
		return bits, nil
	default:
		regs := make([]int, task.Count)
		for i := range regs {
			v, err := p.client.ResponseInt16(task.StartAddress+i, task.Signed)
			if err != nil {
				return nil, err
			}
			regs[i] = v
		}
		return regs, nil
	}
}
