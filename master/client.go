// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package master implements the request side of the protocol: one
// Client owns a PDU buffer and the descriptor of the in-flight
// exchange, builds request PDUs, drives the transport through a
// send/receive cycle and decodes the response into typed values.
package master

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ffutop/modbus-master/modbus"
)

// ErrNoResponse is returned by response accessors before a successful
// cycle has completed.
var ErrNoResponse = errors.New("modbus: no response ready")

// resultNone marks a cycle that has been built but not executed.
const resultNone modbus.Result = -1

// Exchanger is the request/response transport consumed by the Client.
// *rtu.Transport implements it.
type Exchanger interface {
	Send(ctx context.Context, deviceID byte, pdu *modbus.PDU) error
	Receive(ctx context.Context, req modbus.Request, pdu *modbus.PDU) (modbus.Result, error)
}

// Client is the master-side facade. It is not safe for concurrent
// use: one Client serves one request/response cycle at a time, and
// multiple Clients sharing a physical link must serialize access to
// it externally.
type Client struct {
	transport Exchanger
	logger    *slog.Logger

	pdu    modbus.PDU
	req    modbus.Request
	result modbus.Result
}

// NewClient allocates a Client on top of a transport.
func NewClient(transport Exchanger) *Client {
	return &Client{
		transport: transport,
		logger:    slog.Default(),
		result:    resultNone,
	}
}

// SetLogger replaces the diagnostic sink. Only non-OK cycle outcomes
// are reported, at warning level.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// DeviceID returns the address targeted by the current request.
// Retained after the cycle completes for diagnostics.
func (c *Client) DeviceID() byte {
	return c.req.DeviceID
}

// Result returns the outcome of the last executed cycle. Before the
// first Execute, and after building a new request, there is no
// outcome and accessors fail with ErrNoResponse.
func (c *Client) Result() modbus.Result {
	return c.result
}

// Execute sends the prepared request and waits for the response. The
// returned error reports a fault of the serial collaborator itself;
// timeouts, device exceptions and malformed responses are Results.
// The Client never retries on its own.
func (c *Client) Execute(ctx context.Context) (modbus.Result, error) {
	if err := c.transport.Send(ctx, c.req.DeviceID, &c.pdu); err != nil {
		return 0, err
	}

	result, err := c.transport.Receive(ctx, c.req, &c.pdu)
	if err != nil {
		return 0, err
	}
	c.result = result

	if result != modbus.ResultOK {
		if result == modbus.ResultException {
			code := c.ExceptionCode()
			c.logger.Warn("modbus request failed",
				"device", c.req.DeviceID,
				"result", result.String(),
				"exception", code,
				"reason", modbus.ExceptionMessage(code))
		} else {
			c.logger.Warn("modbus request failed",
				"device", c.req.DeviceID,
				"result", result.String())
		}
	}
	return result, nil
}
