// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package rtu drives one request/response cycle over a serial Port:
// it frames the outgoing PDU, waits for a candidate response within a
// timeout and classifies the outcome. One Transport serves one cycle
// at a time; callers sharing a link must serialize access themselves.
package rtu

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/ffutop/modbus-master/modbus"
	rtuframe "github.com/ffutop/modbus-master/modbus/rtu"
	"github.com/ffutop/modbus-master/transport"
)

const (
	// DefaultTimeout bounds the wait for response bytes.
	DefaultTimeout = 2 * time.Second
	// DefaultPause is the settling delay after a frame is written,
	// giving RS-485 drivers time to release the line.
	DefaultPause = 5 * time.Millisecond
)

// Transport performs send/receive cycles against one serial Port. It
// borrows the caller's PDU buffer for the duration of a cycle and
// never retains it.
type Transport struct {
	port    transport.Port
	timeout time.Duration
	pause   time.Duration
}

// NewTransport wraps a Port. A non-positive timeout selects
// DefaultTimeout.
func NewTransport(port transport.Port, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		port:    port,
		timeout: timeout,
		pause:   DefaultPause,
	}
}

// SetPause overrides the post-write settling delay.
func (t *Transport) SetPause(pause time.Duration) {
	t.pause = pause
}

// Send frames the PDU with the device address and checksum and writes
// it to the port. An error here is a link fault, not a protocol
// outcome.
func (t *Transport) Send(ctx context.Context, deviceID byte, pdu *modbus.PDU) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	frame, err := rtuframe.Assemble(deviceID, pdu.Bytes())
	if err != nil {
		return err
	}

	slog.Debug("send to modbus device", "request", hex.EncodeToString(frame))
	if _, err := t.port.Write(frame); err != nil {
		return fmt.Errorf("modbus: frame write failed: %w", err)
	}

	if t.pause > 0 {
		time.Sleep(t.pause)
	}
	return nil
}

// Receive reads a candidate response frame and classifies it against
// the request descriptor. On ResultOK or ResultException the response
// PDU overwrites the caller's buffer. A returned error is a fault of
// the port itself; every protocol-level outcome is a Result.
func (t *Transport) Receive(ctx context.Context, req modbus.Request, pdu *modbus.PDU) (modbus.Result, error) {
	// Without a length field or delimiters, the expected response
	// shape tells us how many bytes a plausible frame carries.
	target := 3 + req.PDUSize
	buf := make([]byte, 0, rtuframe.MaxSize)

	for len(buf) < target {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		chunk, err := t.port.ReadWithTimeout(target-len(buf), t.timeout)
		if err != nil {
			return 0, fmt.Errorf("modbus: frame read failed: %w", err)
		}
		if len(chunk) == 0 {
			if len(buf) == 0 {
				return modbus.ResultTimeout, nil
			}
			// Line went quiet mid-frame; classify what arrived.
			break
		}
		buf = append(buf, chunk...)

		// An exception reply is always 5 bytes, shorter than any
		// well-formed data response.
		if len(buf) >= 2 && buf[1] == req.Function|modbus.ExceptionBit {
			target = rtuframe.ExceptionSize
		}
	}

	result := classify(req, buf, pdu)
	slog.Debug("recv from modbus device", "response", hex.EncodeToString(buf), "result", result)
	return result, nil
}

// classify validates a candidate frame. Checksum failure takes
// precedence over address, function and length checks, so a corrupted
// frame is never misreported as an exception or length mismatch.
func classify(req modbus.Request, frame []byte, pdu *modbus.PDU) modbus.Result {
	if len(frame) < rtuframe.MinSize {
		return modbus.ResultBadResponse
	}
	if !rtuframe.ValidCRC(frame) {
		return modbus.ResultBadResponse
	}
	if frame[0] != req.DeviceID {
		return modbus.ResultBadResponse
	}

	respPDU := rtuframe.PDU(frame)
	switch respPDU[0] {
	case req.Function | modbus.ExceptionBit:
		copyPDU(pdu, respPDU)
		return modbus.ResultException
	case req.Function:
		if len(respPDU) != req.PDUSize {
			return modbus.ResultBadResponse
		}
		copyPDU(pdu, respPDU)
		return modbus.ResultOK
	default:
		return modbus.ResultBadResponse
	}
}

func copyPDU(pdu *modbus.PDU, raw []byte) {
	// Lengths were validated against frame bounds; SetSize and the
	// writes cannot fail here.
	pdu.SetSize(len(raw))
	for i, b := range raw {
		pdu.WriteByte(i, b)
	}
}
