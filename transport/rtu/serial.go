// Copyright (c) 2014 Quoc-Viet Nguyen. All rights reserved.
// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package rtu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/grid-x/serial"

	"github.com/ffutop/modbus-master/internal/config"
)

const (
	serialIdleTimeout = 60 * time.Second

	// readSlice bounds each driver-level read so that the per-call
	// timeout of ReadWithTimeout can be honored regardless of the
	// driver's own timeout handling.
	readSlice = 20 * time.Millisecond
)

// SerialPort adapts a grid-x serial device to the transport.Port
// contract. The device is opened lazily on first use and closed again
// after an idle period, so a long-lived master does not hold the
// RS-485 line open between polling bursts.
type SerialPort struct {
	// Serial port configuration.
	serial.Config

	IdleTimeout time.Duration

	mu sync.Mutex
	// port is platform-dependent data structure for serial port.
	port         io.ReadWriteCloser
	lastActivity time.Time
	closeTimer   *time.Timer
}

// NewSerialPort allocates a SerialPort from the service configuration.
func NewSerialPort(cfg config.SerialConfig) *SerialPort {
	p := &SerialPort{}

	// Map internal config to serial.Config
	p.Config.Address = cfg.Device
	p.Config.BaudRate = cfg.BaudRate
	p.Config.DataBits = cfg.DataBits
	p.Config.StopBits = cfg.StopBits
	p.Config.Parity = cfg.Parity

	// The driver timeout is a read granularity, not the protocol
	// timeout; ReadWithTimeout loops slices until its own deadline.
	p.Config.Timeout = readSlice

	if cfg.RS485 {
		p.Config.RS485.Enabled = true
		p.Config.RS485.DelayRtsBeforeSend = cfg.DelayRtsBeforeSend
		p.Config.RS485.DelayRtsAfterSend = cfg.DelayRtsAfterSend
		p.Config.RS485.RtsHighDuringSend = cfg.RtsHighDuringSend
		p.Config.RS485.RtsHighAfterSend = cfg.RtsHighAfterSend
		p.Config.RS485.RxDuringTx = cfg.RxDuringTx
	}

	p.IdleTimeout = serialIdleTimeout
	return p
}

// Write sends raw frame bytes to the device, opening it if needed.
func (s *SerialPort) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(); err != nil {
		return 0, err
	}
	s.lastActivity = time.Now()
	s.startCloseTimer()

	return s.port.Write(p)
}

// ReadWithTimeout returns whatever bytes arrive within the timeout
// window, at most maxBytes. An empty result with nil error means the
// line stayed quiet for the whole window.
func (s *SerialPort) ReadWithTimeout(maxBytes int, timeout time.Duration) ([]byte, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("modbus: invalid read size %d", maxBytes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(); err != nil {
		return nil, err
	}
	s.lastActivity = time.Now()
	s.startCloseTimer()

	buf := make([]byte, maxBytes)
	deadline := time.Now().Add(timeout)
	for {
		n, err := s.port.Read(buf)
		if err != nil && !errors.Is(err, serial.ErrTimeout) {
			return nil, err
		}
		if n > 0 {
			s.lastActivity = time.Now()
			return buf[:n], nil
		}
		if !time.Now().Before(deadline) {
			return nil, nil
		}
	}
}

// connect opens the serial device if it is not open. Caller must hold the mutex.
func (s *SerialPort) connect() error {
	if s.port == nil {
		port, err := serial.Open(&s.Config)
		if err != nil {
			return fmt.Errorf("could not open %s: %w", s.Config.Address, err)
		}
		s.port = port
	}
	return nil
}

func (s *SerialPort) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.close()
}

// close closes the serial device if it is open. Caller must hold the mutex.
func (s *SerialPort) close() (err error) {
	if s.port != nil {
		err = s.port.Close()
		s.port = nil
	}
	return
}

func (s *SerialPort) startCloseTimer() {
	if s.IdleTimeout <= 0 {
		return
	}
	if s.closeTimer == nil {
		s.closeTimer = time.AfterFunc(s.IdleTimeout, s.closeIdle)
	} else {
		s.closeTimer.Reset(s.IdleTimeout)
	}
}

// closeIdle closes the device if last activity is past IdleTimeout.
func (s *SerialPort) closeIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.IdleTimeout <= 0 {
		return
	}

	if idle := time.Since(s.lastActivity); idle >= s.IdleTimeout {
		slog.Debug("modbus: closing serial port due to idle timeout", "idle", idle)
		s.close()
	}
}
