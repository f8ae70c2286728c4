// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package transport defines the narrow serial capability the protocol
// core depends on. The physical UART/RS-485 driver lives behind this
// boundary, so the core can be exercised against an in-memory fake.
package transport

import (
	"io"
	"time"
)

// Port is the byte-level serial collaborator consumed by the RTU
// transport. A Write or read error means the link itself failed; it is
// escalated to the caller, never folded into a protocol outcome.
type Port interface {
	io.Writer

	// ReadWithTimeout returns whatever bytes (up to maxBytes) arrive
	// within the timeout window. An empty slice with a nil error means
	// the line stayed quiet; it never blocks past the timeout once
	// byte activity has ceased.
	ReadWithTimeout(maxBytes int, timeout time.Duration) ([]byte, error)

	io.Closer
}
