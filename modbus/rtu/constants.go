// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package rtu

const (
	// MinSize is the smallest well-formed frame: address, function
	// code and two checksum bytes.
	MinSize = 4
	// MaxSize bounds a frame: one address byte, up to 253 PDU bytes
	// and two checksum bytes.
	MaxSize = 256

	// ExceptionSize is the fixed length of a device exception frame:
	// address, function|0x80, exception code and checksum.
	ExceptionSize = 5
)
