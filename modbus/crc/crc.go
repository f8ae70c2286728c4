// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package crc

// CRC computes the MODBUS error-detection code over a byte stream.
// The algorithm is the reflected CRC-16 with polynomial 0xA001 and
// initial value 0xFFFF. On the wire the value is transmitted low byte
// first; Value returns the raw accumulator, so callers emit
// byte(Value()) followed by byte(Value()>>8).
type CRC struct {
	value uint16
}

// Reset initializes the accumulator. It must be called before reuse.
func (c *CRC) Reset() *CRC {
	c.value = 0xFFFF
	return c
}

// PushByte folds a single byte into the accumulator.
func (c *CRC) PushByte(b byte) *CRC {
	c.value ^= uint16(b)
	for i := 0; i < 8; i++ {
		if c.value&1 != 0 {
			c.value = (c.value >> 1) ^ 0xA001
		} else {
			c.value >>= 1
		}
	}
	return c
}

// PushBytes folds a slice of bytes into the accumulator.
func (c *CRC) PushBytes(bs []byte) *CRC {
	for _, b := range bs {
		c.PushByte(b)
	}
	return c
}

// Value returns the current accumulator.
func (c *CRC) Value() uint16 {
	return c.value
}
