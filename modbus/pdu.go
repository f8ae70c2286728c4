// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import (
	"fmt"
	"math"
)

// MaxPDUSize is the protocol data unit capacity: 256 bytes of RTU frame
// minus one address byte and two checksum bytes.
const MaxPDUSize = 253

// PDU is a fixed-capacity protocol data unit: the function code at
// offset 0 followed by the function-specific payload. A master reuses
// one PDU per exchange: the request is written into it and a successful
// response overwrites it in place. All accessors are offset-indexed
// within the PDU and fail when the access falls outside the current
// logical size.
//
// Registers are transmitted high byte first, so 16-bit accessors are
// big-endian regardless of host order. 32-bit accessors combine two
// consecutive registers; their bigEndian flag selects the word order,
// not the byte order within a word, because vendors disagree on how a
// 32-bit value is split across registers.
type PDU struct {
	data [MaxPDUSize]byte
	size int
}

// SetSize resets the logical size. Contents beyond the previous size
// are unspecified until written.
func (p *PDU) SetSize(n int) error {
	if n < 0 || n > MaxPDUSize {
		return fmt.Errorf("modbus: pdu size %d out of range [0, %d]", n, MaxPDUSize)
	}
	p.size = n
	return nil
}

// Size returns the current logical size in bytes.
func (p *PDU) Size() int {
	return p.size
}

// Bytes returns the bytes currently in use. The slice aliases the
// buffer and is invalidated by the next request.
func (p *PDU) Bytes() []byte {
	return p.data[:p.size]
}

// FunctionCode returns byte 0, or 0 for an empty PDU.
func (p *PDU) FunctionCode() byte {
	if p.size < 1 {
		return 0
	}
	return p.data[0]
}

func (p *PDU) check(offset, width int) error {
	if offset < 0 || offset+width > p.size {
		return fmt.Errorf("modbus: pdu access at offset %d width %d outside size %d", offset, width, p.size)
	}
	return nil
}

// WriteByte stores a single byte at the given offset.
func (p *PDU) WriteByte(offset int, v byte) error {
	if err := p.check(offset, 1); err != nil {
		return err
	}
	p.data[offset] = v
	return nil
}

// ReadByte reads a single byte, interpreted as signed or unsigned.
func (p *PDU) ReadByte(offset int, signed bool) (int, error) {
	if err := p.check(offset, 1); err != nil {
		return 0, err
	}
	if signed {
		return int(int8(p.data[offset])), nil
	}
	return int(p.data[offset]), nil
}

// WriteUint16 stores a 16-bit value big-endian at the given offset.
// Only the low 16 bits of v are used, so signed values round-trip
// through their two's-complement representation.
func (p *PDU) WriteUint16(offset, v int) error {
	if err := p.check(offset, 2); err != nil {
		return err
	}
	p.data[offset] = byte(v >> 8)
	p.data[offset+1] = byte(v)
	return nil
}

// ReadInt16 reads a big-endian 16-bit value, interpreted as signed or
// unsigned.
func (p *PDU) ReadInt16(offset int, signed bool) (int, error) {
	if err := p.check(offset, 2); err != nil {
		return 0, err
	}
	v := uint16(p.data[offset])<<8 | uint16(p.data[offset+1])
	if signed {
		return int(int16(v)), nil
	}
	return int(v), nil
}

// ReadInt32 reads two consecutive registers as a 32-bit value.
// bigEndian selects whether the register at offset holds the high word.
func (p *PDU) ReadInt32(offset int, bigEndian bool) (int32, error) {
	bits, err := p.readWordPair(offset, bigEndian)
	if err != nil {
		return 0, err
	}
	return int32(bits), nil
}

// ReadFloat32 reads two consecutive registers as an IEEE-754 float.
// bigEndian selects the word order as in ReadInt32.
func (p *PDU) ReadFloat32(offset int, bigEndian bool) (float32, error) {
	bits, err := p.readWordPair(offset, bigEndian)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func (p *PDU) readWordPair(offset int, bigEndian bool) (uint32, error) {
	if err := p.check(offset, 4); err != nil {
		return 0, err
	}
	w0 := uint32(p.data[offset])<<8 | uint32(p.data[offset+1])
	w1 := uint32(p.data[offset+2])<<8 | uint32(p.data[offset+3])
	if bigEndian {
		return w0<<16 | w1, nil
	}
	return w1<<16 | w0, nil
}
