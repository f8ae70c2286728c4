// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package rtu implements the serial wire framing: a frame is the
// device address, the PDU bytes and a trailing CRC transmitted low
// byte first. There are no delimiters or length fields; receivers
// rely on expected lengths and line silence to find frame boundaries.
package rtu

import (
	"fmt"

	"github.com/ffutop/modbus-master/modbus/crc"
)

// Assemble builds the wire frame for a request:
//
//	Device Address  : 1 byte
//	Function        : 1 byte
//	Data            : 0 up to 252 bytes
//	CRC             : 2 bytes, low byte first
func Assemble(deviceID byte, pdu []byte) ([]byte, error) {
	length := len(pdu) + 3
	if length < MinSize {
		return nil, fmt.Errorf("modbus: pdu is empty")
	}
	if length > MaxSize {
		return nil, fmt.Errorf("modbus: frame length '%v' must not be bigger than '%v'", length, MaxSize)
	}

	frame := make([]byte, length)
	frame[0] = deviceID
	copy(frame[1:], pdu)

	var c crc.CRC
	c.Reset().PushBytes(frame[:length-2])
	checksum := c.Value()

	frame[length-2] = byte(checksum)
	frame[length-1] = byte(checksum >> 8)
	return frame, nil
}

// ValidCRC reports whether the trailing checksum validates over all
// preceding frame bytes. Frames shorter than MinSize never validate.
func ValidCRC(frame []byte) bool {
	length := len(frame)
	if length < MinSize {
		return false
	}
	var c crc.CRC
	c.Reset().PushBytes(frame[:length-2])
	checksum := uint16(frame[length-1])<<8 | uint16(frame[length-2])
	return checksum == c.Value()
}

// PDU returns the protocol data unit of a frame, without the address
// and checksum. The caller must have validated the frame length.
func PDU(frame []byte) []byte {
	return frame[1 : len(frame)-2]
}
