// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package modbus holds the protocol-level types shared by the request
// builder, the RTU transport and the master client: function codes,
// quantity limits, the PDU buffer and the per-cycle outcome.
package modbus

import "fmt"

// Function codes issued by the master.
const (
	FuncCodeReadCoils              = 0x01
	FuncCodeReadDiscreteInputs     = 0x02
	FuncCodeReadHoldingRegisters   = 0x03
	FuncCodeReadInputRegisters     = 0x04
	FuncCodeWriteSingleCoil        = 0x05
	FuncCodeWriteSingleRegister    = 0x06
	FuncCodeWriteMultipleCoils     = 0x0F
	FuncCodeWriteMultipleRegisters = 0x10
)

// ExceptionBit is set in the response function code when the device
// rejects a request. The byte following it carries the exception code.
const ExceptionBit = 0x80

// Quantity limits per function code, from the protocol specification.
const (
	MaxReadBits       = 2000
	MaxReadRegisters  = 125
	MaxWriteBits      = 1968
	MaxWriteRegisters = 123
)

// Unicast device address range. Address 0 is reserved for broadcast
// and is not addressable by this master.
const (
	MinDeviceID = 1
	MaxDeviceID = 247
)

// Result classifies one request/response cycle.
type Result int

const (
	// ResultOK means a well-formed response of the expected shape arrived.
	ResultOK Result = iota
	// ResultTimeout means no bytes arrived before the receive timeout.
	ResultTimeout
	// ResultException means the device rejected the request; the
	// exception code is preserved in the response PDU.
	ResultException
	// ResultBadResponse means bytes arrived but failed checksum,
	// address, function or length validation.
	ResultBadResponse
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultTimeout:
		return "timeout"
	case ResultException:
		return "exception"
	case ResultBadResponse:
		return "bad response"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Request describes the expected shape of a successful response. It is
// set atomically with PDU construction and read by the transport when
// classifying received bytes.
type Request struct {
	// DeviceID is the address of the target device.
	DeviceID byte
	// Function is the request function code.
	Function byte
	// PDUSize is the expected response PDU length in bytes.
	PDUSize int
	// Address is the expected starting register/coil address, or -1
	// for responses that do not echo an addressed range.
	Address int
	// Count is the expected element count, or -1 when not applicable.
	Count int
}

// ExceptionMessage returns a human-readable description of a device
// exception code. Unknown codes get a generic description.
func ExceptionMessage(code byte) string {
	switch code {
	case 0x01:
		return "illegal function"
	case 0x02:
		return "illegal data address"
	case 0x03:
		return "illegal data value"
	case 0x04:
		return "device failure"
	case 0x05:
		return "acknowledge"
	case 0x06:
		return "device busy"
	case 0x08:
		return "memory parity error"
	case 0x0A:
		return "gateway path unavailable"
	case 0x0B:
		return "gateway target failed to respond"
	default:
		return "unknown exception"
	}
}

// BytesForBits returns the number of bytes needed to hold n packed bits.
func BytesForBits(n int) int {
	return (n + 7) / 8
}
