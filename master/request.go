// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package master

import (
	"fmt"

	"github.com/ffutop/modbus-master/modbus"
)

// initRequest resets the PDU buffer and the request descriptor
// atomically. Any previous cycle's outcome is discarded, so stale
// responses can never be read through the accessors.
func (c *Client) initRequest(deviceID, pduSize int, function byte, expectedAddress, expectedCount, expectedPDUSize int) error {
	if deviceID < modbus.MinDeviceID || deviceID > modbus.MaxDeviceID {
		return fmt.Errorf("modbus: device id %d out of range [%d, %d]", deviceID, modbus.MinDeviceID, modbus.MaxDeviceID)
	}
	if err := c.pdu.SetSize(pduSize); err != nil {
		return err
	}
	c.pdu.WriteByte(0, function)
	c.req = modbus.Request{
		DeviceID: byte(deviceID),
		Function: function,
		PDUSize:  expectedPDUSize,
		Address:  expectedAddress,
		Count:    expectedCount,
	}
	c.result = resultNone
	return nil
}

// initReadRequest covers the four read functions, whose request PDU is
// function, start address and element count.
func (c *Client) initReadRequest(deviceID int, function byte, startAddress, count, expectedPDUSize int) error {
	if err := c.initRequest(deviceID, 5, function, startAddress, count, expectedPDUSize); err != nil {
		return err
	}
	c.pdu.WriteUint16(1, startAddress)
	c.pdu.WriteUint16(3, count)
	return nil
}

// InitReadCoilsRequest prepares a Read Coils request.
func (c *Client) InitReadCoilsRequest(deviceID, startAddress, count int) error {
	if count < 1 || count > modbus.MaxReadBits {
		return fmt.Errorf("modbus: coil count %d out of range [1, %d]", count, modbus.MaxReadBits)
	}
	return c.initReadRequest(deviceID, modbus.FuncCodeReadCoils, startAddress, count,
		2+modbus.BytesForBits(count))
}

// InitReadDiscreteInputsRequest prepares a Read Discrete Inputs request.
func (c *Client) InitReadDiscreteInputsRequest(deviceID, startAddress, count int) error {
	if count < 1 || count > modbus.MaxReadBits {
		return fmt.Errorf("modbus: input count %d out of range [1, %d]", count, modbus.MaxReadBits)
	}
	return c.initReadRequest(deviceID, modbus.FuncCodeReadDiscreteInputs, startAddress, count,
		2+modbus.BytesForBits(count))
}

// InitReadHoldingRegistersRequest prepares a Read Holding Registers request.
func (c *Client) InitReadHoldingRegistersRequest(deviceID, startAddress, count int) error {
	if count < 1 || count > modbus.MaxReadRegisters {
		return fmt.Errorf("modbus: register count %d out of range [1, %d]", count, modbus.MaxReadRegisters)
	}
	return c.initReadRequest(deviceID, modbus.FuncCodeReadHoldingRegisters, startAddress, count,
		2+count*2)
}

// InitReadInputRegistersRequest prepares a Read Input Registers request.
func (c *Client) InitReadInputRegistersRequest(deviceID, startAddress, count int) error {
	if count < 1 || count > modbus.MaxReadRegisters {
		return fmt.Errorf("modbus: register count %d out of range [1, %d]", count, modbus.MaxReadRegisters)
	}
	return c.initReadRequest(deviceID, modbus.FuncCodeReadInputRegisters, startAddress, count,
		2+count*2)
}

// InitWriteCoilRequest prepares a Write Single Coil request. The wire
// value is 0xFF00 for on and 0x0000 for off.
func (c *Client) InitWriteCoilRequest(deviceID, coilAddress int, value bool) error {
	wire := 0x0000
	if value {
		wire = 0xFF00
	}
	if err := c.initRequest(deviceID, 5, modbus.FuncCodeWriteSingleCoil, -1, -1, 5); err != nil {
		return err
	}
	c.pdu.WriteUint16(1, coilAddress)
	c.pdu.WriteUint16(3, wire)
	return nil
}

// InitWriteRegisterRequest prepares a Write Single Register request.
func (c *Client) InitWriteRegisterRequest(deviceID, regAddress, value int) error {
	if err := c.initRequest(deviceID, 5, modbus.FuncCodeWriteSingleRegister, -1, -1, 5); err != nil {
		return err
	}
	c.pdu.WriteUint16(1, regAddress)
	c.pdu.WriteUint16(3, value)
	return nil
}

// InitWriteCoilsRequest prepares a Write Multiple Coils request. Bit j
// of payload byte i carries element i*8+j; unused high bits of the
// final byte stay zero.
func (c *Client) InitWriteCoilsRequest(deviceID, startAddress int, values []bool) error {
	if len(values) < 1 || len(values) > modbus.MaxWriteBits {
		return fmt.Errorf("modbus: coil count %d out of range [1, %d]", len(values), modbus.MaxWriteBits)
	}
	byteCount := modbus.BytesForBits(len(values))
	if err := c.initRequest(deviceID, 6+byteCount, modbus.FuncCodeWriteMultipleCoils, -1, -1, 5); err != nil {
		return err
	}
	c.pdu.WriteUint16(1, startAddress)
	c.pdu.WriteUint16(3, len(values))
	c.pdu.WriteByte(5, byte(byteCount))
	for i := 0; i < byteCount; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			k := i*8 + j
			if k < len(values) && values[k] {
				b |= 1 << j
			}
		}
		c.pdu.WriteByte(6+i, b)
	}
	return nil
}

// InitWriteRegistersRequest prepares a Write Multiple Registers request.
func (c *Client) InitWriteRegistersRequest(deviceID, startAddress int, values []uint16) error {
	if len(values) < 1 || len(values) > modbus.MaxWriteRegisters {
		return fmt.Errorf("modbus: register count %d out of range [1, %d]", len(values), modbus.MaxWriteRegisters)
	}
	byteCount := len(values) * 2
	if err := c.initRequest(deviceID, 6+byteCount, modbus.FuncCodeWriteMultipleRegisters, -1, -1, 5); err != nil {
		return err
	}
	c.pdu.WriteUint16(1, startAddress)
	c.pdu.WriteUint16(3, len(values))
	c.pdu.WriteByte(5, byte(byteCount))
	for i, v := range values {
		c.pdu.WriteUint16(6+i*2, int(v))
	}
	return nil
}
