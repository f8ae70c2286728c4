// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package master

import (
	"fmt"

	"github.com/ffutop/modbus-master/modbus"
)

// ExceptionCode returns the device exception code of the last cycle,
// or 0 when the response was not an exception.
func (c *Client) ExceptionCode() byte {
	if c.pdu.FunctionCode()&modbus.ExceptionBit == 0 || c.pdu.Size() < 2 {
		return 0
	}
	code, _ := c.pdu.ReadByte(1, false)
	return byte(code)
}

// ResponseAddress returns the starting address echoed by the request
// descriptor. It fails until a successful response is ready.
func (c *Client) ResponseAddress() (int, error) {
	if c.result != modbus.ResultOK || c.req.Address < 0 {
		return 0, ErrNoResponse
	}
	return c.req.Address, nil
}

// ResponseCount returns the element count of the addressed range. It
// fails until a successful response is ready.
func (c *Client) ResponseCount() (int, error) {
	if c.result != modbus.ResultOK || c.req.Count < 0 {
		return 0, ErrNoResponse
	}
	return c.req.Count, nil
}

// offset validates the accessor's applicability and maps an absolute
// coil/register address into the response's addressed range.
func (c *Client) offset(address int, functions ...byte) (int, error) {
	if c.result != modbus.ResultOK {
		return 0, ErrNoResponse
	}
	fn := c.pdu.FunctionCode()
	applicable := false
	for _, f := range functions {
		if fn == f {
			applicable = true
			break
		}
	}
	if !applicable {
		return 0, fmt.Errorf("modbus: accessor not applicable to function %#02x: %w", fn, ErrNoResponse)
	}
	offset := address - c.req.Address
	if offset < 0 || offset >= c.req.Count {
		return 0, fmt.Errorf("modbus: address %d outside response range [%d, %d)", address, c.req.Address, c.req.Address+c.req.Count)
	}
	return offset, nil
}

// ResponseBit returns one discrete value from a Read Coils or Read
// Discrete Inputs response. The address must lie within the range
// requested.
func (c *Client) ResponseBit(address int) (bool, error) {
	offset, err := c.offset(address, modbus.FuncCodeReadCoils, modbus.FuncCodeReadDiscreteInputs)
	if err != nil {
		return false, err
	}
	b, err := c.pdu.ReadByte(2+offset/8, false)
	if err != nil {
		return false, err
	}
	return b&(1<<(offset%8)) != 0, nil
}

// ResponseInt16 returns one register from a Read Holding/Input
// Registers response, interpreted as signed or unsigned.
func (c *Client) ResponseInt16(address int, signed bool) (int, error) {
	offset, err := c.offset(address, modbus.FuncCodeReadHoldingRegisters, modbus.FuncCodeReadInputRegisters)
	if err != nil {
		return 0, err
	}
	return c.pdu.ReadInt16(2+offset*2, signed)
}

// ResponseInt32 combines the register at address and its successor
// into a 32-bit value. bigEndian selects the word order.
func (c *Client) ResponseInt32(address int, bigEndian bool) (int32, error) {
	offset, err := c.offset(address, modbus.FuncCodeReadHoldingRegisters, modbus.FuncCodeReadInputRegisters)
	if err != nil {
		return 0, err
	}
	return c.pdu.ReadInt32(2+offset*2, bigEndian)
}

// ResponseFloat32 combines the register at address and its successor
// into an IEEE-754 float. bigEndian selects the word order.
func (c *Client) ResponseFloat32(address int, bigEndian bool) (float32, error) {
	offset, err := c.offset(address, modbus.FuncCodeReadHoldingRegisters, modbus.FuncCodeReadInputRegisters)
	if err != nil {
		return 0, err
	}
	return c.pdu.ReadFloat32(2+offset*2, bigEndian)
}
