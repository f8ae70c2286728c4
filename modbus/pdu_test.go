// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package modbus

import "testing"

func TestPDUByteAccess(t *testing.T) {
	var p PDU
	if err := p.SetSize(3); err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	if err := p.WriteByte(0, FuncCodeReadCoils); err != nil {
		t.Fatalf("WriteByte failed: %v", err)
	}
	if err := p.WriteByte(2, 0xFE); err != nil {
		t.Fatalf("WriteByte failed: %v", err)
	}

	if got := p.FunctionCode(); got != FuncCodeReadCoils {
		t.Errorf("FunctionCode() = %#02x, want %#02x", got, FuncCodeReadCoils)
	}
	if v, err := p.ReadByte(2, false); err != nil || v != 0xFE {
		t.Errorf("ReadByte(unsigned) = %d, %v; want 254, nil", v, err)
	}
	if v, err := p.ReadByte(2, true); err != nil || v != -2 {
		t.Errorf("ReadByte(signed) = %d, %v; want -2, nil", v, err)
	}

	if err := p.WriteByte(3, 0); err == nil {
		t.Error("WriteByte beyond size succeeded, want error")
	}
	if _, err := p.ReadByte(-1, false); err == nil {
		t.Error("ReadByte at negative offset succeeded, want error")
	}
}

func TestPDUInt16(t *testing.T) {
	var p PDU
	p.SetSize(5)

	if err := p.WriteUint16(1, 0x8001); err != nil {
		t.Fatalf("WriteUint16 failed: %v", err)
	}
	// Registers travel high byte first.
	if v, _ := p.ReadByte(1, false); v != 0x80 {
		t.Errorf("high byte = %#02x, want 0x80", v)
	}
	if v, _ := p.ReadByte(2, false); v != 0x01 {
		t.Errorf("low byte = %#02x, want 0x01", v)
	}

	if v, err := p.ReadInt16(1, false); err != nil || v != 0x8001 {
		t.Errorf("ReadInt16(unsigned) = %d, %v; want %d, nil", v, err, 0x8001)
	}
	if v, err := p.ReadInt16(1, true); err != nil || v != -32767 {
		t.Errorf("ReadInt16(signed) = %d, %v; want -32767, nil", v, err)
	}

	// Negative values round-trip through their low 16 bits.
	if err := p.WriteUint16(3, -2); err != nil {
		t.Fatalf("WriteUint16 failed: %v", err)
	}
	if v, _ := p.ReadInt16(3, true); v != -2 {
		t.Errorf("round-trip of -2 = %d", v)
	}

	if _, err := p.ReadInt16(4, false); err == nil {
		t.Error("ReadInt16 straddling the size succeeded, want error")
	}
}

func TestPDUWordPairs(t *testing.T) {
	var p PDU
	p.SetSize(6)
	// Two registers: 0x4048 0xF5C3 is 3.14 as a big-endian-word float,
	// and 0x40 48 F5 C3 as an int32 is 1078523331.
	for i, b := range []byte{0x00, 0x00, 0x40, 0x48, 0xF5, 0xC3} {
		p.WriteByte(i, b)
	}

	if v, err := p.ReadInt32(2, true); err != nil || v != 1078523331 {
		t.Errorf("ReadInt32(bigEndian) = %d, %v; want 1078523331, nil", v, err)
	}
	if v, err := p.ReadInt32(2, false); err != nil || v != -171753400 {
		t.Errorf("ReadInt32(littleEndian) = %d, %v", v, err)
	}

	f, err := p.ReadFloat32(2, true)
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if f < 3.139 || f > 3.141 {
		t.Errorf("ReadFloat32(bigEndian) = %v, want ~3.14", f)
	}

	if _, err := p.ReadInt32(4, true); err == nil {
		t.Error("ReadInt32 straddling the size succeeded, want error")
	}
}

func TestPDUSetSize(t *testing.T) {
	var p PDU
	if err := p.SetSize(MaxPDUSize + 1); err == nil {
		t.Error("SetSize beyond capacity succeeded, want error")
	}
	if err := p.SetSize(-1); err == nil {
		t.Error("SetSize(-1) succeeded, want error")
	}
	if err := p.SetSize(0); err != nil {
		t.Errorf("SetSize(0) failed: %v", err)
	}
	if p.FunctionCode() != 0 {
		t.Error("FunctionCode of empty PDU should be 0")
	}
}

func TestBytesForBits(t *testing.T) {
	tests := []struct{ bits, want int }{
		{1, 1}, {8, 1}, {9, 2}, {16, 2}, {2000, 250},
	}
	for _, tt := range tests {
		if got := BytesForBits(tt.bits); got != tt.want {
			t.Errorf("BytesForBits(%d) = %d, want %d", tt.bits, got, tt.want)
		}
	}
}
