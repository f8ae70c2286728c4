// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package rtu

import (
	"bytes"
	"testing"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name     string
		deviceID byte
		pdu      []byte
		want     []byte
		wantErr  bool
	}{
		{
			// Known frame: 01 03 00 00 00 01 -> CRC bytes 84 0A.
			name:     "ReadHoldingRegisters",
			deviceID: 1,
			pdu:      []byte{0x03, 0x00, 0x00, 0x00, 0x01},
			want:     []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x84, 0x0A},
		},
		{
			name:     "EmptyPDU",
			deviceID: 1,
			pdu:      nil,
			wantErr:  true,
		},
		{
			name:     "PDUTooLong",
			deviceID: 1,
			pdu:      make([]byte, MaxSize-2),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assemble(tt.deviceID, tt.pdu)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Assemble() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Assemble() = % X, want % X", got, tt.want)
			}
			if !ValidCRC(got) {
				t.Errorf("Assemble() produced frame with invalid CRC")
			}
		})
	}
}

func TestValidCRC(t *testing.T) {
	frame := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x84, 0x0A}
	if !ValidCRC(frame) {
		t.Errorf("ValidCRC(% X) = false, want true", frame)
	}

	corrupted := append([]byte(nil), frame...)
	corrupted[3] = 0xFF
	if ValidCRC(corrupted) {
		t.Errorf("ValidCRC(% X) = true, want false", corrupted)
	}

	if ValidCRC(frame[:3]) {
		t.Errorf("ValidCRC accepted a frame below the minimum size")
	}
}

func TestPDU(t *testing.T) {
	frame := []byte{0x01, 0x03, 0x02, 0x12, 0x34, 0xB5, 0x33}
	want := []byte{0x03, 0x02, 0x12, 0x34}
	if got := PDU(frame); !bytes.Equal(got, want) {
		t.Errorf("PDU() = % X, want % X", got, want)
	}
}
