// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"fmt"
	"strings"
)

// FormatRecordType returns the human-readable name for a record type
func FormatRecordType(recType uint8) string {
	switch recType {
	case RecData:
		return "DATA"
	case RecEOF:
		return "END_OF_FILE"
	case RecExtSegmentAddr:
		return "EXTENDED_SEGMENT_ADDRESS"
	case RecStartSegment:
		return "START_SEGMENT_ADDRESS"
	case RecExtLinearAddr:
		return "EXTENDED_LINEAR_ADDRESS"
	case RecStartLinearAddr:
		return "START_LINEAR_ADDRESS"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", recType)
	}
}

// FormatTraceLine formats one emitted block for the debug trace:
// seq, instructions, page, word address, data length, payload, checksum
func FormatTraceLine(h *BlockHeader, payload []byte, checksum uint8) string {
	return fmt.Sprintf("%6d %2d %02X %04X %2d  %s %02X\n",
		h.Seq, h.InstrNum, h.Page, h.WordAddr, h.DataLen, formatInstructions(payload), checksum)
}

// FormatBlock formats a decoded block into a human-readable string
func FormatBlock(b *Block) string {
	h := &b.Header
	result := fmt.Sprintf("Block %d: tag=%q page=0x%02X waddr=0x%04X (addr 0x%06X) instr=%d len=%d csum=0x%02X\n",
		h.Seq, h.Version.String(), h.Page, h.WordAddr, h.ByteAddress(), h.InstrNum, h.DataLen, b.Checksum)
	if len(b.Payload) > 0 {
		result += "  " + formatInstructions(b.Payload) + "\n"
	}
	return result
}

// formatInstructions renders packed payload bytes one instruction per group
func formatInstructions(payload []byte) string {
	var sb strings.Builder
	for i, b := range payload {
		if i > 0 && i%InstrSize == 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
