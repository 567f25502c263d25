// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package ihexbin converts Intel-HEX firmware images into the packed binary
// block format consumed by the bootloader of 24-bit-instruction microcontrollers.
//
// The source image stores every instruction in a 4-byte slot whose last byte is
// unused. Each non-empty Data record becomes one block: a 14-byte little-endian
// header, the record payload repacked to 3 bytes per instruction, and a
// trailing checksum byte. Extended-Linear-Address records select the page that
// subsequent blocks are addressed to.
//
// Only Data, End-of-File and Extended-Linear-Address records are accepted.
// Any malformed record aborts the conversion.
package ihexbin

// Intel-HEX framing
const (
	StartMarker = ':'
)

// Record types
const (
	RecData            = 0x00
	RecEOF             = 0x01
	RecExtSegmentAddr  = 0x02 // rejected
	RecStartSegment    = 0x03 // rejected
	RecExtLinearAddr   = 0x04
	RecStartLinearAddr = 0x05 // rejected
)

// Page range
const (
	MaxPage   = 0xFF
	PageCount = MaxPage + 1
)

// Block layout
const (
	HeaderSize     = 14 // seq(2) tag(4) instr(1) page(1) waddr(2) rsrvd(2) len(2)
	SlotSize       = 4  // bytes per instruction in the HEX image
	InstrSize      = 3  // bytes per instruction in a block
	ChecksumSize   = 1
	MaxRecordBytes = 0xFF
)

// DefaultVersionTagText is the tag stamped into every block unless overridden.
const DefaultVersionTagText = "1234"

// DefaultVersionTag is DefaultVersionTagText packed into two little-endian words.
var DefaultVersionTag = VersionTag{0x3231, 0x3433}
