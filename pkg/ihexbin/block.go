// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"encoding/binary"
	"fmt"
)

// VersionTag is the opaque two-word tag stamped into every block header
type VersionTag [2]uint16

// ParseVersionTag packs a 4-character tag into two little-endian words
func ParseVersionTag(s string) (VersionTag, error) {
	if len(s) != 4 {
		return VersionTag{}, fmt.Errorf("version tag must be 4 bytes, got %d", len(s))
	}
	return VersionTag{
		binary.LittleEndian.Uint16([]byte(s[0:2])),
		binary.LittleEndian.Uint16([]byte(s[2:4])),
	}, nil
}

// String returns the tag as text
func (v VersionTag) String() string {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], v[0])
	binary.LittleEndian.PutUint16(b[2:4], v[1])
	return string(b[:])
}

// BlockHeader is the fixed 14-byte header of an output block
type BlockHeader struct {
	Seq      uint16
	Version  VersionTag
	InstrNum uint8
	Page     uint8
	WordAddr uint16
	Reserved uint16
	DataLen  uint16
}

// Checksum returns the header part of the block checksum
func (h *BlockHeader) Checksum() uint8 {
	sum := FoldWord(h.Seq)
	sum = AddWord(sum, h.Version[0])
	sum = AddWord(sum, h.Version[1])
	sum = AddByte(sum, h.InstrNum)
	sum = AddByte(sum, h.Page)
	sum = AddWord(sum, h.WordAddr)
	sum = AddWord(sum, h.DataLen)
	return sum
}

// ByteAddress returns the byte address of the block within its page
func (h *BlockHeader) ByteAddress() uint32 {
	return uint32(h.Page)<<16 | uint32(h.WordAddr)<<1
}

// AppendBinary appends the little-endian header to dst
func (h *BlockHeader) AppendBinary(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, h.Seq)
	dst = binary.LittleEndian.AppendUint16(dst, h.Version[0])
	dst = binary.LittleEndian.AppendUint16(dst, h.Version[1])
	dst = append(dst, h.InstrNum, h.Page)
	dst = binary.LittleEndian.AppendUint16(dst, h.WordAddr)
	dst = binary.LittleEndian.AppendUint16(dst, h.Reserved)
	dst = binary.LittleEndian.AppendUint16(dst, h.DataLen)
	return dst
}

// parseHeader decodes a header from exactly HeaderSize bytes
func parseHeader(b []byte) BlockHeader {
	return BlockHeader{
		Seq:      binary.LittleEndian.Uint16(b[0:2]),
		Version:  VersionTag{binary.LittleEndian.Uint16(b[2:4]), binary.LittleEndian.Uint16(b[4:6])},
		InstrNum: b[6],
		Page:     b[7],
		WordAddr: binary.LittleEndian.Uint16(b[8:10]),
		Reserved: binary.LittleEndian.Uint16(b[10:12]),
		DataLen:  binary.LittleEndian.Uint16(b[12:14]),
	}
}

// Block is one decoded output block
type Block struct {
	Header   BlockHeader
	Payload  []byte // InstrNum*3 packed instruction bytes
	Checksum uint8
}

// ComputeChecksum returns the checksum the block should carry:
// the header checksum continued over the payload bytes
func (b *Block) ComputeChecksum() uint8 {
	sum := b.Header.Checksum()
	for _, v := range b.Payload {
		sum = AddByte(sum, v)
	}
	return sum
}

// Size returns the encoded size of the block in bytes
func (b *Block) Size() int {
	return HeaderSize + len(b.Payload) + ChecksumSize
}

// MarshalBinary encodes the block in output stream format
func (b *Block) MarshalBinary() ([]byte, error) {
	if int(b.Header.DataLen) != len(b.Payload) {
		return nil, fmt.Errorf("%w: data length %d, payload %d bytes", ErrBlockShape, b.Header.DataLen, len(b.Payload))
	}
	out := make([]byte, 0, b.Size())
	out = b.Header.AppendBinary(out)
	out = append(out, b.Payload...)
	out = append(out, b.Checksum)
	return out, nil
}
