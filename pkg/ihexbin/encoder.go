// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

// blockEncoder builds one output block from a Data record.
// The block is staged in buf and written by the parser once the record
// checksum has been verified.
type blockEncoder struct {
	version VersionTag
	buf     []byte
	header  BlockHeader
}

func newBlockEncoder(version VersionTag) *blockEncoder {
	return &blockEncoder{
		version: version,
		buf:     make([]byte, 0, HeaderSize+MaxRecordBytes/SlotSize*InstrSize+ChecksumSize),
	}
}

// encode reads length payload bytes from f and stages the block.
// length must be a nonzero multiple of SlotSize.
func (e *blockEncoder) encode(f *fieldReader, seq uint16, page uint8, addr uint16, length uint8) error {
	instr := length / SlotSize
	e.header = BlockHeader{
		Seq:      seq,
		Version:  e.version,
		InstrNum: instr,
		Page:     page,
		WordAddr: addr >> 1,
		DataLen:  uint16(instr) * InstrSize,
	}

	sum := e.header.Checksum()
	e.buf = e.header.AppendBinary(e.buf[:0])

	for i := uint8(0); i < length; i++ {
		b, err := f.readByte()
		if err != nil {
			return err
		}
		// The last byte of every slot is padding
		if i%SlotSize == SlotSize-1 {
			continue
		}
		sum = AddByte(sum, b)
		e.buf = append(e.buf, b)
	}

	e.buf = append(e.buf, sum)
	return nil
}

// staged returns the encoded bytes of the last block
func (e *blockEncoder) staged() []byte {
	return e.buf
}
