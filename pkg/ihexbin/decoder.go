// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"errors"
	"fmt"
	"io"
)

// BlockReader decodes a block stream produced by Converter
type BlockReader struct {
	r      io.Reader
	header [HeaderSize]byte
	offset int64 // stream offset of the next block
}

// NewBlockReader creates a reader over a block stream
func NewBlockReader(r io.Reader) *BlockReader {
	return &BlockReader{r: r}
}

// Offset returns the stream offset of the next block
func (br *BlockReader) Offset() int64 {
	return br.offset
}

// Next decodes the next block. Returns io.EOF at a clean end of stream and
// io.ErrUnexpectedEOF when the stream ends inside a block.
func (br *BlockReader) Next() (*Block, error) {
	if _, err := io.ReadFull(br.r, br.header[:]); err != nil {
		return nil, err
	}

	h := parseHeader(br.header[:])
	if h.InstrNum == 0 || int(h.DataLen) != int(h.InstrNum)*InstrSize {
		return nil, fmt.Errorf("%w at offset %d: %d instructions, %d data bytes",
			ErrBlockShape, br.offset, h.InstrNum, h.DataLen)
	}

	rest := make([]byte, int(h.DataLen)+ChecksumSize)
	if _, err := io.ReadFull(br.r, rest); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	b := &Block{
		Header:   h,
		Payload:  rest[:h.DataLen],
		Checksum: rest[h.DataLen],
	}
	if want := b.ComputeChecksum(); want != b.Checksum {
		return nil, fmt.Errorf("%w: block %d at offset %d: expected 0x%02X, got 0x%02X",
			ErrBlockChecksum, h.Seq, br.offset, want, b.Checksum)
	}

	br.offset += int64(b.Size())
	return b, nil
}

// ReadAllBlocks decodes every block of a stream
func ReadAllBlocks(r io.Reader) ([]*Block, error) {
	br := NewBlockReader(r)
	var blocks []*Block
	for {
		b, err := br.Next()
		if errors.Is(err, io.EOF) {
			return blocks, nil
		}
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, b)
	}
}
