// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"fmt"
	"io"
)

// recordParser reads one record after its start marker, validates it and
// commits the resulting block to the sink.
type recordParser struct {
	src    *charSource
	fields *fieldReader
	enc    *blockEncoder
	state  *ConversionState
	sink   io.Writer
	trace  io.Writer // optional
}

// parse handles the record whose marker was just consumed
func (p *recordParser) parse() error {
	p.fields.reset()

	length, err := p.fields.readByte()
	if err != nil {
		return err
	}
	addr, err := p.fields.readWord()
	if err != nil {
		return err
	}
	recType, err := p.fields.readByte()
	if err != nil {
		return err
	}

	if addr&1 != 0 || length&1 != 0 {
		return p.src.fault(ErrIllegalRecordShape,
			fmt.Sprintf("odd address 0x%04X or data length %d", addr, length))
	}

	staged := false

	switch recType {
	case RecData:
		if length%SlotSize != 0 {
			return p.src.fault(ErrIllegalRecordShape,
				fmt.Sprintf("data length %d is not a multiple of %d", length, SlotSize))
		}
		if length > 0 {
			page := p.state.Pages.Current()
			if err := p.enc.encode(p.fields, p.state.Blocks+1, page, addr, length); err != nil {
				return err
			}
			staged = true
		}

	case RecEOF:
		if length != 0 || addr != 0 {
			return p.src.fault(ErrIllegalRecordShape, "end-of-file record must have zero length and address")
		}

	case RecExtLinearAddr:
		if length != 2 || addr != 0 {
			return p.src.fault(ErrIllegalRecordShape, "extended linear address record must have length 2 and address 0")
		}
		high, err := p.fields.readWord()
		if err != nil {
			return err
		}
		if err := p.state.Pages.SetPage(high); err != nil {
			return p.src.fault(ErrPageOutOfRange, fmt.Sprintf("0x%04X (max 0x%02X)", high, MaxPage))
		}

	default:
		return p.src.fault(ErrUnsupportedRecordType, FormatRecordType(recType))
	}

	declared, err := p.fields.readByte()
	if err != nil {
		return err
	}
	if p.fields.sum != 0 {
		return p.src.fault(ErrChecksumMismatch,
			fmt.Sprintf("declared 0x%02X, expected 0x%02X", declared, declared-p.fields.sum))
	}

	if staged {
		return p.commit()
	}
	return nil
}

// commit writes the staged block and updates the counters
func (p *recordParser) commit() error {
	h := &p.enc.header

	if _, err := p.sink.Write(p.enc.staged()); err != nil {
		return fmt.Errorf("write block %d: %w", h.Seq, err)
	}

	p.state.Blocks = h.Seq
	p.state.DataRecords++
	p.state.DataBytes += uint32(h.DataLen)
	p.state.Pages.RecordUse(h.Page)

	if p.trace != nil {
		buf := p.enc.staged()
		line := FormatTraceLine(h, buf[HeaderSize:len(buf)-ChecksumSize], buf[len(buf)-1])
		if _, err := io.WriteString(p.trace, line); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}
	}
	return nil
}
