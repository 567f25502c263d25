// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"fmt"
	"io"
)

// Options configures a Converter
type Options struct {
	// VersionTag is stamped into every block. Zero value means DefaultVersionTag.
	VersionTag VersionTag

	// Trace, when set, receives one line per emitted block and the page table
	// at the end of a successful run.
	Trace io.Writer
}

// Converter turns an Intel-HEX stream into a block stream
type Converter struct {
	opts  Options
	state ConversionState
}

// NewConverter creates a converter with the given options
func NewConverter(opts Options) *Converter {
	if opts.VersionTag == (VersionTag{}) {
		opts.VersionTag = DefaultVersionTag
	}
	return &Converter{opts: opts}
}

// State returns the running state. After Convert it holds the final counters,
// also when the run failed.
func (c *Converter) State() *ConversionState {
	return &c.state
}

// Convert reads every record from r and writes one block per non-empty Data
// record to w. It stops at the first fault. ErrEmptyInput is returned when r
// holds no record at all.
func (c *Converter) Convert(r io.Reader, w io.Writer) (*Report, error) {
	c.state = ConversionState{}

	src := newCharSource(r)
	fields := &fieldReader{src: src}
	parser := &recordParser{
		src:    src,
		fields: fields,
		enc:    newBlockEncoder(c.opts.VersionTag),
		state:  &c.state,
		sink:   w,
		trace:  c.opts.Trace,
	}

	for {
		found, err := src.scanMarker()
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}

		src.beginRecord()
		c.state.Records++

		if err := parser.parse(); err != nil {
			return nil, err
		}
	}

	if c.state.Records == 0 {
		return nil, ErrEmptyInput
	}

	report := NewReport(&c.state)
	report.VersionTag = c.opts.VersionTag.String()
	if c.opts.Trace != nil {
		if _, err := io.WriteString(c.opts.Trace, report.PageTable()); err != nil {
			return nil, fmt.Errorf("write trace: %w", err)
		}
	}
	return report, nil
}

// Convert runs a conversion with default options
func Convert(r io.Reader, w io.Writer) (*Report, error) {
	return NewConverter(Options{}).Convert(r, w)
}
