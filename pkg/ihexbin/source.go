// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// charSource pulls single ASCII characters from the input and keeps the text of
// the current record for diagnostics.
type charSource struct {
	r      io.ByteReader
	record int    // number of the record being read
	echo   []byte // raw text of the current record, reused per record
}

func newCharSource(r io.Reader) *charSource {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &charSource{
		r:    br,
		echo: make([]byte, 0, 1+2*(4+MaxRecordBytes+1)),
	}
}

// scanMarker skips characters up to and including the next start marker.
// Returns false at end of input.
func (s *charSource) scanMarker() (bool, error) {
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read input: %w", err)
		}
		if c == StartMarker {
			return true, nil
		}
	}
}

// beginRecord starts a new echo buffer holding the start marker
func (s *charSource) beginRecord() {
	s.record++
	s.echo = append(s.echo[:0], StartMarker)
}

// nextHexDigit reads one hex digit and returns its value
func (s *charSource) nextHexDigit() (byte, error) {
	c, err := s.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, s.fault(ErrUnexpectedEndOfInput, "")
		}
		return 0, fmt.Errorf("read input: %w", err)
	}
	s.echo = append(s.echo, c)

	v, ok := hexNibble(c)
	if !ok {
		return 0, s.fault(ErrIllegalHexCharacter, fmt.Sprintf("%q", c))
	}
	return v, nil
}

// fault wraps err with the current record number and echoed text
func (s *charSource) fault(err error, msg string) *RecordError {
	return &RecordError{
		Err:     err,
		Record:  s.record,
		Source:  string(s.echo),
		Message: msg,
	}
}

// hexNibble decodes a case-insensitive hex digit
func hexNibble(c byte) (byte, bool) {
	switch lc := c | 0x20; {
	case c >= '0' && c <= '9':
		return c - '0', true
	case lc >= 'a' && lc <= 'f':
		return lc - 'a' + 10, true
	default:
		return 0, false
	}
}
