// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"errors"
	"fmt"
)

// Conversion faults. Every fault is fatal to the run and is returned wrapped in
// a *RecordError that identifies the offending record.
var (
	ErrUnexpectedEndOfInput  = errors.New("unexpected end of input")
	ErrIllegalHexCharacter   = errors.New("illegal hex character")
	ErrIllegalRecordShape    = errors.New("illegal record shape")
	ErrPageOutOfRange        = errors.New("page out of range")
	ErrUnsupportedRecordType = errors.New("unsupported record type")
	ErrChecksumMismatch      = errors.New("record checksum mismatch")
)

// ErrEmptyInput is returned when the input ends before any record was found.
// It is not a fault, but the run produced nothing.
var ErrEmptyInput = errors.New("input ended before any record")

// Block stream faults reported by BlockReader
var (
	ErrBlockShape    = errors.New("malformed block header")
	ErrBlockChecksum = errors.New("block checksum mismatch")
)

// RecordError describes a fault in one HEX record
type RecordError struct {
	Err     error  // one of the Err* faults above
	Record  int    // 1-based record sequence number
	Source  string // echoed record text up to the fault
	Message string
}

// Error implements the error interface
func (e *RecordError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("record %06d: %v", e.Record, e.Err)
	}
	return fmt.Sprintf("record %06d: %v: %s", e.Record, e.Err, e.Message)
}

// Unwrap returns the underlying fault
func (e *RecordError) Unwrap() error {
	return e.Err
}
