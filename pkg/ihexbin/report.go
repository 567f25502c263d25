// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Report summarizes a finished conversion
type Report struct {
	Records     int         `cbor:"0,keyasint"`
	DataRecords int         `cbor:"1,keyasint"`
	Blocks      uint16      `cbor:"2,keyasint"`
	DataBytes   uint32      `cbor:"3,keyasint"`
	Pages       []PageUsage `cbor:"4,keyasint,omitempty"`
	VersionTag  string      `cbor:"5,keyasint,omitempty"`
}

// NewReport snapshots the counters of a conversion state
func NewReport(s *ConversionState) *Report {
	return &Report{
		Records:     s.Records,
		DataRecords: s.DataRecords,
		Blocks:      s.Blocks,
		DataBytes:   s.DataBytes,
		Pages:       s.Pages.UsedPages(),
	}
}

// String returns the plain-text summary of a successful run
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Successful end. Total of %06d Records, %06d Data-records\n", r.Records, r.DataRecords)
	fmt.Fprintf(&sb, "Total Data: %X (%d) bytes\n", r.DataBytes, r.DataBytes)
	sb.WriteString(r.PageTable())
	return sb.String()
}

// PageTable lists the block count of every used page
func (r *Report) PageTable() string {
	var sb strings.Builder
	for _, p := range r.Pages {
		fmt.Fprintf(&sb, "Page %d - %d records\n", p.Page, p.Blocks)
	}
	return sb.String()
}

// EncodeCBOR encodes the report as a CBOR map with integer keys
func (r *Report) EncodeCBOR() ([]byte, error) {
	data, err := cbor.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// DecodeReport decodes a report written by EncodeCBOR
func DecodeReport(data []byte) (*Report, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty CBOR report")
	}
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}
