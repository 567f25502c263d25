// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import "fmt"

// PageTracker holds the page selected by the last Extended-Linear-Address
// record and how many blocks were emitted into each page.
type PageTracker struct {
	current uint8
	used    [PageCount]uint32
}

// Current returns the page applied to new blocks
func (p *PageTracker) Current() uint8 {
	return p.current
}

// SetPage selects the page for subsequent blocks
func (p *PageTracker) SetPage(v uint16) error {
	if v > MaxPage {
		return fmt.Errorf("%w: 0x%04X (max 0x%02X)", ErrPageOutOfRange, v, MaxPage)
	}
	p.current = uint8(v)
	return nil
}

// RecordUse counts one block emitted into page
func (p *PageTracker) RecordUse(page uint8) {
	p.used[page]++
}

// Used returns the number of blocks emitted into page
func (p *PageTracker) Used(page uint8) uint32 {
	return p.used[page]
}

// PageUsage is the block count of one page
type PageUsage struct {
	Page   uint8  `cbor:"0,keyasint"`
	Blocks uint32 `cbor:"1,keyasint"`
}

// UsedPages lists the pages that received at least one block, in page order
func (p *PageTracker) UsedPages() []PageUsage {
	var pages []PageUsage
	for i, n := range p.used {
		if n > 0 {
			pages = append(pages, PageUsage{Page: uint8(i), Blocks: n})
		}
	}
	return pages
}

// ConversionState is the running state of one conversion
type ConversionState struct {
	Pages       PageTracker
	Blocks      uint16 // sequence number of the last emitted block
	Records     int    // records parsed, including the failing one
	DataRecords int    // non-empty Data records emitted as blocks
	DataBytes   uint32 // payload bytes emitted
}
