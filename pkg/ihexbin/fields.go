// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

// fieldReader composes hex digits into bytes and words and keeps the record's
// running checksum.
type fieldReader struct {
	src *charSource
	sum uint8
}

func (f *fieldReader) reset() {
	f.sum = 0
}

// readByte reads two hex digits, high nibble first, and adds the byte to the sum
func (f *fieldReader) readByte() (byte, error) {
	hi, err := f.src.nextHexDigit()
	if err != nil {
		return 0, err
	}
	lo, err := f.src.nextHexDigit()
	if err != nil {
		return 0, err
	}
	b := hi<<4 | lo
	f.sum = AddByte(f.sum, b)
	return b, nil
}

// readWord reads a big-endian word. The checksum is kept per byte.
func (f *fieldReader) readWord() (uint16, error) {
	hi, err := f.readByte()
	if err != nil {
		return 0, err
	}
	lo, err := f.readByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
