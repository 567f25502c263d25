// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

// AddByte adds b into an 8-bit running sum
func AddByte(sum uint8, b byte) uint8 {
	return sum + b
}

// FoldWord folds a 16-bit value into 8 bits as high byte plus low byte
func FoldWord(w uint16) uint8 {
	return uint8(w>>8) + uint8(w)
}

// AddWord adds the folded value of w into an 8-bit running sum
func AddWord(sum uint8, w uint16) uint8 {
	return sum + FoldWord(w)
}

// RecordChecksum returns the Intel-HEX checksum byte for the given decoded
// record fields (length, address high, address low, type, data...).
// Adding it to the sum of the fields yields zero modulo 256.
func RecordChecksum(fields []byte) byte {
	var sum uint8
	for _, b := range fields {
		sum = AddByte(sum, b)
	}
	return -sum
}
