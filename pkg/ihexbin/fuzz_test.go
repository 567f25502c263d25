// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// randomDataRecord returns the address and payload of a valid random Data record
func randomDataRecord(rng *rand.Rand) (uint16, []byte) {
	slots := 1 + rng.Intn(MaxRecordBytes/SlotSize)
	data := make([]byte, slots*SlotSize)
	rng.Read(data)
	addr := uint16(rng.Intn(0x10000)) &^ 1
	return addr, data
}

// repack drops the last byte of every slot
func repack(data []byte) []byte {
	var out []byte
	for i := 0; i < len(data); i += SlotSize {
		out = append(out, data[i:i+InstrSize]...)
	}
	return out
}

// ============================================================
// Encoder Fuzz Tests
// ============================================================

func TestFuzz_DataRecordEncoding(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		page := uint16(rng.Intn(PageCount))
		addr, data := randomDataRecord(rng)
		input := buildExtAddr(page) + buildRecord(RecData, addr, data) + eofRecord

		_, report, out, err := convertString(t, input)
		if err != nil {
			t.Fatalf("round %d: Convert error: %v\ninput: %s", i, err, input)
		}

		blocks, err := ReadAllBlocks(bytes.NewReader(out))
		if err != nil || len(blocks) != 1 {
			t.Fatalf("round %d: decode = %d blocks, %v", i, len(blocks), err)
		}
		h := blocks[0].Header

		if int(h.InstrNum) != len(data)/SlotSize {
			t.Errorf("round %d: instr = %d; want %d", i, h.InstrNum, len(data)/SlotSize)
		}
		if int(h.DataLen) != len(data)*3/4 {
			t.Errorf("round %d: data length = %d; want %d", i, h.DataLen, len(data)*3/4)
		}
		if uint16(h.Page) != page || h.WordAddr != addr>>1 {
			t.Errorf("round %d: page=0x%02X waddr=0x%04X; want 0x%02X 0x%04X", i, h.Page, h.WordAddr, page, addr>>1)
		}
		if !bytes.Equal(blocks[0].Payload, repack(data)) {
			t.Errorf("round %d: payload mismatch", i)
		}
		if report.DataBytes != uint32(h.DataLen) {
			t.Errorf("round %d: report data bytes = %d; want %d", i, report.DataBytes, h.DataLen)
		}
	}
}

// ============================================================
// Validation Fuzz Tests
// ============================================================

func TestFuzz_PayloadMutationFailsChecksum(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		addr, data := randomDataRecord(rng)
		good := buildRecord(RecData, addr, data)

		j := rng.Intn(len(data))
		mutated := append([]byte(nil), data...)
		mutated[j] ^= byte(1 + rng.Intn(0xFF))

		// Keep the original checksum digits
		bad := buildRecord(RecData, addr, mutated)
		bad = bad[:len(bad)-3] + good[len(good)-3:]

		_, _, out, err := convertString(t, bad)
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Fatalf("round %d: expected ErrChecksumMismatch, got %v\ninput: %s", i, err, bad)
		}
		if len(out) != 0 {
			t.Fatalf("round %d: corrupted record emitted %d bytes", i, len(out))
		}
	}
}

func TestFuzz_IllegalCharacterRejected(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()
	illegal := "gGxXzZ!# \t\r\n-:"

	for i := 0; i < rounds; i++ {
		addr, data := randomDataRecord(rng)
		line := strings.TrimSuffix(buildRecord(RecData, addr, data), "\n")

		pos := 1 + rng.Intn(len(line)-1)
		c := illegal[rng.Intn(len(illegal))]
		bad := line[:pos] + string(c) + line[pos+1:] + "\n"

		_, _, _, err := convertString(t, bad)
		// A corrupted length or address can fail the record shape check first
		if !errors.Is(err, ErrIllegalHexCharacter) && !errors.Is(err, ErrIllegalRecordShape) {
			t.Fatalf("round %d: expected a fault for %q at %d, got %v", i, c, pos, err)
		}
		var recErr *RecordError
		if errors.As(err, &recErr) && errors.Is(err, ErrIllegalHexCharacter) {
			if recErr.Source != line[:pos]+string(c) {
				t.Fatalf("round %d: echo = %q; want %q", i, recErr.Source, line[:pos]+string(c))
			}
		}
	}
}

func TestFuzz_PageRange(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		value := uint16(rng.Intn(0x10000))
		_, _, _, err := convertString(t, buildExtAddr(value))

		if value <= MaxPage && err != nil {
			t.Fatalf("round %d: page 0x%04X should be accepted: %v", i, value, err)
		}
		if value > MaxPage && !errors.Is(err, ErrPageOutOfRange) {
			t.Fatalf("round %d: page 0x%04X should be rejected, got %v", i, value, err)
		}
	}
}

func TestFuzz_MultiRecordIdempotence(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds() / 10
	if rounds == 0 {
		rounds = 1
	}

	for i := 0; i < rounds; i++ {
		var sb strings.Builder
		wantBlocks := 0
		for n := rng.Intn(20); n >= 0; n-- {
			if rng.Intn(4) == 0 {
				sb.WriteString(buildExtAddr(uint16(rng.Intn(PageCount))))
				continue
			}
			addr, data := randomDataRecord(rng)
			sb.WriteString(buildRecord(RecData, addr, data))
			wantBlocks++
		}
		sb.WriteString(eofRecord)
		input := sb.String()

		_, first, out1, err := convertString(t, input)
		if err != nil {
			t.Fatalf("round %d: Convert error: %v", i, err)
		}
		_, second, out2, err := convertString(t, input)
		if err != nil {
			t.Fatalf("round %d: Convert error: %v", i, err)
		}
		if !bytes.Equal(out1, out2) || fmt.Sprint(first) != fmt.Sprint(second) {
			t.Fatalf("round %d: runs differ", i)
		}
		if first.DataRecords != wantBlocks || int(first.Blocks) != wantBlocks {
			t.Errorf("round %d: blocks = %d/%d; want %d", i, first.DataRecords, first.Blocks, wantBlocks)
		}
	}
}
