// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Thermoquad/ihexbin/pkg/ihexbin"
)

const testImage = ":020000040015E5\n:0400000001020304F2\n:00000001FF\n"

// writeHexFile writes content into a fresh temp dir
func writeHexFile(t *testing.T, content string) (dir, name string) {
	t.Helper()
	dir = t.TempDir()
	name = filepath.Join(dir, "firmware.hex")
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return dir, name
}

// dirEntries lists the file names in dir
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestConvertFile_Success(t *testing.T) {
	dir, in := writeHexFile(t, testImage)
	out := filepath.Join(dir, "firmware.bin")

	var trace bytes.Buffer
	report, err := convertFile(in, out, ihexbin.Options{Trace: &trace})
	if err != nil {
		t.Fatalf("convertFile error: %v", err)
	}
	if report.Records != 3 || report.DataRecords != 1 {
		t.Errorf("report = %+v", report)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	blocks, err := ihexbin.ReadAllBlocks(bytes.NewReader(data))
	if err != nil || len(blocks) != 1 {
		t.Fatalf("decode = %d blocks, %v", len(blocks), err)
	}
	if blocks[0].Header.Page != 0x15 {
		t.Errorf("page = 0x%02X; want 0x15", blocks[0].Header.Page)
	}

	if names := dirEntries(t, dir); len(names) != 2 {
		t.Errorf("scratch file left behind: %v", names)
	}
	if !strings.Contains(trace.String(), "Page 21 - 1 records") {
		t.Errorf("trace missing page table: %q", trace.String())
	}
}

func TestConvertFile_FaultLeavesNoOutput(t *testing.T) {
	dir, in := writeHexFile(t, ":0400000001020304F2\n:0400000001020304F3\n")
	out := filepath.Join(dir, "firmware.bin")

	_, err := convertFile(in, out, ihexbin.Options{})
	if !errors.Is(err, ihexbin.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("output file should not exist, stat = %v", statErr)
	}
	if names := dirEntries(t, dir); len(names) != 1 {
		t.Errorf("only the input should remain: %v", names)
	}
}

func TestConvertFile_KeepsPreviousOutputOnFault(t *testing.T) {
	dir, in := writeHexFile(t, ":00000003FD\n")
	out := filepath.Join(dir, "firmware.bin")
	if err := os.WriteFile(out, []byte("previous"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if _, err := convertFile(in, out, ihexbin.Options{}); !errors.Is(err, ihexbin.ErrUnsupportedRecordType) {
		t.Fatalf("expected ErrUnsupportedRecordType, got %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "previous" {
		t.Errorf("existing output was modified: %q", data)
	}
}

func TestConvertFile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := convertFile(filepath.Join(dir, "nope.hex"), filepath.Join(dir, "nope.bin"), ihexbin.Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestReportConvertError_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"empty", ihexbin.ErrEmptyInput, ExitEmpty},
		{"fault", &ihexbin.RecordError{Err: ihexbin.ErrChecksumMismatch, Record: 4, Source: ":00000001FE"}, ExitFault},
		{"io", os.ErrPermission, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := reportConvertError(&buf, tt.err)
			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected *ExitError, got %T", err)
			}
			if exitErr.Code != tt.code {
				t.Errorf("code = %d; want %d", exitErr.Code, tt.code)
			}
			if !errors.Is(err, tt.err) {
				t.Error("exit error should wrap the cause")
			}
		})
	}
}

func TestRenderFault_ShowsRecord(t *testing.T) {
	out := renderFault(&ihexbin.RecordError{
		Err:     ihexbin.ErrChecksumMismatch,
		Record:  12,
		Source:  ":0400000001020304F3",
		Message: "declared 0xF3, expected 0xF2",
	})
	for _, want := range []string{"000012", "record checksum mismatch", ":0400000001020304F3", "expected 0xF2"} {
		if !strings.Contains(out, want) {
			t.Errorf("fault output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	r := &ihexbin.Report{
		Records:     5,
		DataRecords: 3,
		Blocks:      3,
		DataBytes:   0x1E,
		Pages:       []ihexbin.PageUsage{{Page: 0, Blocks: 1}, {Page: 21, Blocks: 2}},
		VersionTag:  "1234",
	}
	out := renderSummary("fw.hex", "fw.bin", r)
	for _, want := range []string{"000005", "000003", "1E (30) bytes", "Page  21:", "2 blocks", "fw.bin"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
