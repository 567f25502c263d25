// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/Thermoquad/ihexbin/pkg/ihexbin"
	"github.com/spf13/cobra"
)

var (
	versionTag string
	debugFile  string
	reportFile string
)

var convertCmd = &cobra.Command{
	Use:   "convert <hex-file> [bin-file]",
	Short: "Convert an Intel-HEX image into bootloader blocks",
	Long: `Read a complete Intel-HEX image, validate every record and write one
bootloader block per non-empty Data record.

The input name defaults to the .hex extension. The output name defaults to the
input base name with the .bin extension.

Blocks are staged in a scratch file next to the output and only moved into
place when the whole image converted cleanly.

Exit codes:
  0 - Conversion succeeded
  1 - A record failed validation
  2 - File or usage error
  3 - Input contained no record`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&versionTag, "version-tag", ihexbin.DefaultVersionTagText, "4-character version tag stamped into every block")
	convertCmd.Flags().StringVar(&debugFile, "debug-file", "", "Write a per-block trace to this file")
	convertCmd.Flags().StringVar(&reportFile, "report", "", "Write a CBOR run report to this file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inName, outName, err := deriveFileNames(args)
	if err != nil {
		return &ExitError{Code: ExitIO, Err: err}
	}

	tag, err := ihexbin.ParseVersionTag(versionTag)
	if err != nil {
		return &ExitError{Code: ExitIO, Err: err}
	}

	var trace io.Writer
	if debugFile != "" {
		f, err := os.Create(debugFile)
		if err != nil {
			return &ExitError{Code: ExitIO, Err: fmt.Errorf("couldn't create debug file: %w", err)}
		}
		defer f.Close()
		trace = f
	}

	report, err := convertFile(inName, outName, ihexbin.Options{VersionTag: tag, Trace: trace})
	if err != nil {
		return reportConvertError(cmd.ErrOrStderr(), err)
	}

	if reportFile != "" {
		data, err := report.EncodeCBOR()
		if err != nil {
			return &ExitError{Code: ExitIO, Err: err}
		}
		if err := os.WriteFile(reportFile, data, 0o644); err != nil {
			return &ExitError{Code: ExitIO, Err: fmt.Errorf("couldn't write report: %w", err)}
		}
		log.Printf("Report written to %s", reportFile)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(inName, outName, report))
	return nil
}

// convertFile converts inName into outName through a scratch file.
// outName is left untouched unless the conversion succeeds.
func convertFile(inName, outName string, opts ihexbin.Options) (*ihexbin.Report, error) {
	in, err := os.Open(inName)
	if err != nil {
		return nil, fmt.Errorf("couldn't open input file: %w", err)
	}
	defer in.Close()

	scratch, err := os.CreateTemp(filepath.Dir(outName), ".ihexbin-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("couldn't create scratch file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			scratch.Close()
			os.Remove(scratch.Name())
		}
	}()
	log.Printf("Converting %s -> %s (scratch %s)", inName, outName, scratch.Name())

	w := bufio.NewWriter(scratch)
	report, err := ihexbin.NewConverter(opts).Convert(bufio.NewReader(in), w)
	if err != nil {
		return nil, err
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("couldn't write scratch file: %w", err)
	}
	if err := scratch.Chmod(0o644); err != nil {
		return nil, fmt.Errorf("couldn't write scratch file: %w", err)
	}
	if err := scratch.Close(); err != nil {
		return nil, fmt.Errorf("couldn't write scratch file: %w", err)
	}
	if err := os.Rename(scratch.Name(), outName); err != nil {
		return nil, fmt.Errorf("couldn't create output file: %w", err)
	}
	committed = true

	log.Printf("Wrote %d blocks to %s", report.Blocks, outName)
	return report, nil
}

// reportConvertError prints a failed conversion and selects the exit code
func reportConvertError(w io.Writer, err error) error {
	var recErr *ihexbin.RecordError
	switch {
	case errors.Is(err, ihexbin.ErrEmptyInput):
		fmt.Fprint(w, renderEmpty())
		return &ExitError{Code: ExitEmpty, Err: err, Shown: true}

	case errors.As(err, &recErr):
		fmt.Fprint(w, renderFault(recErr))
		return &ExitError{Code: ExitFault, Err: err, Shown: true}

	default:
		return &ExitError{Code: ExitIO, Err: err}
	}
}
