// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/ihexbin/pkg/ihexbin"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <bin-file>",
	Short: "Decode and display a block file in human-readable format",
	Long: `Decode every block of a converted file, verify its checksum and print the
header fields and packed instructions.

Exit codes:
  0 - All blocks are valid
  1 - A block is malformed or fails its checksum
  2 - File error`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	name := withDefaultExt(args[0], binExt)
	f, err := os.Open(name)
	if err != nil {
		return &ExitError{Code: ExitIO, Err: fmt.Errorf("couldn't open block file: %w", err)}
	}
	defer f.Close()

	n, err := dumpBlocks(cmd.OutOrStdout(), f)
	if err != nil {
		return &ExitError{Code: ExitFault, Err: fmt.Errorf("after %d blocks: %w", n, err)}
	}
	return nil
}

// dumpBlocks prints every block of r and returns how many were valid
func dumpBlocks(w io.Writer, r io.Reader) (int, error) {
	br := ihexbin.NewBlockReader(r)
	pages := ihexbin.PageTracker{}
	count := 0
	var dataBytes int

	for {
		b, err := br.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}
		fmt.Fprint(w, ihexbin.FormatBlock(b))
		pages.RecordUse(b.Header.Page)
		dataBytes += len(b.Payload)
		count++
	}

	fmt.Fprintf(w, "\nBlocks: %d, Data: %d bytes, Stream: %d bytes\n", count, dataBytes, br.Offset())
	for _, p := range pages.UsedPages() {
		fmt.Fprintf(w, "Page %d - %d blocks\n", p.Page, p.Blocks)
	}
	return count, nil
}
