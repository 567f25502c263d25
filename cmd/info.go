// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Thermoquad/ihexbin/pkg/ihexbin"
	"github.com/marcinbor85/gohex"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <hex-file>",
	Short: "Show the memory segments of an Intel-HEX image",
	Long: `Parse an Intel-HEX image and list its contiguous data segments with the
page and word address each would be programmed to.

This command accepts every Intel-HEX record type, so it can be used to find out
why convert rejects an image.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	name := withDefaultExt(args[0], hexExt)
	f, err := os.Open(name)
	if err != nil {
		return &ExitError{Code: ExitIO, Err: fmt.Errorf("couldn't open input file: %w", err)}
	}
	defer f.Close()

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(f); err != nil {
		return &ExitError{Code: ExitFault, Err: fmt.Errorf("parse %s: %w", name, err)}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Image: %s\n\n", name)
	fmt.Fprint(cmd.OutOrStdout(), describeSegments(mem.GetDataSegments()))

	if start, ok := mem.GetStartAddress(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "\nStart address: 0x%08X (%s records are rejected by convert)\n",
			start, ihexbin.FormatRecordType(ihexbin.RecStartLinearAddr))
	}
	return nil
}

// describeSegments renders a segment table with the block layout of each segment
func describeSegments(segments []gohex.DataSegment) string {
	var s strings.Builder
	s.WriteString("Seg  Address     Page  WordAddr  Bytes  Instr  Packed\n")

	var totalBytes, totalInstr int
	for i, seg := range segments {
		page := seg.Address >> 16
		wordAddr := (seg.Address & 0xFFFF) >> 1
		instr := len(seg.Data) / ihexbin.SlotSize

		var notes []string
		if page > ihexbin.MaxPage {
			notes = append(notes, "page out of range")
		}
		if seg.Address%ihexbin.SlotSize != 0 || len(seg.Data)%ihexbin.SlotSize != 0 {
			notes = append(notes, "not slot aligned")
		}

		fmt.Fprintf(&s, "%3d  0x%08X  0x%02X  0x%04X  %6d %6d %7d", i, seg.Address, page, wordAddr,
			len(seg.Data), instr, instr*ihexbin.InstrSize)
		if len(notes) > 0 {
			fmt.Fprintf(&s, "  (%s)", strings.Join(notes, ", "))
		}
		s.WriteString("\n")

		totalBytes += len(seg.Data)
		totalInstr += instr
	}

	fmt.Fprintf(&s, "\nSegments: %d, Data: %d bytes, Instructions: %d, Packed: %d bytes\n",
		len(segments), totalBytes, totalInstr, totalInstr*ihexbin.InstrSize)
	return s.String()
}
