// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thermoquad/ihexbin/pkg/ihexbin"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <bin-file>",
	Short: "Send a block file to a bootloader",
	Long: `Send every block of a converted file to a bootloader over serial or WebSocket.

The target answers each block with ACK (0x06) or NAK (0xFF). A NAK or a missing
answer resends the block up to --retries times before the upload is aborted.

Exit codes:
  0 - All blocks acknowledged
  1 - Block file invalid or target rejected a block
  2 - File or connection error`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var (
	uploadRetries int
	uploadTimeout time.Duration
	uploadTUI     bool
)

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().IntVar(&uploadRetries, "retries", ihexbin.DefaultRetries, "Resends per block after NAK or timeout")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", ihexbin.DefaultReplyTimeout, "Time to wait for the target's answer")
	uploadCmd.Flags().BoolVar(&uploadTUI, "tui", term.IsTerminal(int(os.Stdout.Fd())), "Show a progress bar")
}

func runUpload(cmd *cobra.Command, args []string) error {
	name := withDefaultExt(args[0], binExt)
	blocks, err := loadBlocks(name)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return &ExitError{Code: ExitEmpty, Err: fmt.Errorf("%s holds no blocks", name)}
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return &ExitError{Code: ExitIO, Err: err}
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prog := ihexbin.NewProgrammer(conn, uploadRetries, uploadTimeout)
	if uploadTUI {
		err = runUploadTUI(ctx, prog, blocks, name, connInfo)
	} else {
		err = runUploadText(ctx, cmd.OutOrStdout(), prog, blocks, name, connInfo)
	}
	return uploadExitError(err)
}

// loadBlocks reads and verifies a whole block file
func loadBlocks(name string) ([]*ihexbin.Block, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &ExitError{Code: ExitIO, Err: fmt.Errorf("couldn't open block file: %w", err)}
	}
	defer f.Close()

	blocks, err := ihexbin.ReadAllBlocks(f)
	if err != nil {
		return nil, &ExitError{Code: ExitFault, Err: fmt.Errorf("%s: %w", name, err)}
	}
	return blocks, nil
}

func runUploadText(ctx context.Context, w io.Writer, prog *ihexbin.Programmer, blocks []*ihexbin.Block, name, connInfo string) error {
	fmt.Fprintf(w, "Uploading %s (%d blocks)\n", name, len(blocks))
	fmt.Fprintf(w, "Connection: %s\n\n", connInfo)

	start := time.Now()
	err := prog.SendAll(ctx, blocks, func(sent int) {
		b := blocks[sent-1]
		fmt.Fprintf(w, "[%4d/%4d] page 0x%02X waddr 0x%04X  %3d bytes  ACK\n",
			sent, len(blocks), b.Header.Page, b.Header.WordAddr, len(b.Payload))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nUpload complete: %d blocks in %s\n", len(blocks), time.Since(start).Round(time.Millisecond))
	return nil
}

// uploadExitError maps a programmer failure to an exit code
func uploadExitError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ihexbin.ErrTargetRejected), errors.Is(err, ihexbin.ErrUnexpectedReply):
		return &ExitError{Code: ExitFault, Err: err}
	default:
		return &ExitError{Code: ExitIO, Err: err}
	}
}

func runUploadTUI(ctx context.Context, prog *ihexbin.Programmer, blocks []*ihexbin.Block, name, connInfo string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newUploadModel(name, connInfo, len(blocks), cancel)
	p := tea.NewProgram(m)

	go func() {
		err := prog.SendAll(ctx, blocks, func(sent int) {
			p.Send(blockSentMsg{sent: sent, block: blocks[sent-1]})
		})
		p.Send(uploadDoneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if fm, ok := final.(uploadModel); ok {
		if fm.err != nil {
			return fm.err
		}
		if !fm.done {
			return context.Canceled
		}
	}
	return nil
}
