// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ihexbin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Bootloader replies
const (
	ReplyAck = 0x06
	ReplyNak = 0xFF
)

// Programmer defaults
const (
	DefaultRetries      = 3
	DefaultReplyTimeout = 3 * time.Second
)

// Programmer errors
var (
	ErrTargetRejected  = errors.New("target rejected block")
	ErrTargetTimeout   = errors.New("target did not answer")
	ErrUnexpectedReply = errors.New("unexpected reply from target")
)

// Programmer sends blocks to a bootloader one at a time and waits for the
// target to acknowledge each one.
type Programmer struct {
	conn    io.ReadWriter
	retries int
	timeout time.Duration

	startOnce sync.Once
	replies   chan byte
	readErr   chan error
}

// NewProgrammer creates a programmer on an open connection.
// A negative retry count or a non-positive timeout selects the default.
func NewProgrammer(conn io.ReadWriter, retries int, timeout time.Duration) *Programmer {
	if retries < 0 {
		retries = DefaultRetries
	}
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	return &Programmer{
		conn:    conn,
		retries: retries,
		timeout: timeout,
		replies: make(chan byte, 64),
		readErr: make(chan error, 1),
	}
}

// startReader runs the reply reader until the connection fails or is closed
func (p *Programmer) startReader() {
	p.startOnce.Do(func() {
		go func() {
			buf := make([]byte, 16)
			for {
				n, err := p.conn.Read(buf)
				for i := 0; i < n; i++ {
					p.replies <- buf[i]
				}
				if err != nil {
					p.readErr <- err
					return
				}
			}
		}()
	})
}

// drain discards replies left over from timed out attempts
func (p *Programmer) drain() {
	for {
		select {
		case <-p.replies:
		default:
			return
		}
	}
}

// SendBlock writes one block and waits for its acknowledgement.
// A NAK or a timeout is retried; the block is given up after the retries.
func (p *Programmer) SendBlock(ctx context.Context, b *Block) error {
	raw, err := b.MarshalBinary()
	if err != nil {
		return err
	}
	p.startReader()

	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.drain()
		if _, err := p.conn.Write(raw); err != nil {
			return fmt.Errorf("write block %d: %w", b.Header.Seq, err)
		}

		timer := time.NewTimer(p.timeout)
		select {
		case r := <-p.replies:
			timer.Stop()
			switch r {
			case ReplyAck:
				return nil
			case ReplyNak:
				lastErr = ErrTargetRejected
			default:
				return fmt.Errorf("block %d: %w: 0x%02X", b.Header.Seq, ErrUnexpectedReply, r)
			}

		case err := <-p.readErr:
			timer.Stop()
			return fmt.Errorf("block %d: read reply: %w", b.Header.Seq, err)

		case <-timer.C:
			lastErr = ErrTargetTimeout

		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("block %d: %w after %d attempts", b.Header.Seq, lastErr, p.retries+1)
}

// SendAll sends blocks in order. progress, when set, is called after every
// acknowledged block with the number of blocks sent so far.
func (p *Programmer) SendAll(ctx context.Context, blocks []*Block, progress func(sent int)) error {
	for i, b := range blocks {
		if err := p.SendBlock(ctx, b); err != nil {
			return err
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	return nil
}
