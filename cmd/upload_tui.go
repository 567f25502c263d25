// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/ihexbin/pkg/ihexbin"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// blockSentMsg reports a block acknowledged by the target
type blockSentMsg struct {
	sent  int
	block *ihexbin.Block
}

// uploadDoneMsg ends the upload, successfully or not
type uploadDoneMsg struct {
	err error
}

type uploadModel struct {
	name     string
	connInfo string
	total    int
	sent     int
	last     *ihexbin.Block
	bytes    int
	started  time.Time
	elapsed  time.Duration
	done     bool
	err      error
	bar      progress.Model
	cancel   context.CancelFunc
}

func newUploadModel(name, connInfo string, total int, cancel context.CancelFunc) uploadModel {
	return uploadModel{
		name:     name,
		connInfo: connInfo,
		total:    total,
		started:  time.Now(),
		bar:      progress.New(progress.WithDefaultGradient()),
		cancel:   cancel,
	}
}

func (m uploadModel) Init() tea.Cmd {
	return nil
}

func (m uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 4
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}

	case blockSentMsg:
		m.sent = msg.sent
		m.last = msg.block
		m.bytes += msg.block.Size()

	case uploadDoneMsg:
		m.done = msg.err == nil
		m.err = msg.err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit
	}

	return m, nil
}

func (m uploadModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.sent) / float64(m.total)
}

func (m uploadModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ihexbin - Upload"))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("File: ") + valueStyle.Render(m.name) + "\n")
	s.WriteString(labelStyle.Render("Connection: ") + valueStyle.Render(m.connInfo) + "\n\n")

	s.WriteString(m.bar.ViewAs(m.percent()))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("%d/%d blocks, %d bytes sent\n", m.sent, m.total, m.bytes))
	if m.last != nil {
		s.WriteString(labelStyle.Render(fmt.Sprintf("Last: page 0x%02X waddr 0x%04X", m.last.Header.Page, m.last.Header.WordAddr)))
		s.WriteString("\n")
	}

	switch {
	case m.err != nil:
		s.WriteString("\n" + errorStyle.Render("Upload failed: "+m.err.Error()) + "\n")
	case m.done:
		s.WriteString("\n" + valueStyle.Render(fmt.Sprintf("Upload complete in %s", m.elapsed.Round(time.Millisecond))) + "\n")
	default:
		s.WriteString("\n" + labelStyle.Render("Press q to abort") + "\n")
	}

	return s.String()
}
