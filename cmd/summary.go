// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"

	"github.com/Thermoquad/ihexbin/pkg/ihexbin"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// renderSummary renders the report of a successful conversion
func renderSummary(inName, outName string, r *ihexbin.Report) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("IHEXBIN - CONVERSION COMPLETE"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s -> %s | tag %q", inName, outName, r.VersionTag)))
	s.WriteString("\n\n")

	content := strings.Builder{}
	content.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("Records:"), valueStyle.Render(fmt.Sprintf("%06d", r.Records)),
		labelStyle.Render("Data-records:"), valueStyle.Render(fmt.Sprintf("%06d", r.DataRecords)),
	))
	content.WriteString(fmt.Sprintf("%s %s",
		labelStyle.Render("Total Data:"), valueStyle.Render(fmt.Sprintf("%X (%d) bytes", r.DataBytes, r.DataBytes)),
	))

	for _, p := range r.Pages {
		content.WriteString(fmt.Sprintf("\n%s %s",
			labelStyle.Render(fmt.Sprintf("Page %3d:", p.Page)),
			valueStyle.Render(fmt.Sprintf("%d blocks", p.Blocks)),
		))
	}

	s.WriteString(boxStyle.Render(content.String()))
	s.WriteString("\n")
	return s.String()
}

// renderFault renders the record that stopped a conversion
func renderFault(e *ihexbin.RecordError) string {
	var s strings.Builder
	s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Record %06d: %v", e.Record, e.Err)))
	s.WriteString("\n")
	if e.Message != "" {
		s.WriteString(fmt.Sprintf("  %s\n", e.Message))
	}
	s.WriteString(fmt.Sprintf("  %s %s\n", headerStyle.Render("Source:"), e.Source))
	s.WriteString(warningStyle.Render("  No output written."))
	s.WriteString("\n")
	return s.String()
}

// renderEmpty renders the outcome of an input without records
func renderEmpty() string {
	return warningStyle.Render("Input file ended unexpectedly after 0 records!") + "\n"
}
