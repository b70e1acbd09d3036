// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the hrdesk shell. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Form chrome.
	FieldLabel   lipgloss.Color
	FocusedField lipgloss.Color
	BorderColor  lipgloss.Color

	// Status banners.
	ErrorForeground   lipgloss.Color
	NoticeForeground  lipgloss.Color
	WarningForeground lipgloss.Color
	WarningBackground lipgloss.Color

	// Authenticated shell chrome.
	HeaderForeground   lipgloss.Color
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	HelpText           lipgloss.Color
}

// DefaultTheme is a dark-terminal palette.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("241"),

	FieldLabel:   lipgloss.Color("245"),
	FocusedField: lipgloss.Color("75"),
	BorderColor:  lipgloss.Color("238"),

	ErrorForeground:   lipgloss.Color("203"),
	NoticeForeground:  lipgloss.Color("114"),
	WarningForeground: lipgloss.Color("235"),
	WarningBackground: lipgloss.Color("214"),

	HeaderForeground:   lipgloss.Color("117"),
	SelectedBackground: lipgloss.Color("24"),
	SelectedForeground: lipgloss.Color("255"),
	HelpText:           lipgloss.Color("241"),
}
