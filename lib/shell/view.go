// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/cclogistics/hrdesk/lib/access"
	"github.com/cclogistics/hrdesk/lib/fingerprint"
)

// View implements tea.Model.
func (model Model) View() string {
	var content string
	switch model.flow {
	case FlowLogin:
		content = model.viewLogin()
	case FlowPasswordChange:
		content = model.viewPasswordChange()
	case FlowMFA:
		content = model.viewMFA()
	case FlowHome:
		return model.viewHome()
	}

	if model.width > 0 && model.height > 0 {
		return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (model Model) formBox(title string, lines ...string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		MarginBottom(1)

	body := titleStyle.Render(title) + "\n" + strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(1, 3).
		Render(body)
}

func (model Model) fieldRow(label string, focused bool, input string) string {
	labelColor := model.theme.FieldLabel
	if focused {
		labelColor = model.theme.FocusedField
	}
	labelStyle := lipgloss.NewStyle().Foreground(labelColor).Width(10)
	return labelStyle.Render(label) + input
}

// statusLines renders the busy indicator, error, and notice rows that
// every form shares.
func (model Model) statusLines(busyText string) []string {
	var lines []string
	if model.busy {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(busyText))
	}
	if model.errorText != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.ErrorForeground).Render(model.errorText))
	}
	if model.notice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.NoticeForeground).Render(model.notice))
	}
	return lines
}

func (model Model) helpLine(entries ...string) string {
	return lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		MarginTop(1).
		Render(strings.Join(entries, "  ·  "))
}

func (model Model) viewLogin() string {
	lines := []string{
		model.fieldRow("Username", model.loginFocus == loginFieldUsername, model.usernameInput.View()),
		model.fieldRow("Password", model.loginFocus == loginFieldPassword, model.passwordInput.View()),
	}
	lines = append(lines, model.statusLines("Signing in…")...)
	lines = append(lines, model.helpLine("Enter sign in", "Tab next field", "C-c quit"))
	return model.formBox("HR Desk", lines...)
}

func (model Model) viewPasswordChange() string {
	var lines []string
	if model.changeReason != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(model.changeReason), "")
	}
	lines = append(lines,
		model.fieldRow("New", model.passwordFocus == passwordFieldNew, model.newPasswordInput.View()),
		model.fieldRow("Confirm", model.passwordFocus == passwordFieldConfirm, model.confirmPasswordInput.View()),
	)
	lines = append(lines, model.statusLines("Changing password…")...)
	lines = append(lines, model.helpLine("Enter submit", "Esc back to login", "C-c quit"))
	return model.formBox("Password change required", lines...)
}

func (model Model) viewMFA() string {
	checkbox := "[ ]"
	if model.trustDevice {
		checkbox = "[x]"
	}
	trustLabel := fmt.Sprintf("%s Trust this device (%s)", checkbox, fingerprint.DeviceName(model.env))
	trustStyle := lipgloss.NewStyle().Foreground(model.theme.FieldLabel)
	if model.mfaFocus == mfaFieldTrust {
		trustStyle = trustStyle.Foreground(model.theme.FocusedField)
	}

	lines := []string{
		model.fieldRow("Code", model.mfaFocus == mfaFieldCode, model.codeInput.View()),
		trustStyle.Render(trustLabel),
	}
	lines = append(lines, model.statusLines("Verifying…")...)
	lines = append(lines, model.helpLine("Enter verify", "Space toggle trust", "Esc back to login"))
	return model.formBox("Two-factor authentication", lines...)
}

func (model Model) viewHome() string {
	header := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Padding(0, 1).
		Render(fmt.Sprintf("HR Desk — %s (%s)", model.user.Username, model.user.Role))

	var tabs []string
	for i, page := range model.pages {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(model.theme.FaintText)
		if i == model.pageIndex {
			style = style.
				Foreground(model.theme.SelectedForeground).
				Background(model.theme.SelectedBackground)
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, access.PageTitle(page))))
	}
	navBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	sections := []string{header, navBar}

	if warning := model.store.PasswordWarning(); warning != nil {
		message := warning.Message
		if model.width > 40 {
			message = ansi.Truncate(message, model.width-20, "…")
		}
		banner := lipgloss.NewStyle().
			Foreground(model.theme.WarningForeground).
			Background(model.theme.WarningBackground).
			Padding(0, 1).
			Render(fmt.Sprintf("⚠ %s  (d to dismiss)", message))
		sections = append(sections, banner)
	}

	bodyTitle := lipgloss.NewStyle().
		Foreground(model.theme.NormalText).
		Bold(true).
		MarginTop(1).
		Padding(0, 1).
		Render(access.PageTitle(model.CurrentPage()))
	bodyHint := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Padding(0, 1).
		Render("Module content loads from the HR server.")
	sections = append(sections, bodyTitle, bodyHint)

	status := "h/l or 1-9 switch page  ·  d dismiss warning  ·  C-l log out  ·  q quit"
	if model.busy {
		status = "Logging out…"
	}
	sections = append(sections, model.helpLine(status))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
