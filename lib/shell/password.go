// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cclogistics/hrdesk/lib/hrapi"
)

// minPasswordLength matches the server's password policy; checking it
// locally saves a round trip for the obvious rejections. The server
// still enforces its full policy.
const minPasswordLength = 8

// Password-change form field indices.
const (
	passwordFieldNew     = 0
	passwordFieldConfirm = 1
	passwordFieldCount   = 2
)

func (model Model) handlePasswordChangeKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		if model.busy {
			model.abortPending()
			model.errorText = ""
			return model, nil
		}
		// Abandon the change. The temp token is discarded; the user
		// starts over from credentials.
		model.resetToLogin("")
		return model, nil

	case key.Matches(message, model.keys.Submit):
		if model.busy {
			return model, nil
		}
		return model.submitPasswordChange()

	case key.Matches(message, model.keys.NextField):
		model.focusPasswordField((model.passwordFocus + 1) % passwordFieldCount)
		return model, nil

	case key.Matches(message, model.keys.PrevField):
		model.focusPasswordField((model.passwordFocus + passwordFieldCount - 1) % passwordFieldCount)
		return model, nil
	}

	var cmd tea.Cmd
	switch model.passwordFocus {
	case passwordFieldNew:
		model.newPasswordInput, cmd = model.newPasswordInput.Update(message)
	case passwordFieldConfirm:
		model.confirmPasswordInput, cmd = model.confirmPasswordInput.Update(message)
	}
	return model, cmd
}

func (model *Model) focusPasswordField(field int) {
	model.passwordFocus = field
	model.newPasswordInput.Blur()
	model.confirmPasswordInput.Blur()
	switch field {
	case passwordFieldNew:
		model.newPasswordInput.Focus()
	case passwordFieldConfirm:
		model.confirmPasswordInput.Focus()
	}
}

// submitPasswordChange validates locally before any network call:
// empty, too-short, and mismatched passwords never leave the client.
func (model Model) submitPasswordChange() (tea.Model, tea.Cmd) {
	newPassword := model.newPasswordInput.Value()
	confirm := model.confirmPasswordInput.Value()

	switch {
	case newPassword == "":
		model.errorText = "New password is required."
		return model, nil
	case len(newPassword) < minPasswordLength:
		model.errorText = "Password must be at least 8 characters."
		return model, nil
	case newPassword != confirm:
		model.errorText = "Passwords do not match."
		return model, nil
	}

	client := model.client
	tempToken := model.tempToken
	cmd := model.startRequest(func(ctx context.Context, generation int) tea.Msg {
		err := client.ChangePassword(ctx, hrapi.ChangePasswordRequest{
			TempToken:   tempToken,
			NewPassword: newPassword,
		})
		return passwordChangedMsg{generation: generation, err: err}
	})
	return model, cmd
}

// handlePasswordChanged processes the server's response to a password
// change. Success does not establish a session: the server requires a
// fresh login with the new password.
func (model Model) handlePasswordChanged(message passwordChangedMsg) (tea.Model, tea.Cmd) {
	if message.generation != model.generation {
		return model, nil
	}
	model.busy = false
	model.cancelPending = nil

	if message.err != nil {
		model.errorText = requestErrorText(message.err)
		return model, nil
	}

	model.resetToLogin("Password changed. Log in with your new password.")
	return model, nil
}
