// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cclogistics/hrdesk/lib/fingerprint"
	"github.com/cclogistics/hrdesk/lib/hrapi"
)

// Login form field indices.
const (
	loginFieldUsername = 0
	loginFieldPassword = 1
	loginFieldCount    = 2
)

func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		if model.busy {
			// Abort the pending attempt; the form stays filled in.
			model.abortPending()
		}
		model.errorText = ""
		return model, nil

	case key.Matches(message, model.keys.Submit):
		if model.busy {
			return model, nil
		}
		return model.submitLogin()

	case key.Matches(message, model.keys.NextField):
		model.focusLoginField((model.loginFocus + 1) % loginFieldCount)
		return model, nil

	case key.Matches(message, model.keys.PrevField):
		model.focusLoginField((model.loginFocus + loginFieldCount - 1) % loginFieldCount)
		return model, nil
	}

	var cmd tea.Cmd
	switch model.loginFocus {
	case loginFieldUsername:
		model.usernameInput, cmd = model.usernameInput.Update(message)
	case loginFieldPassword:
		model.passwordInput, cmd = model.passwordInput.Update(message)
	}
	return model, cmd
}

func (model *Model) focusLoginField(field int) {
	model.loginFocus = field
	model.usernameInput.Blur()
	model.passwordInput.Blur()
	switch field {
	case loginFieldUsername:
		model.usernameInput.Focus()
	case loginFieldPassword:
		model.passwordInput.Focus()
	}
}

func (model Model) submitLogin() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(model.usernameInput.Value())
	password := model.passwordInput.Value()
	if username == "" || password == "" {
		model.errorText = "Username and password are required."
		return model, nil
	}
	model.notice = ""

	client := model.client
	env := model.env
	cmd := model.startRequest(func(ctx context.Context, generation int) tea.Msg {
		result, err := client.Login(ctx, hrapi.LoginRequest{
			Username:          username,
			Password:          password,
			DeviceFingerprint: fingerprint.Compute(env),
		})
		return authResultMsg{generation: generation, result: result, err: err}
	})
	return model, cmd
}
