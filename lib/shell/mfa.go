// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cclogistics/hrdesk/lib/fingerprint"
	"github.com/cclogistics/hrdesk/lib/hrapi"
)

// MFA form field indices.
const (
	mfaFieldCode  = 0
	mfaFieldTrust = 1
	mfaFieldCount = 2
)

func (model Model) handleMFAKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		if model.busy {
			model.abortPending()
			model.errorText = ""
			return model, nil
		}
		// Abandon the challenge without a server call; the temp token
		// just expires server-side.
		model.resetToLogin("")
		return model, nil

	case key.Matches(message, model.keys.Submit):
		if model.busy {
			return model, nil
		}
		return model.submitMFA()

	case key.Matches(message, model.keys.NextField):
		model.focusMFAField((model.mfaFocus + 1) % mfaFieldCount)
		return model, nil

	case key.Matches(message, model.keys.PrevField):
		model.focusMFAField((model.mfaFocus + mfaFieldCount - 1) % mfaFieldCount)
		return model, nil
	}

	if model.mfaFocus == mfaFieldTrust {
		if message.String() == " " {
			model.trustDevice = !model.trustDevice
		}
		return model, nil
	}

	var cmd tea.Cmd
	model.codeInput, cmd = model.codeInput.Update(message)
	// Whatever arrived — typed, pasted, with separators — only digits
	// survive, capped at the code length.
	model.codeInput.SetValue(sanitizeMFACode(model.codeInput.Value()))
	return model, cmd
}

func (model *Model) focusMFAField(field int) {
	model.mfaFocus = field
	if field == mfaFieldCode {
		model.codeInput.Focus()
	} else {
		model.codeInput.Blur()
	}
}

func (model Model) submitMFA() (tea.Model, tea.Cmd) {
	code := model.codeInput.Value()
	if len(code) != mfaCodeLength {
		model.errorText = "Enter the 6-digit code from your authenticator."
		return model, nil
	}

	request := hrapi.VerifyMFARequest{
		TempToken:   model.tempToken,
		Code:        code,
		TrustDevice: model.trustDevice,
	}
	if model.trustDevice {
		// The fingerprint must match the one sent at login, so both
		// come from the same constructor over the same environment.
		request.DeviceFingerprint = fingerprint.Compute(model.env)
		request.DeviceName = fingerprint.DeviceName(model.env)
	}

	client := model.client
	cmd := model.startRequest(func(ctx context.Context, generation int) tea.Msg {
		result, err := client.VerifyMFA(ctx, request)
		return authResultMsg{generation: generation, result: result, err: err}
	})
	return model, cmd
}
