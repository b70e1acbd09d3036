// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// TestMain pins the color profile so rendered output is deterministic
// regardless of the terminal the tests run in.
func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestViewLoginForm(t *testing.T) {
	model, _ := newTestShell(t, http.NotFoundHandler())

	view := ansi.Strip(model.View())
	for _, want := range []string{"HR Desk", "Username", "Password", "Enter sign in"} {
		if !strings.Contains(view, want) {
			t.Errorf("login view missing %q", want)
		}
	}
}

func TestViewMFAForm(t *testing.T) {
	model, _ := newTestShell(t, http.NotFoundHandler())
	model.flow = FlowMFA
	model.tempToken = "tmp-1"

	view := ansi.Strip(model.View())
	for _, want := range []string{"Two-factor authentication", "Code", "[ ] Trust this device"} {
		if !strings.Contains(view, want) {
			t.Errorf("MFA view missing %q", want)
		}
	}

	model.trustDevice = true
	if !strings.Contains(ansi.Strip(model.View()), "[x] Trust this device") {
		t.Error("trust checkbox not rendered as checked")
	}
}

func TestViewPasswordChangeForm(t *testing.T) {
	model, _ := newTestShell(t, http.NotFoundHandler())
	model.flow = FlowPasswordChange
	model.tempToken = "tmp-1"
	model.changeReason = "Password policy was updated"

	view := ansi.Strip(model.View())
	for _, want := range []string{"Password change required", "Password policy was updated", "New", "Confirm"} {
		if !strings.Contains(view, want) {
			t.Errorf("password-change view missing %q", want)
		}
	}
}
