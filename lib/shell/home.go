// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (model Model) handleHomeKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.busy {
		// Logout in progress; ignore everything but quit.
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Logout):
		model.busy = true
		return model, model.logoutCmd()

	case key.Matches(message, model.keys.NextPage):
		if model.pageIndex < len(model.pages)-1 {
			model.pageIndex++
			model.store.SetLastVisitedPage(model.CurrentPage())
		}
		return model, nil

	case key.Matches(message, model.keys.PrevPage):
		if model.pageIndex > 0 {
			model.pageIndex--
			model.store.SetLastVisitedPage(model.CurrentPage())
		}
		return model, nil

	case key.Matches(message, model.keys.DismissWarning):
		model.store.DismissPasswordWarning()
		return model, nil
	}

	// Digit keys jump straight to a page.
	if runes := message.String(); len(runes) == 1 && runes[0] >= '1' && runes[0] <= '9' {
		if index := int(runes[0] - '1'); index < len(model.pages) {
			model.pageIndex = index
			model.store.SetLastVisitedPage(model.CurrentPage())
		}
	}
	return model, nil
}

// logoutCmd performs the user-initiated logout off the UI loop: the
// server call is best-effort and must not freeze the shell while a
// slow server holds the request.
func (model Model) logoutCmd() tea.Cmd {
	store := model.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
		defer cancel()
		store.Logout(ctx)
		return loggedOutMsg{}
	}
}

// CurrentPage returns the identifier of the selected page, or "" when
// unauthenticated.
func (model Model) CurrentPage() string {
	if model.flow != FlowHome || model.pageIndex >= len(model.pages) {
		return ""
	}
	return model.pages[model.pageIndex]
}
