// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cclogistics/hrdesk/lib/access"
	"github.com/cclogistics/hrdesk/lib/clock"
	"github.com/cclogistics/hrdesk/lib/fingerprint"
	"github.com/cclogistics/hrdesk/lib/hrapi"
	"github.com/cclogistics/hrdesk/lib/session"
)

// Flow identifies which screen owns keyboard input.
type Flow int

const (
	// FlowLogin is the credentials form.
	FlowLogin Flow = iota
	// FlowPasswordChange is the forced password change form. The user
	// holds a temp token, not a session.
	FlowPasswordChange
	// FlowMFA is the MFA challenge form. Same token situation as
	// FlowPasswordChange.
	FlowMFA
	// FlowHome is the authenticated shell.
	FlowHome
)

// mfaCodeLength is the required length of an MFA code.
const mfaCodeLength = 6

// logoutTimeout bounds the best-effort server logout call.
const logoutTimeout = 5 * time.Second

// authResultMsg carries the outcome of a login or MFA verification
// attempt. generation identifies the attempt; results from superseded
// attempts are dropped.
type authResultMsg struct {
	generation int
	result     *hrapi.LoginResult
	err        error
}

// passwordChangedMsg carries the outcome of a password change attempt.
type passwordChangedMsg struct {
	generation int
	err        error
}

// forcedLogoutMsg is delivered when the session store's reset hook
// fires (a failed keepalive, typically).
type forcedLogoutMsg struct{}

// loggedOutMsg is delivered when a user-initiated logout completes.
type loggedOutMsg struct{}

// Config configures NewModel.
type Config struct {
	// Store owns session state. Required.
	Store *session.Store
	// Client talks to the HR server. Required.
	Client *hrapi.Client
	// Environment is the device environment used for trusted-device
	// fingerprinting.
	Environment fingerprint.Environment
	// Clock drives the keepalive schedule. If nil, clock.Real().
	Clock clock.Clock
	// KeepaliveInterval overrides the session extension interval.
	// If zero, the session package default.
	KeepaliveInterval time.Duration
	// Logger may be nil.
	Logger *slog.Logger
}

// Model is the bubbletea model for the hrdesk shell.
type Model struct {
	store             *session.Store
	client            *hrapi.Client
	env               fingerprint.Environment
	clk               clock.Clock
	keepaliveInterval time.Duration
	logger            *slog.Logger

	keys  KeyMap
	theme Theme

	width  int
	height int

	flow Flow

	// In-flight request state. generation increments on every new
	// attempt and on every cancellation, so a result that raced a
	// cancel arrives with a stale generation and is ignored.
	busy          bool
	generation    int
	cancelPending context.CancelFunc
	errorText     string
	notice        string

	// Credentials form.
	usernameInput textinput.Model
	passwordInput textinput.Model
	loginFocus    int

	// Token shared by the password-change and MFA forms.
	tempToken    string
	changeReason string

	// Password-change form.
	newPasswordInput     textinput.Model
	confirmPasswordInput textinput.Model
	passwordFocus        int

	// MFA form.
	codeInput   textinput.Model
	trustDevice bool
	mfaFocus    int

	// Authenticated shell.
	user      *hrapi.User
	pages     []string
	pageIndex int
	keepalive *session.Keepalive

	// resetChannel delivers forced logouts from the session store's
	// reset hook into the bubbletea loop.
	resetChannel chan struct{}
}

// NewModel creates the shell model. When the store holds a session
// that survived the startup validation, the model starts in the
// authenticated shell with the keepalive running; otherwise it starts
// at the credentials form.
func NewModel(config Config) Model {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = ""
	username.CharLimit = 64
	username.Width = 28
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 28

	newPassword := textinput.New()
	newPassword.Placeholder = "new password"
	newPassword.Prompt = ""
	newPassword.EchoMode = textinput.EchoPassword
	newPassword.EchoCharacter = '•'
	newPassword.CharLimit = 128
	newPassword.Width = 28

	confirmPassword := textinput.New()
	confirmPassword.Placeholder = "confirm new password"
	confirmPassword.Prompt = ""
	confirmPassword.EchoMode = textinput.EchoPassword
	confirmPassword.EchoCharacter = '•'
	confirmPassword.CharLimit = 128
	confirmPassword.Width = 28

	code := textinput.New()
	code.Placeholder = "000000"
	code.Prompt = ""
	// No CharLimit here: a paste arrives as one multi-rune key message,
	// and the input would truncate it before sanitizeMFACode strips the
	// formatting. The sanitizer enforces the six-digit cap.
	code.Width = 10

	model := Model{
		store:                config.Store,
		client:               config.Client,
		env:                  config.Environment,
		clk:                  clk,
		keepaliveInterval:    config.KeepaliveInterval,
		logger:               logger,
		keys:                 DefaultKeyMap,
		theme:                DefaultTheme,
		usernameInput:        username,
		passwordInput:        password,
		newPasswordInput:     newPassword,
		confirmPasswordInput: confirmPassword,
		codeInput:            code,
		resetChannel:         make(chan struct{}, 1),
	}

	resetChannel := model.resetChannel
	config.Store.SetResetHook(func() {
		select {
		case resetChannel <- struct{}{}:
		default:
		}
	})

	if config.Store.HasSession() {
		if user := config.Store.User(); user != nil {
			model.user = user
			model.pages = access.AllowedPages(user.Role, user.SalesRole)
			model.selectPage()
			model.flow = FlowHome
			model.keepalive = model.startKeepalive()
		}
	}

	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForReset(model.resetChannel))
}

// listenForReset returns a tea.Cmd that blocks until the session
// store's reset hook fires, then delivers a forcedLogoutMsg.
func listenForReset(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-channel
		return forcedLogoutMsg{}
	}
}

// Update implements tea.Model. Routes keyboard input by flow state.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case forcedLogoutMsg:
		model.resetToLogin("Your session has ended. Log in again to continue.")
		return model, listenForReset(model.resetChannel)

	case loggedOutMsg:
		model.resetToLogin("You have been logged out.")
		return model, nil

	case authResultMsg:
		return model.handleAuthResult(message)

	case passwordChangedMsg:
		return model.handlePasswordChanged(message)

	case tea.KeyMsg:
		if message.String() == "ctrl+c" {
			model.abortPending()
			return model, tea.Quit
		}
		switch model.flow {
		case FlowLogin:
			return model.handleLoginKeys(message)
		case FlowPasswordChange:
			return model.handlePasswordChangeKeys(message)
		case FlowMFA:
			return model.handleMFAKeys(message)
		case FlowHome:
			return model.handleHomeKeys(message)
		}
	}
	return model, nil
}

// startRequest begins an abortable network attempt: it supersedes any
// pending attempt, allocates a fresh generation, and returns a tea.Cmd
// running perform with a cancellable context.
func (model *Model) startRequest(perform func(ctx context.Context, generation int) tea.Msg) tea.Cmd {
	model.abortPending()
	model.generation++
	generation := model.generation

	ctx, cancel := context.WithCancel(context.Background())
	model.cancelPending = cancel
	model.busy = true
	model.errorText = ""

	return func() tea.Msg {
		return perform(ctx, generation)
	}
}

// abortPending cancels the in-flight request, if any, and invalidates
// its generation so a result that already left the server is dropped.
func (model *Model) abortPending() {
	if model.cancelPending != nil {
		model.cancelPending()
		model.cancelPending = nil
	}
	model.busy = false
	model.generation++
}

// handleAuthResult processes a login or MFA verification response.
func (model Model) handleAuthResult(message authResultMsg) (tea.Model, tea.Cmd) {
	if message.generation != model.generation {
		return model, nil
	}
	model.busy = false
	model.cancelPending = nil

	if message.err != nil {
		model.errorText = requestErrorText(message.err)
		return model, nil
	}

	switch message.result.Outcome() {
	case hrapi.OutcomeSession:
		model.enterHome(message.result)
		return model, nil

	case hrapi.OutcomePasswordChange:
		model.flow = FlowPasswordChange
		model.tempToken = message.result.TempToken
		model.changeReason = message.result.Reason
		model.errorText = ""
		model.notice = ""
		model.newPasswordInput.SetValue("")
		model.confirmPasswordInput.SetValue("")
		model.focusPasswordField(0)
		return model, textinput.Blink

	case hrapi.OutcomeMFA:
		model.flow = FlowMFA
		model.tempToken = message.result.TempToken
		model.trustDevice = false
		model.errorText = ""
		model.notice = ""
		model.codeInput.SetValue("")
		model.mfaFocus = 0
		model.codeInput.Focus()
		return model, textinput.Blink

	default:
		model.errorText = "Invalid username or password."
		return model, nil
	}
}

// enterHome establishes the session and switches to the authenticated
// shell.
func (model *Model) enterHome(result *hrapi.LoginResult) {
	model.store.EstablishSession(result)

	model.user = result.User
	model.pages = access.AllowedPages(result.User.Role, result.User.SalesRole)
	model.selectPage()
	model.flow = FlowHome
	model.errorText = ""
	model.notice = ""
	model.tempToken = ""
	model.changeReason = ""
	model.passwordInput.SetValue("")
	model.newPasswordInput.SetValue("")
	model.confirmPasswordInput.SetValue("")
	model.codeInput.SetValue("")

	model.keepalive = model.startKeepalive()
}

// selectPage points pageIndex at the last visited page, falling back
// to the first page the role allows when none was recorded or the
// role lost access to it.
func (model *Model) selectPage() {
	page := model.store.LastVisitedPage()
	if page == "" || !access.CanAccessPage(model.user.Role, model.user.SalesRole, page) {
		page = access.FirstAllowedPage(model.user.Role, model.user.SalesRole)
	}
	model.pageIndex = 0
	for i, candidate := range model.pages {
		if candidate == page {
			model.pageIndex = i
			break
		}
	}
}

func (model *Model) startKeepalive() *session.Keepalive {
	return session.StartKeepalive(session.KeepaliveConfig{
		Store:    model.store,
		Clock:    model.clk,
		Interval: model.keepaliveInterval,
		Logger:   model.logger,
	})
}

// resetToLogin remounts the credentials form, discarding all transient
// flow state. The username survives for convenience; everything secret
// does not.
func (model *Model) resetToLogin(notice string) {
	model.abortPending()

	if model.keepalive != nil {
		model.keepalive.Stop()
		model.keepalive = nil
	}

	model.flow = FlowLogin
	model.notice = notice
	model.errorText = ""
	model.tempToken = ""
	model.changeReason = ""
	model.trustDevice = false
	model.user = nil
	model.pages = nil
	model.pageIndex = 0
	model.passwordInput.SetValue("")
	model.newPasswordInput.SetValue("")
	model.confirmPasswordInput.SetValue("")
	model.codeInput.SetValue("")
	model.focusLoginField(0)
}

// requestErrorText maps a request error to the message shown in the
// form. Structured server errors surface their own message; transport
// failures get a generic line.
func requestErrorText(err error) string {
	var apiErr *hrapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Cannot reach the HR server. Check your connection and try again."
}

// sanitizeMFACode strips non-digits and caps length, so pasting
// "1a2b3c4d5e6" yields "123456".
func sanitizeMFACode(raw string) string {
	var builder strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		builder.WriteRune(r)
		if builder.Len() == mfaCodeLength {
			break
		}
	}
	return builder.String()
}
