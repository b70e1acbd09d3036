// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint derives the trusted-device fingerprint sent to
// the HR API at login and MFA verification.
//
// The server matches trust records by exact fingerprint equality, so
// both call sites must construct the value identically. That is the
// whole reason this package exists: one constructor, two callers, no
// duplicated field ordering to drift apart.
//
// The fingerprint is deterministic for a given environment: client
// identifier, language, screen dimensions, and platform, joined in
// that fixed order and digested with BLAKE3. It is a lookup key for a
// server-side trust record, not a security boundary.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/term"
)

// clientIdentifier is hrdesk's equivalent of a browser user-agent
// string: the first ordered field of the fingerprint. It carries no
// version — a routine upgrade must not invalidate device trust.
const clientIdentifier = "hrdesk-terminal"

// Environment holds the observable facts the fingerprint is derived
// from. Production code fills it with Detect; tests construct it
// directly for determinism.
type Environment struct {
	// ClientID identifies the client software (the "user agent").
	ClientID string
	// Language is the user's locale (e.g., "en_US.UTF-8").
	Language string
	// ScreenWidth and ScreenHeight are the terminal dimensions in
	// cells. Zero when no terminal is attached.
	ScreenWidth  int
	ScreenHeight int
	// Platform identifies the operating system and architecture.
	Platform string
	// Terminal is the terminal family from $TERM, used only for the
	// device name, never for the fingerprint.
	Terminal string
}

// Detect fills an Environment from the running process. The terminal
// size probe uses stdout; a detached process reports 0x0, which is
// still deterministic for that process's lifetime.
func Detect() Environment {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 0, 0
	}
	return Environment{
		ClientID:     clientIdentifier,
		Language:     detectLanguage(),
		ScreenWidth:  width,
		ScreenHeight: height,
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		Terminal:     os.Getenv("TERM"),
	}
}

// detectLanguage resolves the locale the way libc does: LC_ALL wins,
// then LC_MESSAGES, then LANG.
func detectLanguage() string {
	for _, variable := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(variable); value != "" {
			return value
		}
	}
	return "C"
}

// Compute derives the device fingerprint from env. The field order —
// client identifier, language, screen size, platform — is fixed and
// shared by the login and MFA-verify call sites. Changing it
// invalidates every existing device-trust record.
func Compute(env Environment) string {
	material := strings.Join([]string{
		env.ClientID,
		env.Language,
		fmt.Sprintf("%dx%d", env.ScreenWidth, env.ScreenHeight),
		env.Platform,
	}, "|")

	digest := blake3.Sum256([]byte(material))
	return hex.EncodeToString(digest[:])
}

// DeviceName derives the human-readable label stored alongside a
// trusted device: platform plus terminal family, the terminal
// equivalent of "platform + browser family".
func DeviceName(env Environment) string {
	platform := platformLabel(env.Platform)
	terminal := terminalFamily(env.Terminal)
	if terminal == "" {
		return platform
	}
	return platform + " " + terminal
}

func platformLabel(platform string) string {
	osName, _, _ := strings.Cut(platform, "/")
	switch osName {
	case "linux":
		return "Linux"
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "":
		return "Unknown"
	default:
		return osName
	}
}

// terminalFamily reduces $TERM to a recognizable family name:
// "xterm-256color" → "xterm", "tmux-256color" → "tmux".
func terminalFamily(termValue string) string {
	if termValue == "" {
		return ""
	}
	family, _, _ := strings.Cut(termValue, "-")
	return family
}
