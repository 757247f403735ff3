// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme collects the colors used by the form and the markdown
// renderer. All values are drawn from the ANSI 256 palette so output
// renders consistently across terminal color profiles.
type Theme struct {
	// NormalText is the default foreground for field values and
	// rendered prose.
	NormalText lipgloss.Color

	// FaintText is for de-emphasized text: placeholder hints,
	// optional-field markers, code block fallbacks.
	FaintText lipgloss.Color

	// Accent highlights the active field and link text.
	Accent lipgloss.Color

	// ErrorText is for validation failures.
	ErrorText lipgloss.Color

	// HeaderForeground is for form titles and markdown headings.
	HeaderForeground lipgloss.Color

	// BorderColor is for rules and block quote gutters.
	BorderColor lipgloss.Color

	// HelpText is for the key binding footer.
	HelpText lipgloss.Color
}

// DefaultTheme returns the standard theme: light grey text on the
// terminal's default background with a blue accent.
func DefaultTheme() Theme {
	return Theme{
		NormalText:       lipgloss.Color("252"),
		FaintText:        lipgloss.Color("245"),
		Accent:           lipgloss.Color("75"),
		ErrorText:        lipgloss.Color("203"),
		HeaderForeground: lipgloss.Color("255"),
		BorderColor:      lipgloss.Color("240"),
		HelpText:         lipgloss.Color("241"),
	}
}
