package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/redkv/internal/config"
)

// Theme defines the colors used across the UI.
type Theme struct {
	Accent     color.Color // titles, status text, help keys
	Muted      color.Color // secondary text and hints
	Key        color.Color // key names in the list and detail header
	Value      color.Color // rendered values
	SelectedFG color.Color // selected row foreground
	SelectedBG color.Color // selected row background
	Border     color.Color // pane borders
	Error      color.Color
	Success    color.Color
	FooterFG   color.Color // footer key badges
	FooterBG   color.Color
}

// ThemeFromConfig converts a configured palette. Empty values stay unset so
// the terminal default applies.
func ThemeFromConfig(tc config.ThemeConfig) Theme {
	return Theme{
		Accent:     parseColor(tc.Accent),
		Muted:      parseColor(tc.Muted),
		Key:        parseColor(tc.Key),
		Value:      parseColor(tc.Value),
		SelectedFG: parseColor(tc.SelectedFG),
		SelectedBG: parseColor(tc.SelectedBG),
		Border:     parseColor(tc.Border),
		Error:      parseColor(tc.Error),
		Success:    parseColor(tc.Success),
		FooterFG:   parseColor(tc.FooterFG),
		FooterBG:   parseColor(tc.FooterBG),
	}
}

// DefaultTheme returns the theme selected by the embedded configuration.
func DefaultTheme() Theme {
	cfg, err := config.Default()
	if err != nil {
		return Theme{}
	}
	return ThemeFromConfig(cfg.ActiveTheme())
}

func parseColor(s string) color.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

// styles are the lipgloss styles derived from a Theme.
type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	key      lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	border   lipgloss.Style
	err      lipgloss.Style
	success  lipgloss.Style
	badge    lipgloss.Style
	header   lipgloss.Style
}

func newStyles(th Theme, noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title:    plain.Bold(true),
			muted:    plain,
			key:      plain,
			value:    plain,
			selected: plain.Reverse(true),
			border:   plain,
			err:      plain.Bold(true),
			success:  plain,
			badge:    plain.Reverse(true),
			header:   plain.Bold(true),
		}
	}
	return styles{
		title:    fg(th.Accent).Bold(true),
		muted:    fg(th.Muted),
		key:      fg(th.Key),
		value:    fg(th.Value),
		selected: fg(th.SelectedFG).Background(bgOrReverse(th.SelectedBG)).Reverse(th.SelectedBG == nil),
		border:   fg(th.Border),
		err:      fg(th.Error).Bold(true),
		success:  fg(th.Success),
		badge:    fg(th.FooterFG).Background(bgOrReverse(th.FooterBG)).Reverse(th.FooterBG == nil).Bold(true),
		header:   fg(th.Accent).Bold(true),
	}
}

func fg(c color.Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c != nil {
		s = s.Foreground(c)
	}
	return s
}

func bgOrReverse(c color.Color) color.Color {
	if c == nil {
		return lipgloss.NoColor{}
	}
	return c
}
