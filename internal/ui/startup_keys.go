package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ParseKeys turns startup key tokens into key presses. A token mixes
// literal text with vim-style keys in angle brackets, for example
// "/user<CR>" or "<C-n><C-n>". A leading backslash makes the whole token
// literal.
func ParseKeys(tokens []string) ([]tea.KeyPressMsg, error) {
	var out []tea.KeyPressMsg
	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			out = append(out, textKeys(strings.TrimPrefix(token, `\`))...)
			continue
		}
		for _, seg := range parseTokenSegments(token) {
			if !seg.isVimKey {
				out = append(out, textKeys(seg.text)...)
				continue
			}
			msg, ok := keyMsgFromToken(seg.text)
			if !ok {
				return nil, fmt.Errorf("unknown key %s", seg.text)
			}
			out = append(out, msg)
		}
	}
	return out, nil
}

func textKeys(s string) []tea.KeyPressMsg {
	out := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return out
}

// tokenSegment is a piece of a token: either a <key> or literal text.
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits "<F1>abc" into [<F1>, abc]. An unclosed "<"
// leaves the rest of the token literal.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for len(remaining) > 0 {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end <= 1 {
			// "<" alone or "<>" is text
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isVimKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var namedKeys = map[string]rune{
	"esc":       tea.KeyEscape,
	"escape":    tea.KeyEscape,
	"c-[":       tea.KeyEscape,
	"cr":        tea.KeyEnter,
	"enter":     tea.KeyEnter,
	"return":    tea.KeyEnter,
	"tab":       tea.KeyTab,
	"bs":        tea.KeyBackspace,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pageup":    tea.KeyPgUp,
	"pgup":      tea.KeyPgUp,
	"pagedown":  tea.KeyPgDown,
	"pgdn":      tea.KeyPgDown,
	"f1":        tea.KeyF1,
	"f2":        tea.KeyF2,
	"f3":        tea.KeyF3,
	"f4":        tea.KeyF4,
	"f5":        tea.KeyF5,
	"f6":        tea.KeyF6,
	"f7":        tea.KeyF7,
	"f8":        tea.KeyF8,
	"f9":        tea.KeyF9,
	"f10":       tea.KeyF10,
}

// keyMsgFromToken parses one <...> key: a named key, optionally prefixed by
// C- (ctrl), M- or A- (alt) and S- (shift), e.g. <C-n>, <M-<>, <S-Down>.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
	if inner == "" {
		return tea.KeyPressMsg{}, false
	}
	lower := strings.ToLower(inner)
	if code, ok := namedKeys[lower]; ok {
		return tea.KeyPressMsg{Code: code}, true
	}
	if lower == "space" {
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}, true
	}

	var mod tea.KeyMod
	rest := inner
	for len(rest) > 2 && rest[1] == '-' {
		switch rest[0] {
		case 'C', 'c':
			mod |= tea.ModCtrl
		case 'M', 'm', 'A', 'a':
			mod |= tea.ModAlt
		case 'S', 's':
			mod |= tea.ModShift
		default:
			return tea.KeyPressMsg{}, false
		}
		rest = rest[2:]
	}
	if mod == 0 {
		return tea.KeyPressMsg{}, false
	}
	if code, ok := namedKeys[strings.ToLower(rest)]; ok {
		return tea.KeyPressMsg{Code: code, Mod: mod}, true
	}
	runes := []rune(rest)
	if len(runes) != 1 {
		return tea.KeyPressMsg{}, false
	}
	r := runes[0]
	if mod&tea.ModCtrl != 0 {
		r = []rune(strings.ToLower(string(r)))[0]
	}
	return tea.KeyPressMsg{Code: r, Mod: mod}, true
}

// ApplyKeys feeds key presses to m, running every command they produce to
// completion before the next key. It stops early when a key quits and
// reports whether the model is still running.
func ApplyKeys(m *Model, keys []tea.KeyPressMsg) bool {
	for _, k := range keys {
		_, cmd := m.Update(k)
		if !drive(m, cmd) {
			return false
		}
	}
	return true
}

// drive runs cmd and every command that follows from the messages it yields,
// in order, on the calling goroutine. It returns false when a command quits.
func drive(m *Model, cmd tea.Cmd) bool {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			return false
		default:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
	return true
}
