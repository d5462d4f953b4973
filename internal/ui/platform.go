package ui

import (
	"github.com/atotto/clipboard"
)

// copyToClipboardFn is the active clipboard implementation. Tests replace it
// via StubPlatformActions to prevent side effects.
var copyToClipboardFn = clipboard.WriteAll

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubPlatformActions replaces the clipboard with fn (a no-op when nil) and
// returns a restore function.
func StubPlatformActions(fn ...func(string) error) (restore func()) {
	orig := copyToClipboardFn
	copyToClipboardFn = func(string) error { return nil }
	if len(fn) > 0 && fn[0] != nil {
		copyToClipboardFn = fn[0]
	}
	return func() {
		copyToClipboardFn = orig
	}
}
