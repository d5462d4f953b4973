package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutCalculate(t *testing.T) {
	tests := []struct {
		name           string
		w, h, keyPane  int
		wantKey        int
		wantBodyHeight int
	}{
		{"defaults", 0, 0, 0, DefaultKeyPaneWidth, DefaultWinHeight - 4},
		{"configured width", 120, 40, 50, 50, 36},
		{"detail keeps its minimum", 50, 20, 40, 30, 16},
		{"tiny window splits in half", 24, 6, 40, 12, MinBodyHeight},
		{"key pane minimum", 100, 24, 3, MinKeyPaneWidth, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayoutManager(tt.w, tt.h, tt.keyPane).Calculate()
			assert.Equal(t, tt.wantKey, l.KeyPaneWidth)
			assert.Equal(t, tt.wantBodyHeight, l.BodyHeight)
			assert.Equal(t, l.Width, l.KeyPaneWidth+l.DetailWidth)
		})
	}
}

func TestLayoutInnerSizes(t *testing.T) {
	l := NewLayoutManager(100, 24, 40).Calculate()
	assert.Equal(t, 18, l.ListRows())
	assert.Equal(t, 18, l.DetailRows())
	assert.Equal(t, 38, l.KeyInnerWidth())
	assert.Equal(t, 58, l.DetailInnerWidth())
}

func TestRenderFillsWindow(t *testing.T) {
	m := loadedModel(t, newFakeStore("alpha", "beta"), Options{NoColor: true})
	lines := strings.Split(screen(m), "\n")
	assert.Len(t, lines, 24)
}
