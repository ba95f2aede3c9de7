package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_Plain(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "Welcome")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("-", 80), lines[0])
	assert.Equal(t, "Welcome", lines[1])
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, "🤖", Speaker(&buf, "🤖", "#818cf8"))
}

func TestRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("Prices start at **3.2 million**.")
	require.NoError(t, err)
	assert.Contains(t, out, "3.2 million")
}
