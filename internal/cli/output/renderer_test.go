package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_NonFileIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestHeader(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)
	r.Header(2, "Passes")
	assert.Equal(t, "## Passes\n", out.String())

	// Without a terminal styles carry no escape codes.
	out.Reset()
	r = NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeText)
	r.Header(1, "Passes")
	assert.Equal(t, "Passes\n", out.String())
}

func TestMessages(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Success("done")
	r.Warning("careful")
	r.Error("broken")

	assert.Equal(t, "✓ done\n", out.String())
	assert.Contains(t, errOut.String(), "! careful\n")
	assert.Contains(t, errOut.String(), "✗ broken\n")
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(ConvertSummary{Total: 2, Converted: 1, Failed: 1}))
	assert.JSONEq(t, `{"total":2,"converted":1,"failed":1}`, out.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "- **key**: value", FormatKeyValue("key", "value"))
	assert.Equal(t, "```kotlin\nval x = 1\n```", FormatCode("kotlin", "val x = 1"))
	assert.Equal(t, "```kotlin\nval x = 1\n```", FormatCode("kotlin", "val x = 1\n"))
}
