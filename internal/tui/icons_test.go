package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessIconIsUnstyledWhenNotColorized(t *testing.T) {
	assert.Equal(t, "✅", SuccessIcon(false))
}

func TestErrorIconIsUnstyledWhenNotColorized(t *testing.T) {
	assert.Equal(t, "❌", ErrorIcon(false))
}

func TestWarningIconIsUnstyledWhenNotColorized(t *testing.T) {
	assert.Equal(t, "⚠️", WarningIcon(false))
}

func TestSuccessIconIsStyledWhenColorized(t *testing.T) {
	assert.Equal(t, SuccessStyle.Render("✅"), SuccessIcon(true))
}

func TestErrorIconIsStyledWhenColorized(t *testing.T) {
	assert.Equal(t, ErrorStyle.Render("❌"), ErrorIcon(true))
}

func TestWarningIconIsStyledWhenColorized(t *testing.T) {
	assert.Equal(t, WarningStyle.Render("⚠️"), WarningIcon(true))
}

func TestDim(t *testing.T) {
	assert.Equal(t, "detail", Dim("detail", false))
	assert.Equal(t, PlaceholderStyle.Render("detail"), Dim("detail", true))
}
