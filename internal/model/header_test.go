package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeaderSpec_RejectsLineBreaks(t *testing.T) {
	_, err := NewHeaderSpec([]string{"ok", "bad\nline"})

	require.ErrorIs(t, err, ErrHeaderLineBreak)
}

func TestNewHeaderSpec_TrimsBlanks(t *testing.T) {
	h, err := NewHeaderSpec([]string{"Copyright (c) Example ", "\tLicensed under MIT  ", "   "})
	require.NoError(t, err)

	assert.Equal(t, []string{"Copyright (c) Example", "Licensed under MIT", ""}, h.Lines())
	assert.True(t, h.Matches([]string{"Copyright (c) Example", "Licensed under MIT", ""}))
}

func TestHeaderSpec_Matches(t *testing.T) {
	h, err := NewHeaderSpec([]string{"Copyright (c) Example", "Licensed under MIT"})
	require.NoError(t, err)

	assert.True(t, h.Matches([]string{"Copyright (c) Example", "Licensed under MIT"}))
	assert.False(t, h.Matches([]string{"Copyright (c) Example"}))
	assert.False(t, h.IsEmpty())
}

func TestStripCommentDelimiter(t *testing.T) {
	assert.Equal(t, "Copyright", StripCommentDelimiter("//   Copyright"))
	assert.Equal(t, "Copyright", StripCommentDelimiter("' Copyright"))
	assert.Equal(t, "Copyright", StripCommentDelimiter("# Copyright"))
	assert.Equal(t, "Copyright", StripCommentDelimiter("Copyright"))
}

func TestParseHeaderText(t *testing.T) {
	lines := ParseHeaderText("// Copyright (c) Example\r\n// Licensed under MIT\n\n")

	assert.Equal(t, []string{"Copyright (c) Example", "Licensed under MIT"}, lines)
}
