package domain

import (
	"testing"

	"codefmt.dev/pkg/codefmt/internal/grammar"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifier(t *testing.T, g m.Grammar) TriviaClassifier {
	t.Helper()

	c, ok := grammar.ByName(g)
	require.True(t, ok)

	return c
}

func header(t *testing.T, lines ...string) m.HeaderSpec {
	t.Helper()

	h, err := m.NewHeaderSpec(lines)
	require.NoError(t, err)

	return h
}

func comment(text string) m.Trivia { return m.Trivia{Kind: m.TriviaLineComment, Text: text} }

func newline() m.Trivia { return m.Trivia{Kind: m.TriviaNewLine, Text: "\n"} }

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name    string
		leading m.TriviaList
		header  []string
		want    string
		changed bool
	}{
		{
			name:    "disabled",
			leading: m.TriviaList{comment("// Copyright Old")},
			want:    "// Copyright Old",
		},
		{
			name:    "insert into empty file",
			header:  []string{"Copyright (c) Example", "All rights reserved."},
			want:    "// Copyright (c) Example\n// All rights reserved.\n\n",
			changed: true,
		},
		{
			name:    "replace copyright block",
			leading: m.TriviaList{comment("// Copyright 2019 Old Corp"), newline(), comment("// Licensed under MIT"), newline(), newline()},
			header:  []string{"Copyright (c) Example"},
			want:    "// Copyright (c) Example\n\n",
			changed: true,
		},
		{
			name:    "keep unrelated comment",
			leading: m.TriviaList{comment("// Package a does things."), newline()},
			header:  []string{"Copyright (c) Example"},
			want:    "// Copyright (c) Example\n\n// Package a does things.\n",
			changed: true,
		},
		{
			name:    "already present",
			leading: m.TriviaList{comment("// Copyright (c) Example"), newline(), newline(), comment("// Package a."), newline()},
			header:  []string{"Copyright (c) Example"},
			want:    "// Copyright (c) Example\n\n// Package a.\n",
		},
		{
			name:    "blank lines before the block",
			leading: m.TriviaList{newline(), newline(), comment("// copyright someone"), newline()},
			header:  []string{"Copyright (c) Example"},
			want:    "// Copyright (c) Example\n\n",
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := NormalizeHeader(tt.leading, header(t, tt.header...), classifier(t, m.GrammarGo))

			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, out.Text())

			if !changed {
				assert.Equal(t, tt.leading, out)
			}
		})
	}
}

func TestNormalizeHeader_Idempotent(t *testing.T) {
	c := classifier(t, m.GrammarGo)
	h := header(t, "Copyright (c) Example", "SPDX-License-Identifier: MIT")

	inputs := []m.TriviaList{
		nil,
		{comment("// Copyright 2001"), newline()},
		{comment("// Package x"), newline(), newline()},
	}

	for _, in := range inputs {
		once, _ := NormalizeHeader(in, h, c)
		twice, changed := NormalizeHeader(once, h, c)

		assert.False(t, changed)
		assert.Equal(t, once.Text(), twice.Text())
	}
}

func TestNormalizeHeader_CrossGrammar(t *testing.T) {
	h := header(t, "Copyright (c) Example")

	tests := []struct {
		grammar m.Grammar
		old     string
		want    string
	}{
		{m.GrammarGo, "// Copyright Old", "// Copyright (c) Example\n\n"},
		{m.GrammarCSharp, "// Copyright Old", "// Copyright (c) Example\n\n"},
		{m.GrammarJava, "// Copyright Old", "// Copyright (c) Example\n\n"},
		{m.GrammarJavaScript, "// Copyright Old", "// Copyright (c) Example\n\n"},
		{m.GrammarPython, "# Copyright Old", "# Copyright (c) Example\n\n"},
		{m.GrammarVisualBasic, "' Copyright Old", "' Copyright (c) Example\n\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.grammar), func(t *testing.T) {
			out, changed := NormalizeHeader(m.TriviaList{comment(tt.old), newline()}, h, classifier(t, tt.grammar))

			require.True(t, changed)
			assert.Equal(t, tt.want, out.Text())
		})
	}
}

func TestNormalizeHeader_DoesNotModifyInput(t *testing.T) {
	in := m.TriviaList{comment("// Copyright Old"), newline()}
	before := in.Clone()

	_, changed := NormalizeHeader(in, header(t, "New"), classifier(t, m.GrammarGo))

	require.True(t, changed)
	assert.Equal(t, before, in)
}

func TestNormalizeHeader_KeepsLineEnding(t *testing.T) {
	crlf := m.Trivia{Kind: m.TriviaNewLine, Text: "\r\n"}
	in := m.TriviaList{comment("// Copyright Old"), crlf, crlf}

	out, changed := NormalizeHeader(in, header(t, "Copyright (c) Example", "Licensed under MIT"), classifier(t, m.GrammarCSharp))

	require.True(t, changed)
	assert.Equal(t, "// Copyright (c) Example\r\n// Licensed under MIT\r\n\r\n", out.Text())
}

func TestNormalizeHeader_BlanksAroundHeaderLines(t *testing.T) {
	c := classifier(t, m.GrammarGo)
	h := header(t, "Copyright (c) Example ", "  Licensed under MIT\t")

	once, changed := NormalizeHeader(nil, h, c)
	require.True(t, changed)
	assert.Equal(t, "// Copyright (c) Example\n// Licensed under MIT\n\n", once.Text())

	twice, changed := NormalizeHeader(once, h, c)
	assert.False(t, changed)
	assert.Equal(t, once.Text(), twice.Text())
}
