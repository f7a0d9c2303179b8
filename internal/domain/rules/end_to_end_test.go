package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codefmt.dev/pkg/codefmt/internal/adapter"
	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacySource = `// Copyright 2001 Old Corp

package a

import strings "strings"

//region helpers
var max_len = 10   
//endregion

//
func upper(s string) string {
	//trim the input
	return strings.ToUpper(s)[:max_len] 
}
`

const limitSource = `package a

func limit() int { return max_len }
`

func parseProgram(t *testing.T, files map[string]string) *m.Program {
	t.Helper()

	dir := t.TempDir()
	parser := adapter.NewSitterParser()
	program := m.NewProgram()

	for _, name := range []string{"a.go", "b.go"} {
		content, ok := files[name]
		if !ok {
			continue
		}

		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		source := m.Source{Origin: &m.File{FullPath: m.Path(path), ShortPath: m.Path(name)}, Grammar: m.GrammarGo}

		doc, err := parser.Parse(context.Background(), source, []byte(content))
		require.NoError(t, err)
		require.NoError(t, program.Add(doc))
	}

	return program
}

func runDefault(t *testing.T, program *m.Program) domain.PipelineResult {
	t.Helper()

	return runWithHeader(t, program, "Copyright (c) Example")
}

func runWithHeader(t *testing.T, program *m.Program, lines ...string) domain.PipelineResult {
	t.Helper()

	header, err := m.NewHeaderSpec(lines)
	require.NoError(t, err)

	registry, err := domain.BuildRegistry(Default(domain.RuleOptions{Header: header}))
	require.NoError(t, err)

	result, err := domain.NewPipeline(registry, domain.NewExecutor(adapter.NewGoSymbolProvider()), 2).Run(context.Background(), program)
	require.NoError(t, err)

	return result
}

func texts(program *m.Program) map[string]string {
	out := make(map[string]string)
	for _, doc := range program.Documents() {
		out[filepath.Base(string(doc.Path))] = doc.Root.Text()
	}

	return out
}

func TestDefaultRules_GoPackage(t *testing.T) {
	program := parseProgram(t, map[string]string{"a.go": legacySource, "b.go": limitSource})

	result := runDefault(t, program)

	got := texts(program)
	assert.Equal(t, `// Copyright (c) Example

package a

import "strings"

var maxLen = 10

func upper(s string) string {
	// trim the input
	return strings.ToUpper(s)[:maxLen]
}
`, got["a.go"])
	assert.Equal(t, `// Copyright (c) Example

package a

func limit() int { return maxLen }
`, got["b.go"])

	for id, outcome := range result.Files {
		assert.NoError(t, outcome.Err, "document %s", id)
		assert.Contains(t, outcome.Applied, "IdentifierCase", "document %s", id)
	}

	assert.Equal(t, []string{"IdentifierCase"}, result.Global.Applied)

	again := parseProgram(t, got)
	second := runDefault(t, again)

	for id, outcome := range second.Files {
		assert.Empty(t, outcome.Applied, "document %s changed on the second run", id)
	}

	assert.Equal(t, got, texts(again))
}

func TestDefaultRules_IncompletePackageKeepsNames(t *testing.T) {
	program := parseProgram(t, map[string]string{"a.go": legacySource, "b.go": limitSource})

	// b.go stays on disk but is not formatted
	partial := m.NewProgram()
	for _, doc := range program.Documents() {
		if filepath.Base(string(doc.Path)) == "a.go" {
			require.NoError(t, partial.Add(doc))
		}
	}

	runDefault(t, partial)

	assert.Contains(t, texts(partial)["a.go"], "var max_len = 10\n")
}

func TestDefaultRules_HeaderLinesWithTrailingBlanks(t *testing.T) {
	files := map[string]string{"a.go": "package a\n"}

	for run := 0; run < 3; run++ {
		program := parseProgram(t, files)
		runWithHeader(t, program, "Copyright (c) Example", "Licensed under MIT ")
		files = texts(program)
	}

	assert.Equal(t, "// Copyright (c) Example\n// Licensed under MIT\n\npackage a\n", files["a.go"])
}

func TestDefaultRules_SameFieldNameInTwoStructs(t *testing.T) {
	program := parseProgram(t, map[string]string{"a.go": `package a

type user struct{ user_id int }

type order struct{ user_id int }

func total(u user, o order) int { return u.user_id + o.user_id }
`})

	result := runDefault(t, program)

	assert.Empty(t, result.Global.Failures)
	assert.Equal(t, []string{"IdentifierCase"}, result.Global.Applied)
	assert.Equal(t, `// Copyright (c) Example

package a

type user struct{ userID int }

type order struct{ userID int }

func total(u user, o order) int { return u.userID + o.userID }
`, texts(program)["a.go"])
}

func TestDefaultRules_ImportsAndBraces(t *testing.T) {
	program := parseProgram(t, map[string]string{"a.go": `package a

import (
	"strings"
	"fmt"

	"os"
)

func show() {

	fmt.Println(strings.ToUpper(os.Args[0]))
}
`})

	runDefault(t, program)

	assert.Equal(t, `// Copyright (c) Example

package a

import (
	"fmt"
	"strings"

	"os"
)

func show() {
	fmt.Println(strings.ToUpper(os.Args[0]))
}
`, texts(program)["a.go"])
}
