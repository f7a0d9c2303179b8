package controller

import (
	"strings"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff between two versions of path.
func UnifiedDiff(path m.Path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + string(path),
		ToFile:   "b/" + string(path),
		Context:  3,
	})
}

var (
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	hunkColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.Bold)
)

// colorizeDiff colors a unified diff line by line.
func colorizeDiff(diff string) string {
	var b strings.Builder

	for _, line := range strings.SplitAfter(diff, "\n") {
		body := strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			body = headerColor.Sprint(body)
		case strings.HasPrefix(body, "+"):
			body = addedColor.Sprint(body)
		case strings.HasPrefix(body, "-"):
			body = removedColor.Sprint(body)
		case strings.HasPrefix(body, "@@"):
			body = hunkColor.Sprint(body)
		}

		b.WriteString(body)
		b.WriteString(line[len(strings.TrimSuffix(line, "\n")):])
	}

	return b.String()
}
