// Package adapter contains the infrastructure the formatting workflow runs on:
// parsing, file access, symbols, caching and reports.
package adapter

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"codefmt.dev/pkg/codefmt/internal/grammar"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/minio/highwayhash"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// recursiveSuffix marks a Go-style recursive pattern such as "./...".
const recursiveSuffix = "..."

// hashKey is the fixed highwayhash key; digests only need to be stable.
var hashKey = []byte("codefmt-content-digest-key-00032")

// skippedDirs are never descended into by recursive patterns.
var skippedDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
}

// SourceFilter drops discovered files.
type SourceFilter struct {
	// Exclude holds regular expressions matched against the path.
	Exclude []string
	// Ignore holds doublestar globs matched against the slash-separated path.
	Ignore []string
}

// SourceFSAdapter hides file access from the workflow.
type SourceFSAdapter interface {
	// Get resolves path patterns into sources with a known grammar. "dir/..." is
	// recursive, "dir" lists one directory and a file path names one file.
	Get(ctx context.Context, patterns []m.Path, filter SourceFilter) ([]m.Source, error)
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)
	WriteFile(ctx context.Context, path m.Path, content []byte) error
	// Hash returns the content digest used for change detection.
	Hash(content []byte) (string, error)
}

// LocalSourceFSAdapter implements SourceFSAdapter on viant/afs.
type LocalSourceFSAdapter struct {
	fs afs.Service
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{fs: afs.New()}
}

// Get walks every pattern and returns the matching sources in discovery order,
// without duplicates.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, patterns []m.Path, filter SourceFilter) ([]m.Source, error) {
	excludes, err := compileExcludes(filter.Exclude)
	if err != nil {
		return nil, err
	}

	for _, g := range filter.Ignore {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid ignore pattern %q", g)
		}
	}

	if len(patterns) == 0 {
		patterns = []m.Path{"./" + recursiveSuffix}
	}

	var (
		sources []m.Source
		seen    = make(map[string]bool)
	)

	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		short := shortPath(abs)
		if seen[abs] || skip(short, excludes, filter.Ignore) {
			return nil
		}

		g, ok := grammar.ForPath(path)
		if !ok {
			return nil
		}

		seen[abs] = true
		sources = append(sources, m.Source{
			Origin:  &m.File{FullPath: m.Path(abs), ShortPath: m.Path(short)},
			Grammar: g,
		})

		return nil
	}

	for _, pattern := range patterns {
		if err := a.collect(ctx, string(pattern), add); err != nil {
			slog.Error("Failed to collect sources", "pattern", pattern, "error", err)
			return nil, fmt.Errorf("collect %s: %w", pattern, err)
		}
	}

	return sources, nil
}

func (a *LocalSourceFSAdapter) collect(ctx context.Context, pattern string, add func(string) error) error {
	root, recursive := strings.CutSuffix(pattern, recursiveSuffix)
	if recursive {
		root = strings.TrimSuffix(root, "/")
		if root == "" {
			root = "."
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return add(root)
	}

	dir, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	var visitor storage.OnVisit = func(_ context.Context, _, parent string, info os.FileInfo, _ io.Reader) (bool, error) {
		if info.IsDir() {
			return recursive && !skipDir(info.Name()), nil
		}

		if err := add(filepath.Join(dir, filepath.FromSlash(parent), info.Name())); err != nil {
			return false, err
		}

		return true, nil
	}

	return a.fs.Walk(ctx, dir, visitor)
}

// ReadFile loads a file.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	return a.fs.DownloadWithURL(ctx, string(path))
}

// WriteFile replaces a file's content, keeping its permissions.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte) error {
	mode := os.FileMode(0o644)

	if obj, err := a.fs.Object(ctx, string(path)); err == nil {
		mode = obj.Mode().Perm()
	}

	return a.fs.Upload(ctx, string(path), mode, bytes.NewReader(content))
}

// Hash returns the hex highwayhash-256 digest of content.
func (a *LocalSourceFSAdapter) Hash(content []byte) (string, error) {
	h, err := highwayhash.New(hashKey)
	if err != nil {
		return "", err
	}

	if _, err := h.Write(content); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

func skip(path string, excludes []*regexp.Regexp, ignores []string) bool {
	slashed := filepath.ToSlash(filepath.Clean(path))

	for _, re := range excludes {
		if re.MatchString(slashed) {
			return true
		}
	}

	for _, g := range ignores {
		if ok, _ := doublestar.Match(g, slashed); ok {
			return true
		}

		if ok, _ := doublestar.Match(g, filepath.Base(slashed)); ok {
			return true
		}
	}

	return false
}

func skipDir(name string) bool {
	return skippedDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func shortPath(abs string) string {
	wd, err := os.Getwd()
	if err != nil {
		return abs
	}

	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}

	return rel
}
