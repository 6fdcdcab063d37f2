// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package docbuild renders a directory of markdown documentation to
// static HTML. It implements the docs side of the pipeline contract:
// when DOCS_VERSIONED is set, output lands in a per-version
// subdirectory so published docs for old releases stay reachable.
//
// Markdown is parsed with goldmark (GitHub Flavored Markdown) and
// fenced code blocks are syntax-highlighted with chroma at build
// time, so the output needs no client-side highlighter.
package docbuild

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// highlightStyle is the chroma style used for all code blocks.
const highlightStyle = "github"

// converterInstance is initialized once and reused. The converter
// configuration never changes and goldmark.Markdown is safe to share.
var (
	converterInstance goldmark.Markdown
	converterOnce     sync.Once
)

func getConverter() goldmark.Markdown {
	converterOnce.Do(func() {
		converterInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(
					util.Prioritized(&codeBlockRenderer{}, 100),
				),
			),
		)
	})
	return converterInstance
}

// codeBlockRenderer replaces goldmark's fenced code block output with
// chroma-highlighted HTML.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	// quick.Highlight falls back to a plaintext lexer for unknown
	// languages, so this only fails on writer errors.
	language := string(block.Language(source))
	if err := quick.Highlight(w, code.String(), language, "html", highlightStyle); err != nil {
		return ast.WalkStop, fmt.Errorf("highlighting %s code block: %w", language, err)
	}
	return ast.WalkSkipChildren, nil
}

// pageTemplate wraps rendered markdown in a complete HTML document.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// Config holds the build parameters.
type Config struct {
	// SourceDir is the directory tree of markdown files.
	SourceDir string

	// OutputDir is the root output directory.
	OutputDir string

	// Version is the version label for this build, used for
	// versioned output and page titles.
	Version string

	// Versioned places output under OutputDir/<Version> instead of
	// OutputDir itself. This is the DOCS_VERSIONED behavior.
	Versioned bool

	// Logger receives per-page progress. If nil, logging is off.
	Logger *slog.Logger
}

// Result summarizes a completed build.
type Result struct {
	// OutputDir is the directory the pages were written to (including
	// the version component when versioned).
	OutputDir string

	// Pages is the number of HTML pages written.
	Pages int
}

// Build renders every .md file under the source directory to a
// matching .html file in the output directory, preserving the
// directory structure. Non-markdown files are copied through
// unchanged so images and stylesheets referenced by the docs survive
// the build.
func Build(cfg Config) (*Result, error) {
	if cfg.SourceDir == "" {
		return nil, fmt.Errorf("docbuild: SourceDir is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("docbuild: OutputDir is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	outputDir := cfg.OutputDir
	if cfg.Versioned {
		if cfg.Version == "" {
			return nil, fmt.Errorf("docbuild: versioned output requires a version")
		}
		outputDir = filepath.Join(outputDir, cfg.Version)
	}

	result := &Result{OutputDir: outputDir}

	err := filepath.WalkDir(cfg.SourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(cfg.SourceDir, path)
		if err != nil {
			return err
		}

		if strings.EqualFold(filepath.Ext(path), ".md") {
			target := filepath.Join(outputDir, strings.TrimSuffix(relative, filepath.Ext(relative))+".html")
			if err := renderPage(path, target, cfg.Version); err != nil {
				return err
			}
			logger.Info("rendered page", "source", relative, "target", target)
			result.Pages++
			return nil
		}

		target := filepath.Join(outputDir, relative)
		return copyFile(path, target)
	})
	if err != nil {
		return nil, fmt.Errorf("docbuild: %w", err)
	}

	logger.Info("docs build complete",
		"output", outputDir,
		"pages", result.Pages,
		"versioned", cfg.Versioned,
	)
	return result, nil
}

// renderPage converts one markdown file to a standalone HTML page.
func renderPage(source, target, version string) error {
	input, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	var body bytes.Buffer
	if err := getConverter().Convert(input, &body); err != nil {
		return fmt.Errorf("converting %s: %w", source, err)
	}

	title := pageTitle(input, source)
	if version != "" {
		title = title + " — " + version
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer file.Close()

	err = pageTemplate.Execute(file, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// The body is goldmark output over trusted in-repo docs, not
		// user input.
		Body: template.HTML(body.String()),
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return file.Close()
}

// pageTitle extracts the first level-one heading, falling back to the
// file name.
func pageTitle(input []byte, source string) string {
	for _, line := range strings.Split(string(input), "\n") {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// copyFile copies a non-markdown asset into the output tree.
func copyFile(source, target string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("copying %s: %w", source, err)
	}
	return nil
}
