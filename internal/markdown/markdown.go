// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post content into HTML using goldmark.
package markdown

import (
	"bytes"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // Tables, fenced code blocks, strikethrough, autolinks
		highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // Heading anchors for in-page navigation
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // Single newlines become <br>, matching how authors write post content
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML in the source is
// dropped by goldmark's default renderer, so post content cannot smuggle
// markup past the templates.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
