// Package web provides embedded static assets (CSS, JS) for the public
// pages and the admin interface, served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
