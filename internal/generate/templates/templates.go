// Package templates holds the text templates used by the generators.
package templates

import "embed"

//go:embed *.tmpl
var FS embed.FS
