// Package docs embeds the user documentation rendered by the docs command.
package docs

import "embed"

//go:embed *.md
var FS embed.FS
