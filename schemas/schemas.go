// Package schemas embeds the JSON Schemas that model replies are validated against.
package schemas

import "embed"

// Files holds every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
