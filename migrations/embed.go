// Package migrations holds the goose SQL migrations compiled into every binary.
package migrations

import "embed"

// FS contains the *.sql migrations at its root.
//
//go:embed *.sql
var FS embed.FS
