// Package migrations embeds the privacy service schema.
package migrations

import "embed"

// FS holds the *.up.sql migration files.
//
//go:embed *.up.sql
var FS embed.FS
