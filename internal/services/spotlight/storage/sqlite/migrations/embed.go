package migrations

import "embed"

// FS contains embedded SQLite migrations for spotlight storage.
//
//go:embed *.sql
var FS embed.FS
