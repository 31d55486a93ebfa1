// Package migrations holds the SQLite schema for stored table sources.
package migrations

import "embed"

// FS contains the SQL migration files
//
//go:embed *.sql
var FS embed.FS
