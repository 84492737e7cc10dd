// Package migrations embeds SQL migration files for the SQLite stores.
package migrations

import "embed"

// FS contains the metadata database migrations embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

// VectorFS contains the per-base vector database migrations under vectors/.
//
//go:embed vectors/*.sql
var VectorFS embed.FS
