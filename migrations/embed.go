// Package migrations embeds the PostgreSQL schema migrations so the server and
// the migrate CLI never depend on the working directory.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
