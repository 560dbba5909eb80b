// Package migrations embeds the SQL schema migrations so binaries run without the source tree.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
