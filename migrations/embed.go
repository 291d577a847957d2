// Package migrations ships the SQL schema files with the binary.
package migrations

import "embed"

// Files holds the ordered *.sql migrations
//
//go:embed *.sql
var Files embed.FS
