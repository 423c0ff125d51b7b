package migrations

import "embed"

// Files holds the schema migrations so binaries run without a source checkout.
//
//go:embed *.sql
var Files embed.FS
