package migrations

import "embed"

// FS embeds the SQL migrations so the server binary can run them standalone.
//
//go:embed *.sql
var FS embed.FS
