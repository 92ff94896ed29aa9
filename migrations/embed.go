package migrations

import "embed"

// FS embeds all SQL migration files into the binary so the server runs
// standalone without external migration files.
//
//go:embed *.sql
var FS embed.FS
