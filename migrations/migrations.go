// Package migrations embeds the goose SQL migrations for the organizations
// directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
