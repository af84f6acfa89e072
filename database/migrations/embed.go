// Package migrations embeds the index migrations applied by cmd/migrate.
package migrations

import "embed"

//go:embed *.json
var FS embed.FS
