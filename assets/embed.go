// Package assets embeds files shipped inside the server binary.
package assets

import "embed"

// Migrations holds the SQL migrations applied at startup, under sql/.
//
//go:embed sql/*.sql
var Migrations embed.FS
