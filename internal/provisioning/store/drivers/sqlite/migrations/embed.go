// Package migrations holds the embedded SQL migrations for the sqlite
// driver. golang-migrate applies them through an iofs source at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
