// Package db holds the goose migrations for every supported store.
package db

import "embed"

// Migrations contains migrations/postgres and migrations/sqlite.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var Migrations embed.FS
