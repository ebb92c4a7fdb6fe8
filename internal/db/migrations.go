package db

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationFiles NNNNNN_name.(up|down).sql dosyalarını kök dizinde döner
func MigrationFiles() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err) // embed path sabit, olmaz
	}
	return sub
}
