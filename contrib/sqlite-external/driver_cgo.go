//go:build cgo_sqlite

// Registers mattn/go-sqlite3 for the transposition history store.
// core/sqlite picks these constants up when built with -tags cgo_sqlite.

package sqliteexternal

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const (
	// DriverName is passed to sql.Open by core/sqlite.
	DriverName = "sqlite3"

	// DriverType marks the CGO build in sqlite.GetInfo.
	DriverType = "cgo"

	// DriverPackage is the import path of the underlying driver.
	DriverPackage = "github.com/mattn/go-sqlite3"
)
