// Package sqliteexternal provides the optional CGO SQLite driver.
//
// The history store normally runs on the pure Go driver selected by
// github.com/FocuswithJustin/ChordShift/core/sqlite. Building with
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/chordshift
//
// switches core/sqlite to github.com/mattn/go-sqlite3 through this package,
// which is useful when the history database is shared with other tools
// that expect the reference SQLite library.
package sqliteexternal
