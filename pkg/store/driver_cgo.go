//go:build cgo

package store

import (
	// mattn/go-sqlite3 is the SQLite driver for cgo builds.
	_ "github.com/mattn/go-sqlite3"
)

// sqliteDriverName selects the registered database/sql driver.
const sqliteDriverName = "sqlite3"
