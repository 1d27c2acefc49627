//go:build !cgo

package store

import (
	// modernc.org/sqlite is the pure-Go SQLite driver for non-cgo builds.
	_ "modernc.org/sqlite"
)

// sqliteDriverName selects the registered database/sql driver.
const sqliteDriverName = "sqlite"
