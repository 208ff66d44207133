// Package database manages the SQLite connection and schema migrations
// for Bookmarkd.
//
// It wraps database/sql with WAL-mode configuration, health checks, and
// an embedded-migration runner. Migration SQL files are compiled into
// the binary via the migrations package so deployments never depend on
// loose files.
package database
