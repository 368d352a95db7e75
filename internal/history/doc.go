// Package history persists forwarded command lines in SQLite.
//
// The Store manages the database connection, schema initialization, and the
// small set of queries the daemon and CLI need: recording a line as it is
// forwarded, listing recent entries, clearing, and retention pruning. The
// database is an audit trail, not operational state; the daemon works fine
// without it.
package history
