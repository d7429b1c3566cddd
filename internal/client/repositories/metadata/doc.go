// Package metadata provides the local key/value persistence used by giftswap.
//
// Two implementations satisfy Repository:
//
//   - SQLiteRepository: rows of the "metadata" table (key TEXT PRIMARY KEY,
//     value BLOB) accessed through dbx.DBTX, so it works on *sql.DB and *sql.Tx.
//   - BadgerRepository: keys of an embedded BadgerDB instance.
//
// Both treat a missing key as (nil, nil) on Get and make Delete idempotent.
//
// Typical usage
//
//	repo := metadata.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "matchesHistory", blob)
//	blob, _ = repo.Get(ctx, "matchesHistory")
package metadata
