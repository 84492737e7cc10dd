// Package sqlite provides SQLite-backed implementations of the storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It provides two kinds of database:
//
//   - Store: the metadata database holding the document base registry (BaseStore)
//   - Connector: one vector database per document base holding chunk rows (VectorStore)
//
// # Schema
//
// Both schemas are managed through versioned migrations stored in the
// migrations/ directory (vector migrations live in migrations/vectors/).
// Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the metadata database is stored at ~/.docbase/data/metadata.db
// and each base's vectors at ~/.docbase/data/docbases/<uuid>/vectors.db.
//
// # Thread Safety
//
// Store operations are thread-safe. A VectorDB handle holds at most one open
// transaction and must not be shared between goroutines.
package sqlite
