// Package catalog manages the per-archive SQLite database.
//
// One archive root owns one catalog file. The store hands out a single
// connection handle per run; the archiver is strictly single-writer and a
// flock on the archive root enforces that across processes. Episode
// persistence runs as one transaction so a failed insert never leaves a
// partial fact row. Before any mutating run the catalog is snapshotted,
// compressed, and the compressed copy verified; a failed verification aborts
// the run before the first write.
package catalog
