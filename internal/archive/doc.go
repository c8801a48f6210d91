// Package archive drives the per-show reconciliation loop: scanning a
// bounded window of candidate page indices above the last archived index,
// assembling episode descriptors, acquiring assets, and persisting each
// episode in the catalog. Execution is strictly sequential; one show at a
// time, one episode at a time, in index order.
package archive
