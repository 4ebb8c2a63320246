// Package exporter renders the derived chart series as downloadable CSV and
// XLSX documents. The HTTP layer streams them to the client; the snapshot
// command writes the same documents to disk.
package exporter
