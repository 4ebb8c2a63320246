// Package tabular provides the shared table model used by every data source.
// A Table is an immutable snapshot of one fetched sheet: normalized column
// names in source order plus raw string cells. Typed access (floats, dates)
// goes through the tolerant coercion helpers; derivation lives in the dataset
// package.
package tabular
