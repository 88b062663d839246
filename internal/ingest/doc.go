// Package ingest decodes row-oriented supplier data and resolves semantic
// columns from schema-less headers.
//
// Input tables carry arbitrary column names that vary in case, spacing, and
// naming convention ("LS Name", "ls_supplier_name", "Supplier (LS)"). Row
// lookup applies a two-pass strategy: an exact case-folded match first, then a
// fuzzy containment match over alphanumeric-stripped names. Ingest is the only
// place that imposes meaning on specific fields; everything downstream works
// with the generic Row shape.
package ingest
