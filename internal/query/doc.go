// Package query translates a types.Filter and types.ListOptions into the
// SQL understood by the document backend in internal/sqlite.
//
// Records live in a single table, one row per record, with the record body
// stored as JSON text. Field references become json_extract calls on that
// body; the id field maps to the "table:key" identity of the row.
//
// Every operator goes through a fixed table. An operator missing from the
// table is reported as a types.KindOperatorNotSupported error naming it;
// malformed fields or operands are reported as types.KindQuery errors. The
// whole filter is validated before any text is produced, so a failed build
// returns the zero Select.
//
// Boolean groups are emitted fully parenthesized and in input order. List
// options follow the filter as ORDER BY, then LIMIT, then OFFSET, so the
// same input always yields the same text.
package query
