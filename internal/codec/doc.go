// Package codec converts item records to and from their on-disk JSON form.
//
// A record is a single JSON object with the fields name, type, state and
// timestamp. Decode checks the field set against an embedded JSON schema and
// dispatches on the type tag to the matching state parser, falling back to a
// plain string for unknown tags.
package codec
