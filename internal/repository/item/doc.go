// Package item implements the flat-file store for item states.
//
// Each item is kept in its own file named after the item (or an alias) under
// a root directory. A file holds exactly one JSON record; storing overwrites
// it and querying reads it back, so only the latest state is retained.
package item
