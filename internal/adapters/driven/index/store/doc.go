// Package store builds in-memory vector indexes and persists them to
// disk. An index is stored as two coupled artifacts: a SQLite database
// holding the passages and their embedding vectors, and a TOML record
// of the embedding configuration the vectors were produced under.
package store
