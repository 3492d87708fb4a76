// Package cache manages the storage root served by cachedir: a directory that
// is itself tagged with CACHEDIR.TAG and holds named cache namespaces, each
// materialized as StoragePath/<name> through cachedir.MkdirAtomicMode so a
// namespace never becomes visible untagged. The HTTP layer and the CLI depend
// on this package instead of touching the filesystem directly.
package cache
