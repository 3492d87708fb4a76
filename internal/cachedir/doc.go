// Package cachedir implements the Cache Directory Tagging convention: a
// CACHEDIR.TAG file carrying a fixed signature marks a directory as disposable
// cache data that backup and archival tools may skip. Besides probing and
// writing the tag, the package can materialize a tagged directory atomically:
// the directory is staged next to its final location, tagged there, and then
// published with a single rename so it is never observable untagged.
package cachedir
