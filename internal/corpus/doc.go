// Package corpus writes accepted caption intervals to the on-disk corpus and
// tracks them in a SQLite manifest.
//
// Layout under the corpus root, keyed by content key kk...:
//
//	wav/<kk>/<key>.wav
//	txt/<kk>/<key>.txt
//	metadata/<kk>/<key>.json
//	manifest.db
//
// A record whose wav and txt already exist is skipped, so re-running a source
// never duplicates data. Writers serialise on a lock file in the root.
package corpus
