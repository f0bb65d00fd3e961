// Package cache persists past aggregation results on disk. Every saved
// session is one JSON payload file plus a lightweight record in a single
// index file, with retention enforced by age, entry-count and total-size
// bounds followed by an orphan-file sweep.
package cache
