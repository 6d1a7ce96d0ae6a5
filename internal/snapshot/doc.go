// Package snapshot turns a freshly fetched working copy into a vendored
// snapshot: it strips VCS history, flattens nested vendor trees, prunes the
// tree down to the requested include roots, removes exclude roots and records
// provenance.
//
// Every operation works on a snapshot root that the caller owns exclusively.
// Non-fatal findings are returned as Warning values; only filesystem failures
// are errors.
package snapshot
