// Package roll runs one snapshot: validate the request, fetch the source,
// strip history, flatten nested vendor trees, prune to the includes, apply
// the excludes and record provenance. Stages run strictly in that order and
// the first failure stops the run.
package roll
