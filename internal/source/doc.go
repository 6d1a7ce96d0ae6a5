// Package source validates what the operator asked for before anything on
// disk is touched: the remote URL, the include/exclude filter paths, the
// snapshot destination, and the requirement that roll runs from the root of
// the consuming repository.
package source
