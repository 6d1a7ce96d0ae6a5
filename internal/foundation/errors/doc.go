// Package errors provides the classified error type used across roll.
//
// Every fatal condition of a run is a ClassifiedError whose category maps onto
// the operator-facing taxonomy:
//   - CategoryValidation: InvalidArgument (bad URL, absolute filter path)
//   - CategoryPrecondition: PreconditionFailed (not at a repository root)
//   - CategoryGit: FetchFailed (clone, reset or revision lookup failed)
//   - CategoryFileSystem: the snapshot tree could not be mutated
//
// The CLIErrorAdapter is the single place where errors become exit codes.
//
// Example usage:
//
//	err := errors.FetchFailed("git clone failed").
//		WithCause(runErr).
//		WithContext("url", rawURL).
//		WithContext("exit_status", 128).
//		Build()
package errors
