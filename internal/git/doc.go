// Package git implements the Source Fetcher: it obtains a full copy of a
// remote repository, pins the working tree to a requested revision with a
// hard reset, and reports the concrete commit hash that was realized.
//
// Two implementations share the Fetcher interface:
//   - GoGitFetcher runs in-process on top of go-git
//   - CommandFetcher drives the git binary with an explicit environment
//
// Every failure is returned as a FetchFailed classified error.
package git
