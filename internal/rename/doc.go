// Package rename implements the batch default-branch rename workflow: it
// collects the eligible repositories of a GitHub owner, migrates each one from
// the old default branch to the new one, and reports the aggregated outcome.
package rename
