// Package githubcli wraps the GitHub CLI with typed operations used by the
// branch rename workflow: repository listing, default branch updates, and pull
// request retargeting.
package githubcli
