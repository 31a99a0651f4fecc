// Package gitrepo wraps local git operations needed to rename repository branches.
package gitrepo
