package rename

import (
	"errors"
	"strings"

	"github.com/lfdebrux/github-branch-renamer/internal/execshell"
)

// FailureCategory classifies a migration step failure for the run summary.
type FailureCategory string

// Failure category enumerations.
const (
	FailureCategoryNetwork  FailureCategory = "network"
	FailureCategoryAuth     FailureCategory = "auth"
	FailureCategoryNotFound FailureCategory = "not_found"
	FailureCategoryConflict FailureCategory = "conflict"
	FailureCategoryLocalVCS FailureCategory = "local_vcs"
)

var networkFailureMarkers = []string{
	"could not resolve host",
	"connection refused",
	"connection reset",
	"timed out",
	"timeout",
	"network is unreachable",
	"tls handshake",
}

var authFailureMarkers = []string{
	"http 401",
	"http 403",
	"authentication failed",
	"bad credentials",
	"permission denied",
	"must have admin rights",
	"gh auth login",
}

var notFoundFailureMarkers = []string{
	"http 404",
	"not found",
	"does not exist",
	"unknown revision",
}

var conflictFailureMarkers = []string{
	"http 409",
	"http 422",
	"already exists",
	"non-fast-forward",
	"rejected",
	"stale info",
	"reference update failed",
}

// ClassifyFailure maps a step error onto a failure category using the command
// failure surface: stderr markers first, then the command kind as a fallback
// (git failures without a recognizable marker are local VCS problems, GitHub
// CLI failures are treated as transport problems).
func ClassifyFailure(stepError error) FailureCategory {
	var commandFailure execshell.CommandFailedError
	if !errors.As(stepError, &commandFailure) {
		return FailureCategoryLocalVCS
	}

	failureText := strings.ToLower(commandFailure.Result.StandardError + " " + commandFailure.Result.StandardOutput)
	switch {
	case containsAnyMarker(failureText, authFailureMarkers):
		return FailureCategoryAuth
	case containsAnyMarker(failureText, notFoundFailureMarkers):
		return FailureCategoryNotFound
	case containsAnyMarker(failureText, conflictFailureMarkers):
		return FailureCategoryConflict
	case containsAnyMarker(failureText, networkFailureMarkers):
		return FailureCategoryNetwork
	case commandFailure.Command.Name == execshell.CommandGitHub:
		return FailureCategoryNetwork
	default:
		return FailureCategoryLocalVCS
	}
}

func containsAnyMarker(failureText string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(failureText, marker) {
			return true
		}
	}
	return false
}
