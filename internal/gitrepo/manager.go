package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lfdebrux/github-branch-renamer/internal/execshell"
)

const (
	cloneSubcommandConstant       = "clone"
	branchSubcommandConstant      = "branch"
	pushSubcommandConstant        = "push"
	remoteSubcommandConstant      = "remote"
	setHeadSubcommandConstant     = "set-head"
	noTrackFlagConstant           = "--no-track"
	setUpstreamFlagConstant       = "--set-upstream"
	deleteFlagConstant            = "--delete"
	originRemoteNameConstant      = "origin"
	remoteReferenceSeparator      = "/"
	cloneOperationNameConstant    = "clone repository"
	branchOperationNameConstant   = "create branch"
	pushOperationNameConstant     = "push branch"
	setHeadOperationNameConstant  = "update remote head"
	deleteOperationNameConstant   = "delete remote branch"
	operationErrorTemplate        = "%s: %v"
	executorRequiredMessage       = "git executor must not be nil"
	argumentRequiredTemplateConst = "%s must not be empty"
)

// GitExecutor runs git commands on behalf of the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// OperationError wraps a git command failure with the operation that triggered it.
type OperationError struct {
	Operation string
	Cause     error
}

// Error describes the failed operation.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplate, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// RepositoryManager performs the local git operations used during a branch rename.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a repository manager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, errors.New(executorRequiredMessage)
	}
	return &RepositoryManager{executor: executor}, nil
}

// CloneRepository clones the remote located at cloneURL into destinationPath.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, cloneURL string, destinationPath string) error {
	if validationError := requireValues(map[string]string{"clone url": cloneURL, "destination path": destinationPath}); validationError != nil {
		return validationError
	}
	details := execshell.CommandDetails{Arguments: []string{cloneSubcommandConstant, cloneURL, destinationPath}}
	return manager.run(executionContext, cloneOperationNameConstant, details)
}

// CreateBranchFromRemote creates newBranch at the commit referenced by the
// remote oldBranch without configuring upstream tracking.
func (manager *RepositoryManager) CreateBranchFromRemote(executionContext context.Context, repositoryPath string, newBranch string, oldBranch string) error {
	if validationError := requireValues(map[string]string{"repository path": repositoryPath, "new branch": newBranch, "old branch": oldBranch}); validationError != nil {
		return validationError
	}
	remoteReference := originRemoteNameConstant + remoteReferenceSeparator + oldBranch
	details := execshell.CommandDetails{
		Arguments:        []string{branchSubcommandConstant, noTrackFlagConstant, newBranch, remoteReference},
		WorkingDirectory: repositoryPath,
	}
	return manager.run(executionContext, branchOperationNameConstant, details)
}

// PushBranchWithUpstream publishes branchName to origin and records it as the
// branch upstream.
func (manager *RepositoryManager) PushBranchWithUpstream(executionContext context.Context, repositoryPath string, branchName string) error {
	if validationError := requireValues(map[string]string{"repository path": repositoryPath, "branch": branchName}); validationError != nil {
		return validationError
	}
	details := execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, setUpstreamFlagConstant, originRemoteNameConstant, branchName},
		WorkingDirectory: repositoryPath,
	}
	return manager.run(executionContext, pushOperationNameConstant, details)
}

// SetRemoteHead points the local origin HEAD reference at branchName.
func (manager *RepositoryManager) SetRemoteHead(executionContext context.Context, repositoryPath string, branchName string) error {
	if validationError := requireValues(map[string]string{"repository path": repositoryPath, "branch": branchName}); validationError != nil {
		return validationError
	}
	details := execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, setHeadSubcommandConstant, originRemoteNameConstant, branchName},
		WorkingDirectory: repositoryPath,
	}
	return manager.run(executionContext, setHeadOperationNameConstant, details)
}

// DeleteRemoteBranch removes branchName from origin.
func (manager *RepositoryManager) DeleteRemoteBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if validationError := requireValues(map[string]string{"repository path": repositoryPath, "branch": branchName}); validationError != nil {
		return validationError
	}
	details := execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, originRemoteNameConstant, deleteFlagConstant, branchName},
		WorkingDirectory: repositoryPath,
	}
	return manager.run(executionContext, deleteOperationNameConstant, details)
}

func (manager *RepositoryManager) run(executionContext context.Context, operationName string, details execshell.CommandDetails) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return OperationError{Operation: operationName, Cause: executionError}
	}
	return nil
}

func requireValues(values map[string]string) error {
	for fieldName, fieldValue := range values {
		if len(strings.TrimSpace(fieldValue)) == 0 {
			return fmt.Errorf(argumentRequiredTemplateConst, fieldName)
		}
	}
	return nil
}
