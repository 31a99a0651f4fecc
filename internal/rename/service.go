package rename

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lfdebrux/github-branch-renamer/internal/githubcli"
	"github.com/lfdebrux/github-branch-renamer/internal/gitrepo"
)

const (
	pullRequestRetargetLimitConstant = 250

	repositoryFullNameTemplateConstant = "%s/%s"

	planPushMessageConstant          = "PLAN-OK: would push %s to origin and set it as upstream: %s\n"
	planRemoteHeadMessageConstant    = "PLAN-OK: would point origin HEAD at %s: %s\n"
	planDefaultBranchMessageConstant = "PLAN-OK: would set default branch to %s: %s\n"
	planRetargetMessageConstant      = "PLAN-OK: would retarget PR #%d (%s) to %s: %s\n"
	planDeleteMessageConstant        = "PLAN-OK: would delete origin/%s: %s\n"
	renamedMessageConstant           = "Renamed %s: default branch is now %s\n"
	renameFailedMessageConstant      = "ERROR: rename failed for %s at step %s\n"
	deleteFailedMessageConstant      = "ERROR: old branch deletion failed for %s\n"
	retargetedMessageConstant        = "Retargeted PR #%d (%s) to %s: %s\n"

	pullRequestListWarningTemplateConstant     = "listing open pull requests failed: %v"
	pullRequestRetargetWarningTemplateConstant = "retargeting pull request #%d failed: %v"

	logMessageMigrationStepFailedConstant  = "Migration step failed"
	logMessageOldBranchDeleteFailedConstant = "Old branch deletion failed"
	logFieldRepositoryConstant             = "repository"
	logFieldStepConstant                   = "step"
	logFieldCategoryConstant               = "category"

	serviceRepositoryManagerRequiredMessage = "repository manager must not be nil"
	serviceGitHubClientRequiredMessage      = "github client must not be nil"
	serviceWorkspaceRequiredMessage         = "workspace must not be nil"
)

// MigrationStep names one step of the per-repository state machine.
type MigrationStep string

// Migration step enumerations.
const (
	StepClone               MigrationStep = "clone"
	StepCreateBranch        MigrationStep = "create_branch"
	StepPushBranch          MigrationStep = "push_branch"
	StepSetRemoteHead       MigrationStep = "set_remote_head"
	StepUpdateDefaultBranch MigrationStep = "update_default_branch"
	StepDeleteOldBranch     MigrationStep = "delete_old_branch"
)

// MigrationClassification describes the final state of one repository migration.
type MigrationClassification string

// Migration classification enumerations.
const (
	MigrationSucceeded      MigrationClassification = "succeeded"
	MigrationFailedRename   MigrationClassification = "failed_rename"
	MigrationFailedDeletion MigrationClassification = "failed_deletion"
)

// MigrationOutcome reports what happened to a single repository.
type MigrationOutcome struct {
	Repository             string
	Classification         MigrationClassification
	FailedStep             MigrationStep
	Category               FailureCategory
	Warnings               []string
	RetargetedPullRequests []int
}

// BranchRepositoryManager covers the local git operations the migrator performs.
type BranchRepositoryManager interface {
	CloneRepository(executionContext context.Context, cloneURL string, destinationPath string) error
	CreateBranchFromRemote(executionContext context.Context, repositoryPath string, newBranch string, oldBranch string) error
	PushBranchWithUpstream(executionContext context.Context, repositoryPath string, branchName string) error
	SetRemoteHead(executionContext context.Context, repositoryPath string, branchName string) error
	DeleteRemoteBranch(executionContext context.Context, repositoryPath string, branchName string) error
}

// HostingClient covers the GitHub operations the migrator performs.
type HostingClient interface {
	SetDefaultBranch(executionContext context.Context, repository string, branchName string) error
	ListPullRequests(executionContext context.Context, repository string, options githubcli.PullRequestListOptions) ([]githubcli.PullRequest, error)
	UpdatePullRequestBase(executionContext context.Context, repository string, pullRequestNumber int, baseBranch string) error
}

// CloneWorkspace resolves clone destinations inside the scratch tree.
type CloneWorkspace interface {
	RepositoryPath(repositoryName string) string
}

// ServiceDependencies enumerates collaborators required by the migration service.
type ServiceDependencies struct {
	Logger            *zap.Logger
	RepositoryManager BranchRepositoryManager
	GitHubClient      HostingClient
	Workspace         CloneWorkspace
	Reporter          Reporter
}

// MigrationOptions configure one repository migration.
type MigrationOptions struct {
	Owner           string
	Repository      RepositoryRecord
	OldBranch       string
	NewBranch       string
	CloneToken      string
	Force           bool
	DeleteOldBranch bool
}

// Service migrates a repository's default branch from the old name to the new one.
type Service struct {
	logger            *zap.Logger
	repositoryManager BranchRepositoryManager
	githubClient      HostingClient
	workspace         CloneWorkspace
	reporter          Reporter
}

// NewService constructs a migration service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, errors.New(serviceRepositoryManagerRequiredMessage)
	}
	if dependencies.GitHubClient == nil {
		return nil, errors.New(serviceGitHubClientRequiredMessage)
	}
	if dependencies.Workspace == nil {
		return nil, errors.New(serviceWorkspaceRequiredMessage)
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = NewWriterReporter(nil)
	}

	return &Service{
		logger:            logger,
		repositoryManager: dependencies.RepositoryManager,
		githubClient:      dependencies.GitHubClient,
		workspace:         dependencies.Workspace,
		reporter:          reporter,
	}, nil
}

// MigrateRepository runs the per-repository state machine. Failures are folded
// into the returned outcome; only context cancellation propagates as an error
// so the caller can stop the whole run.
func (service *Service) MigrateRepository(executionContext context.Context, options MigrationOptions) (MigrationOutcome, error) {
	repositoryFullName := fmt.Sprintf(repositoryFullNameTemplateConstant, options.Owner, options.Repository.Name)
	outcome := MigrationOutcome{Repository: repositoryFullName, Classification: MigrationSucceeded}

	cloneURL, cloneURLError := gitrepo.RemoteURL{
		Owner:      options.Owner,
		Repository: options.Repository.Name,
		Token:      options.CloneToken,
	}.CloneURL()
	if cloneURLError != nil {
		return service.failRename(outcome, StepClone, cloneURLError), nil
	}

	clonePath := service.workspace.RepositoryPath(options.Repository.Name)
	if cloneError := service.repositoryManager.CloneRepository(executionContext, cloneURL, clonePath); cloneError != nil {
		if isContextError(cloneError) {
			return outcome, cloneError
		}
		return service.failRename(outcome, StepClone, cloneError), nil
	}

	if branchError := service.repositoryManager.CreateBranchFromRemote(executionContext, clonePath, options.NewBranch, options.OldBranch); branchError != nil {
		if isContextError(branchError) {
			return outcome, branchError
		}
		return service.failRename(outcome, StepCreateBranch, branchError), nil
	}

	if options.Force {
		if pushError := service.repositoryManager.PushBranchWithUpstream(executionContext, clonePath, options.NewBranch); pushError != nil {
			if isContextError(pushError) {
				return outcome, pushError
			}
			return service.failRename(outcome, StepPushBranch, pushError), nil
		}

		if headError := service.repositoryManager.SetRemoteHead(executionContext, clonePath, options.NewBranch); headError != nil {
			if isContextError(headError) {
				return outcome, headError
			}
			return service.failRename(outcome, StepSetRemoteHead, headError), nil
		}

		if defaultError := service.githubClient.SetDefaultBranch(executionContext, repositoryFullName, options.NewBranch); defaultError != nil {
			if isContextError(defaultError) {
				return outcome, defaultError
			}
			return service.failRename(outcome, StepUpdateDefaultBranch, defaultError), nil
		}
	} else {
		service.reporter.Printf(planPushMessageConstant, options.NewBranch, repositoryFullName)
		service.reporter.Printf(planRemoteHeadMessageConstant, options.NewBranch, repositoryFullName)
		service.reporter.Printf(planDefaultBranchMessageConstant, options.NewBranch, repositoryFullName)
	}

	retargetError := service.retargetPullRequests(executionContext, repositoryFullName, options, &outcome)
	if retargetError != nil {
		return outcome, retargetError
	}

	if options.DeleteOldBranch {
		if options.Force {
			if deleteError := service.repositoryManager.DeleteRemoteBranch(executionContext, clonePath, options.OldBranch); deleteError != nil {
				if isContextError(deleteError) {
					return outcome, deleteError
				}
				outcome.Classification = MigrationFailedDeletion
				outcome.FailedStep = StepDeleteOldBranch
				outcome.Category = ClassifyFailure(deleteError)
				service.logger.Warn(
					logMessageOldBranchDeleteFailedConstant,
					zap.String(logFieldRepositoryConstant, repositoryFullName),
					zap.Error(deleteError),
				)
				service.reporter.Printf(deleteFailedMessageConstant, repositoryFullName)
				return outcome, nil
			}
		} else {
			service.reporter.Printf(planDeleteMessageConstant, options.OldBranch, repositoryFullName)
		}
	}

	if options.Force {
		service.reporter.Printf(renamedMessageConstant, repositoryFullName, options.NewBranch)
	}
	return outcome, nil
}

// retargetPullRequests lists open pull requests based on the old branch and,
// in force mode, moves each base to the new branch. Individual failures become
// warnings on the outcome rather than aborting the repository.
func (service *Service) retargetPullRequests(executionContext context.Context, repositoryFullName string, options MigrationOptions, outcome *MigrationOutcome) error {
	pullRequests, listError := service.githubClient.ListPullRequests(executionContext, repositoryFullName, githubcli.PullRequestListOptions{
		State:       githubcli.PullRequestStateOpen,
		BaseBranch:  options.OldBranch,
		ResultLimit: pullRequestRetargetLimitConstant,
	})
	if listError != nil {
		if isContextError(listError) {
			return listError
		}
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(pullRequestListWarningTemplateConstant, listError))
		return nil
	}

	for _, pullRequest := range pullRequests {
		if !options.Force {
			service.reporter.Printf(planRetargetMessageConstant, pullRequest.Number, pullRequest.HeadRefName, options.NewBranch, repositoryFullName)
			continue
		}

		updateError := service.githubClient.UpdatePullRequestBase(executionContext, repositoryFullName, pullRequest.Number, options.NewBranch)
		if updateError != nil {
			if isContextError(updateError) {
				return updateError
			}
			outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(pullRequestRetargetWarningTemplateConstant, pullRequest.Number, updateError))
			continue
		}
		outcome.RetargetedPullRequests = append(outcome.RetargetedPullRequests, pullRequest.Number)
		service.reporter.Printf(retargetedMessageConstant, pullRequest.Number, pullRequest.HeadRefName, options.NewBranch, repositoryFullName)
	}
	return nil
}

func (service *Service) failRename(outcome MigrationOutcome, failedStep MigrationStep, stepError error) MigrationOutcome {
	outcome.Classification = MigrationFailedRename
	outcome.FailedStep = failedStep
	outcome.Category = ClassifyFailure(stepError)
	service.logger.Warn(
		logMessageMigrationStepFailedConstant,
		zap.String(logFieldRepositoryConstant, outcome.Repository),
		zap.String(logFieldStepConstant, string(failedStep)),
		zap.String(logFieldCategoryConstant, string(outcome.Category)),
		zap.Error(stepError),
	)
	service.reporter.Printf(renameFailedMessageConstant, outcome.Repository, failedStep)
	return outcome
}

func isContextError(candidateError error) bool {
	return errors.Is(candidateError, context.Canceled) || errors.Is(candidateError, context.DeadlineExceeded)
}
