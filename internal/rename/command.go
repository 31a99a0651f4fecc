package rename

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lfdebrux/github-branch-renamer/internal/execshell"
	"github.com/lfdebrux/github-branch-renamer/internal/githubauth"
	"github.com/lfdebrux/github-branch-renamer/internal/githubcli"
	"github.com/lfdebrux/github-branch-renamer/internal/gitrepo"
	"github.com/lfdebrux/github-branch-renamer/internal/ui"
	"github.com/lfdebrux/github-branch-renamer/internal/utils"
	"github.com/lfdebrux/github-branch-renamer/internal/utils/flags"
)

const (
	commandUseConstant              = "rename"
	commandShortDescriptionConstant = "Rename the default branch across an owner's repositories"
	commandLongDescriptionConstant  = "rename collects every repository of a GitHub user or organization whose default branch matches the old name, then clones each one, creates the new branch, and in force mode publishes it, flips the repository default, retargets open pull requests, and optionally deletes the old branch."

	organizationFlagNameConstant  = "org"
	organizationFlagShortConstant = "o"
	organizationFlagUsageConstant = "Organization whose repositories should be renamed"
	userFlagNameConstant          = "user"
	userFlagShortConstant         = "u"
	userFlagUsageConstant         = "User whose repositories should be renamed"
	newBranchFlagNameConstant     = "new-branch"
	newBranchFlagShortConstant    = "b"
	newBranchFlagUsageConstant    = "Name of the new default branch"
	oldBranchFlagNameConstant     = "old-branch"
	oldBranchFlagUsageConstant    = "Name of the default branch being replaced"
	deleteFlagNameConstant        = "delete"
	deleteFlagShortConstant       = "d"
	deleteFlagUsageConstant       = "Delete the old branch after the rename"
	dryRunFlagNameConstant        = "dry-run"
	dryRunFlagShortConstant       = "n"
	dryRunFlagUsageConstant       = "Plan the rename without changing any remote state"
	forceFlagNameConstant         = "force"
	forceFlagShortConstant        = "f"
	forceFlagUsageConstant        = "Apply the rename to the remote repositories"

	ownerSelectionRequiredMessageConstant  = "exactly one of --org or --user must be provided"
	executionModeRequiredMessageConstant   = "exactly one of --dry-run or --force must be provided"
	branchNamesDistinctMessageConstant     = "--old-branch and --new-branch must differ"
	repositoryManagerCreationErrorTemplate = "unable to construct repository manager: %w"
	githubClientCreationErrorTemplate      = "unable to construct GitHub client: %w"
	workspaceCreationErrorTemplate         = "unable to construct workspace: %w"
	collectorCreationErrorTemplate         = "unable to construct repository collector: %w"
	serviceCreationErrorTemplate           = "unable to construct migration service: %w"
	collectionFailedErrorTemplateConstant  = "repository collection failed: %w"

	logMessageRunStartedConstant   = "Default branch rename started"
	logMessageCollectedConstant    = "Eligible repositories collected"
	logFieldOwnerConstant          = "owner"
	logFieldOwnerTypeConstant      = "owner_type"
	logFieldOldBranchConstant      = "old_branch"
	logFieldNewBranchConstant      = "new_branch"
	logFieldForceConstant          = "force"
	logFieldCollectedCountConstant = "collected"
)

// UsageError marks argument validation failures that should surface the
// command usage text before the process exits.
type UsageError struct {
	Message string
}

// Error describes the usage violation.
func (usageError UsageError) Error() string {
	return usageError.Message
}

// CommandExecutor runs git and GitHub CLI commands for the rename workflow.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryMigrator executes the per-repository migration state machine.
type RepositoryMigrator interface {
	MigrateRepository(executionContext context.Context, options MigrationOptions) (MigrationOutcome, error)
}

// ServiceProvider constructs a repository migrator from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (RepositoryMigrator, error)

// TokenResolver supplies an optional authentication token for clone URLs.
type TokenResolver func() (string, bool)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

type commandOptions struct {
	debugLoggingEnabled bool
	ownerType           OwnerType
	owner               string
	oldBranch           string
	newBranch           string
	deleteOldBranch     bool
	forceEnabled        bool
	scratchRoot         string
}

type commandFlagValues struct {
	organization string
	user         string
	newBranch    string
	oldBranch    string
	deleteOld    bool
	dryRun       bool
	force        bool
}

// CommandBuilder assembles the rename Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	Output                       io.Writer
	ServiceProvider              ServiceProvider
	TokenResolver                TokenResolver
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the rename command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &commandFlagValues{}

	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runRename(command, flagValues)
		},
	}

	command.Flags().StringVarP(&flagValues.organization, organizationFlagNameConstant, organizationFlagShortConstant, "", organizationFlagUsageConstant)
	command.Flags().StringVarP(&flagValues.user, userFlagNameConstant, userFlagShortConstant, "", userFlagUsageConstant)
	command.Flags().StringVarP(&flagValues.newBranch, newBranchFlagNameConstant, newBranchFlagShortConstant, defaultNewBranchNameConstant, newBranchFlagUsageConstant)
	command.Flags().String(oldBranchFlagNameConstant, defaultOldBranchNameConstant, oldBranchFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.deleteOld, deleteFlagNameConstant, deleteFlagShortConstant, false, deleteFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.dryRun, dryRunFlagNameConstant, dryRunFlagShortConstant, false, dryRunFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.force, forceFlagNameConstant, forceFlagShortConstant, false, forceFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runRename(command *cobra.Command, flagValues *commandFlagValues) error {
	options, optionsError := builder.parseOptions(command, flagValues)
	if optionsError != nil {
		var usageError UsageError
		if errors.As(optionsError, &usageError) {
			fmt.Fprintln(builder.resolveOutput(), usageError.Message)
			fmt.Fprint(builder.resolveOutput(), command.UsageString())
		}
		return optionsError
	}

	logger := builder.resolveLogger(options.debugLoggingEnabled)
	logger.Info(
		logMessageRunStartedConstant,
		zap.String(logFieldOwnerConstant, options.owner),
		zap.String(logFieldOwnerTypeConstant, string(options.ownerType)),
		zap.String(logFieldOldBranchConstant, options.oldBranch),
		zap.String(logFieldNewBranchConstant, options.newBranch),
		zap.Bool(logFieldForceConstant, options.forceEnabled),
	)

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return fmt.Errorf(repositoryManagerCreationErrorTemplate, managerError)
	}

	githubClient, githubClientError := githubcli.NewClient(executor)
	if githubClientError != nil {
		return fmt.Errorf(githubClientCreationErrorTemplate, githubClientError)
	}

	collector, collectorError := NewCollector(githubClient, logger)
	if collectorError != nil {
		return fmt.Errorf(collectorCreationErrorTemplate, collectorError)
	}

	repositories, collectionError := collector.CollectRepositories(command.Context(), CollectorOptions{
		OwnerType: options.ownerType,
		Owner:     options.owner,
		OldBranch: options.oldBranch,
	})
	if collectionError != nil {
		if isContextError(collectionError) {
			return collectionError
		}
		return fmt.Errorf(collectionFailedErrorTemplateConstant, collectionError)
	}

	logger.Debug(logMessageCollectedConstant, zap.Int(logFieldCollectedCountConstant, len(repositories)))

	summaryWriter := NewSummaryWriter(builder.resolveOutput())
	runSummary := RunSummary{
		Owner:     options.owner,
		OldBranch: options.oldBranch,
		NewBranch: options.newBranch,
		DryRun:    !options.forceEnabled,
	}

	if len(repositories) == 0 {
		summaryWriter.WriteSummary(runSummary)
		return nil
	}

	workspace, workspaceError := NewWorkspaceManager(options.scratchRoot, options.owner)
	if workspaceError != nil {
		return fmt.Errorf(workspaceCreationErrorTemplate, workspaceError)
	}
	if prepareError := workspace.Prepare(); prepareError != nil {
		return prepareError
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		GitHubClient:      githubClient,
		Workspace:         workspace,
		Reporter:          NewWriterReporter(builder.resolveOutput()),
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplate, serviceError)
	}

	cloneToken, _ := builder.resolveToken()

	for _, repository := range repositories {
		outcome, migrationError := service.MigrateRepository(command.Context(), MigrationOptions{
			Owner:           options.owner,
			Repository:      repository,
			OldBranch:       options.oldBranch,
			NewBranch:       options.newBranch,
			CloneToken:      cloneToken,
			Force:           options.forceEnabled,
			DeleteOldBranch: options.deleteOldBranch,
		})
		if migrationError != nil {
			return migrationError
		}
		runSummary.Outcomes = append(runSummary.Outcomes, outcome)
	}

	summaryWriter.WriteSummary(runSummary)
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, flagValues *commandFlagValues) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	debugEnabled := configuration.EnableDebugLogging
	if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		if logLevel, available := contextAccessor.LogLevel(command.Context()); available {
			if strings.EqualFold(logLevel, string(utils.LogLevelDebug)) {
				debugEnabled = true
			}
		}
	}

	organizationName := strings.TrimSpace(flagValues.organization)
	userName := strings.TrimSpace(flagValues.user)
	if len(organizationName) > 0 && len(userName) > 0 {
		return commandOptions{}, UsageError{Message: ownerSelectionRequiredMessageConstant}
	}

	ownerName := ""
	ownerType := OwnerType("")
	switch {
	case len(organizationName) > 0:
		ownerName = organizationName
		ownerType = OrganizationOwnerType
	case len(userName) > 0:
		ownerName = userName
		ownerType = UserOwnerType
	case len(configuration.Owner) > 0:
		parsedOwnerType, parseError := ParseOwnerType(configuration.OwnerType)
		if parseError != nil {
			return commandOptions{}, UsageError{Message: parseError.Error()}
		}
		ownerName = configuration.Owner
		ownerType = parsedOwnerType
	default:
		return commandOptions{}, UsageError{Message: ownerSelectionRequiredMessageConstant}
	}

	dryRunChanged := command != nil && command.Flags().Changed(dryRunFlagNameConstant)
	forceChanged := command != nil && command.Flags().Changed(forceFlagNameConstant)
	dryRunEnabled := dryRunChanged && flagValues.dryRun
	forceEnabled := forceChanged && flagValues.force
	if dryRunEnabled == forceEnabled {
		return commandOptions{}, UsageError{Message: executionModeRequiredMessageConstant}
	}

	newBranchName := strings.TrimSpace(flagValues.newBranch)
	if len(newBranchName) == 0 {
		newBranchName = configuration.NewBranch
	}
	oldBranchName := configuration.OldBranch
	if command != nil && command.Flags().Changed(oldBranchFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(oldBranchFlagNameConstant)
		oldBranchName = strings.TrimSpace(flagValue)
	}
	if len(oldBranchName) == 0 {
		oldBranchName = defaultOldBranchNameConstant
	}
	if oldBranchName == newBranchName {
		return commandOptions{}, UsageError{Message: branchNamesDistinctMessageConstant}
	}

	deleteOldBranch := configuration.DeleteOldBranch
	if command != nil && command.Flags().Changed(deleteFlagNameConstant) {
		deleteOldBranch = flagValues.deleteOld
	}

	return commandOptions{
		debugLoggingEnabled: debugEnabled,
		ownerType:           ownerType,
		owner:               ownerName,
		oldBranch:           oldBranchName,
		newBranch:           newBranchName,
		deleteOldBranch:     deleteOldBranch,
		forceEnabled:        forceEnabled,
		scratchRoot:         configuration.ScratchRoot,
	}, nil
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (RepositoryMigrator, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}

func (builder *CommandBuilder) resolveToken() (string, bool) {
	if builder.TokenResolver != nil {
		return builder.TokenResolver()
	}
	return githubauth.ResolveToken(nil)
}

func (builder *CommandBuilder) resolveOutput() io.Writer {
	if builder.Output != nil {
		return builder.Output
	}
	return utils.NewFlushingWriter(os.Stdout)
}
