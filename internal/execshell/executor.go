package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	gitToolNameConstant                         = "git"
	githubCLIToolNameConstant                   = "gh"
	loggerNotConfiguredMessageConstant          = "logger not configured"
	commandRunnerNotConfiguredMessageConstant   = "command runner not configured"
	commandFailureMessageTemplateConstant       = "%s command exited with code %d"
	commandFailureDetailTemplateConstant        = "%s command exited with code %d: %s"
	commandExecutionFailureTemplateConstant     = "%s command execution failed: %s"
	commandExecutionUnknownFailureConstant      = "unknown failure"
	commandLifecycleCommandFieldNameConstant    = "command"
	commandLifecycleArgumentsFieldNameConstant  = "arguments"
	commandLifecycleDirectoryFieldNameConstant  = "working_directory"
	commandLifecycleExitCodeFieldNameConstant   = "exit_code"
	commandLifecycleStdErrorFieldNameConstant   = "standard_error"
	commandLifecycleStartedMessageConstant      = "Executing command"
	commandLifecycleCompletedMessageConstant    = "Command completed"
	commandLifecycleFailedMessageConstant       = "Command failed"
	commandLifecycleRunnerErrorMessageConstant  = "Command execution failed"
	successfulExitCodeConstant                  = 0
	standardErrorTrimCutsetConstant             = " \t\r\n"
)

// CommandName identifies an executable supported by the shell executor.
type CommandName string

// Supported command enumerations.
const (
	CommandGit    CommandName = CommandName(gitToolNameConstant)
	CommandGitHub CommandName = CommandName(githubCLIToolNameConstant)
)

// CommandDetails describes the invocation parameters for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs a command name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// Sentinel errors surfaced during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError indicates a command completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the command failure including trailing standard error output.
func (failureError CommandFailedError) Error() string {
	trimmedStandardError := strings.Trim(failureError.Result.StandardError, standardErrorTrimCutsetConstant)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailureMessageTemplateConstant, failureError.Command.Name, failureError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailureDetailTemplateConstant, failureError.Command.Name, failureError.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError indicates the process could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	failureMessage := commandExecutionUnknownFailureConstant
	if executionError.Cause != nil {
		failureMessage = executionError.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionFailureTemplateConstant, executionError.Command.Name, failureMessage)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor coordinates command execution with structured logging.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	eventObserver        CommandEventObserver
	humanReadableLogging bool
	messageFormatter     CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor from the provided collaborators.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		eventObserver:        noopCommandEventObserver{},
		humanReadableLogging: humanReadableLogging,
		messageFormatter:     CommandMessageFormatter{},
	}, nil
}

// SetCommandEventObserver registers an observer receiving command lifecycle notifications.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteGitHubCLI runs the GitHub CLI with the provided details.
func (executor *ShellExecutor) ExecuteGitHubCLI(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.execute(executionContext, ShellCommand{Name: CommandGitHub, Details: details})
}

func (executor *ShellExecutor) execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logCommandStarted(command)
	executor.eventObserver.CommandStarted(command)

	executionResult, executionError := executor.commandRunner.Run(executionContext, command)
	if executionError != nil {
		executor.logExecutionFailure(command, executionError)
		executor.eventObserver.CommandExecutionFailed(command, executionError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: executionError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != successfulExitCodeConstant {
		executor.logCommandFailure(command, executionResult)
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logCommandCompleted(command, executionResult)
	return executionResult, nil
}

func (executor *ShellExecutor) logCommandStarted(command ShellCommand) {
	if executor.humanReadableLogging {
		executor.logger.Debug(executor.messageFormatter.BuildStartedMessage(command))
		return
	}
	executor.logger.Debug(
		commandLifecycleStartedMessageConstant,
		zap.String(commandLifecycleCommandFieldNameConstant, string(command.Name)),
		zap.Strings(commandLifecycleArgumentsFieldNameConstant, command.Details.Arguments),
		zap.String(commandLifecycleDirectoryFieldNameConstant, command.Details.WorkingDirectory),
	)
}

func (executor *ShellExecutor) logCommandCompleted(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		executor.logger.Debug(executor.messageFormatter.BuildSuccessMessage(command))
		return
	}
	executor.logger.Debug(
		commandLifecycleCompletedMessageConstant,
		zap.String(commandLifecycleCommandFieldNameConstant, string(command.Name)),
		zap.Strings(commandLifecycleArgumentsFieldNameConstant, command.Details.Arguments),
		zap.Int(commandLifecycleExitCodeFieldNameConstant, result.ExitCode),
	)
}

func (executor *ShellExecutor) logCommandFailure(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, result))
		return
	}
	executor.logger.Warn(
		commandLifecycleFailedMessageConstant,
		zap.String(commandLifecycleCommandFieldNameConstant, string(command.Name)),
		zap.Strings(commandLifecycleArgumentsFieldNameConstant, command.Details.Arguments),
		zap.Int(commandLifecycleExitCodeFieldNameConstant, result.ExitCode),
		zap.String(commandLifecycleStdErrorFieldNameConstant, result.StandardError),
	)
}

func (executor *ShellExecutor) logExecutionFailure(command ShellCommand, failure error) {
	if executor.humanReadableLogging {
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, failure))
		return
	}
	executor.logger.Error(
		commandLifecycleRunnerErrorMessageConstant,
		zap.String(commandLifecycleCommandFieldNameConstant, string(command.Name)),
		zap.Strings(commandLifecycleArgumentsFieldNameConstant, command.Details.Arguments),
		zap.Error(failure),
	)
}
