package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfdebrux/github-branch-renamer/internal/execshell"
)

func TestCommandMessageFormatterBuildsLifecycleMessages(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"clone", "https://github.com/acme/svc-a.git"},
			WorkingDirectory: "/tmp/scratch",
		},
	}

	require.Equal(testInstance, "Running git clone https://github.com/acme/svc-a.git (in /tmp/scratch)", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "Completed git clone https://github.com/acme/svc-a.git (in /tmp/scratch)", formatter.BuildSuccessMessage(command))

	failureMessage := formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: repository not found\n"})
	require.Equal(testInstance, "git clone https://github.com/acme/svc-a.git (in /tmp/scratch) failed with exit code 128: fatal: repository not found", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("executable missing"))
	require.Equal(testInstance, "git clone https://github.com/acme/svc-a.git (in /tmp/scratch) failed: executable missing", executionFailureMessage)
}
