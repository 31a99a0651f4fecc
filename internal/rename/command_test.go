package rename_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lfdebrux/github-branch-renamer/internal/execshell"
	"github.com/lfdebrux/github-branch-renamer/internal/rename"
)

type routingCommandExecutor struct {
	gitCalls          [][]string
	githubCalls       [][]string
	repositoryListing string
	pullRequestList   string
	gitFailures       map[string]error
}

func (executor *routingCommandExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.gitCalls = append(executor.gitCalls, details.Arguments)
	if failure, exists := executor.gitFailures[strings.Join(details.Arguments, " ")]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *routingCommandExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.githubCalls = append(executor.githubCalls, details.Arguments)
	switch {
	case len(details.Arguments) > 1 && details.Arguments[0] == "api" && details.Arguments[1] == "-i":
		return execshell.ExecutionResult{StandardOutput: executor.repositoryListing}, nil
	case len(details.Arguments) > 1 && details.Arguments[0] == "pr" && details.Arguments[1] == "list":
		return execshell.ExecutionResult{StandardOutput: executor.pullRequestList}, nil
	default:
		return execshell.ExecutionResult{}, nil
	}
}

func buildListingResponse(body string) string {
	return "HTTP/2.0 200 OK\r\nContent-Type: application/json\r\n\r\n" + body
}

func newCommandBuilderForTest(executor *routingCommandExecutor, output *bytes.Buffer, scratchRoot string) *rename.CommandBuilder {
	return &rename.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		Executor:       executor,
		Output:         output,
		TokenResolver:  func() (string, bool) { return "", false },
		ConfigurationProvider: func() rename.CommandConfiguration {
			configuration := rename.DefaultCommandConfiguration()
			configuration.ScratchRoot = scratchRoot
			return configuration
		},
	}
}

func TestRenameCommandRejectsInvalidArguments(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedMessage string
	}{
		{
			name:            "missing_owner_selection",
			arguments:       []string{"--force"},
			expectedMessage: "exactly one of --org or --user",
		},
		{
			name:            "both_owner_selections",
			arguments:       []string{"--org", "acme", "--user", "octocat", "--force"},
			expectedMessage: "exactly one of --org or --user",
		},
		{
			name:            "missing_execution_mode",
			arguments:       []string{"--org", "acme"},
			expectedMessage: "exactly one of --dry-run or --force",
		},
		{
			name:            "both_execution_modes",
			arguments:       []string{"--org", "acme", "--dry-run", "--force"},
			expectedMessage: "exactly one of --dry-run or --force",
		},
		{
			name:            "identical_branch_names",
			arguments:       []string{"--org", "acme", "--force", "--old-branch", "main"},
			expectedMessage: "--old-branch and --new-branch must differ",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &routingCommandExecutor{}
			output := &bytes.Buffer{}
			builder := newCommandBuilderForTest(executor, output, t.TempDir())

			command, buildError := builder.Build()
			require.NoError(t, buildError)
			command.SetArgs(testCase.arguments)
			command.SetOut(output)
			command.SetErr(output)

			executionError := command.Execute()
			require.Error(t, executionError)
			var usageError rename.UsageError
			require.ErrorAs(t, executionError, &usageError)
			require.Contains(t, executionError.Error(), testCase.expectedMessage)
			require.Contains(t, output.String(), "Usage:")

			require.Empty(t, executor.gitCalls)
			require.Empty(t, executor.githubCalls)
		})
	}
}

func TestRenameCommandRejectsUnknownFlags(t *testing.T) {
	executor := &routingCommandExecutor{}
	output := &bytes.Buffer{}
	builder := newCommandBuilderForTest(executor, output, t.TempDir())

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetArgs([]string{"--org", "acme", "--force", "--bogus"})
	command.SetOut(output)
	command.SetErr(output)

	executionError := command.Execute()
	require.Error(t, executionError)
	require.Contains(t, executionError.Error(), "unknown flag")
	require.Empty(t, executor.gitCalls)
	require.Empty(t, executor.githubCalls)
}

func TestRenameCommandReportsEmptyCollection(t *testing.T) {
	executor := &routingCommandExecutor{repositoryListing: buildListingResponse("[]")}
	output := &bytes.Buffer{}
	builder := newCommandBuilderForTest(executor, output, t.TempDir())

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetArgs([]string{"--user", "octocat", "--dry-run"})

	require.NoError(t, command.Execute())
	require.Contains(t, output.String(), "nothing to do")
	require.Empty(t, executor.gitCalls)
	require.Len(t, executor.githubCalls, 1)
	require.Equal(t, []string{"api", "-i", "users/octocat/repos?per_page=100&page=1"}, executor.githubCalls[0])
}

func TestRenameCommandEndToEndForceRun(t *testing.T) {
	listingBody := `[` +
		`{"id":1,"name":"svc-a","fork":false,"archived":false,"disabled":false,"default_branch":"master"},` +
		`{"id":2,"name":"svc-b","fork":true,"archived":false,"disabled":false,"default_branch":"master"},` +
		`{"id":3,"name":"svc-c","fork":false,"archived":false,"disabled":false,"default_branch":"main"}` +
		`]`
	executor := &routingCommandExecutor{
		repositoryListing: buildListingResponse(listingBody),
		pullRequestList:   `[{"number":5,"title":"Fix build","headRefName":"fix-build"}]`,
	}
	output := &bytes.Buffer{}
	scratchRoot := t.TempDir()
	builder := newCommandBuilderForTest(executor, output, scratchRoot)

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetArgs([]string{"--org", "acme", "--force", "--delete"})

	require.NoError(t, command.Execute())

	joinedGitCalls := make([]string, 0, len(executor.gitCalls))
	for _, gitCall := range executor.gitCalls {
		joinedGitCalls = append(joinedGitCalls, strings.Join(gitCall, " "))
	}
	clonePath := scratchRoot + "/acme/svc-a"
	require.Equal(t, []string{
		"clone https://github.com/acme/svc-a.git " + clonePath,
		"branch --no-track main origin/master",
		"push --set-upstream origin main",
		"remote set-head origin main",
		"push origin --delete master",
	}, joinedGitCalls)

	joinedGitHubCalls := make([]string, 0, len(executor.githubCalls))
	for _, githubCall := range executor.githubCalls {
		joinedGitHubCalls = append(joinedGitHubCalls, strings.Join(githubCall, " "))
	}
	require.Equal(t, []string{
		"api -i orgs/acme/repos?per_page=100&page=1",
		"api -X PATCH repos/acme/svc-a -f default_branch=main",
		"pr list --repo acme/svc-a --state open --base master --json number,title,headRefName --limit 250",
		"pr edit 5 --repo acme/svc-a --base main",
	}, joinedGitHubCalls)

	require.Contains(t, output.String(), `Processed 1 repositories: 1 renamed to "main"`)
	require.Contains(t, output.String(), "Retargeted PR #5")
}

func TestRenameCommandIsolatesRepositoryFailures(t *testing.T) {
	listingBody := `[` +
		`{"id":1,"name":"svc-a","fork":false,"archived":false,"disabled":false,"default_branch":"master"},` +
		`{"id":2,"name":"svc-b","fork":false,"archived":false,"disabled":false,"default_branch":"master"},` +
		`{"id":3,"name":"svc-c","fork":false,"archived":false,"disabled":false,"default_branch":"master"}` +
		`]`
	scratchRoot := t.TempDir()
	executor := &routingCommandExecutor{
		repositoryListing: buildListingResponse(listingBody),
		pullRequestList:   "[]",
		gitFailures: map[string]error{
			"clone https://github.com/acme/svc-b.git " + scratchRoot + "/acme/svc-b": execshell.CommandFailedError{
				Command: execshell.ShellCommand{Name: execshell.CommandGit},
				Result:  execshell.ExecutionResult{StandardError: "Could not resolve host: github.com", ExitCode: 128},
			},
		},
	}
	output := &bytes.Buffer{}
	builder := newCommandBuilderForTest(executor, output, scratchRoot)

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetArgs([]string{"--org", "acme", "--force"})

	require.NoError(t, command.Execute())

	joinedGitCalls := strings.Join(flattenCalls(executor.gitCalls), "\n")
	require.Contains(t, joinedGitCalls, "push --set-upstream origin main")
	require.Contains(t, joinedGitCalls, "clone https://github.com/acme/svc-c.git")

	require.Contains(t, output.String(), `Processed 3 repositories: 2 renamed to "main", 1 rename failures`)
	require.Contains(t, output.String(), "acme/svc-b")
	require.Contains(t, output.String(), "network")
}

func flattenCalls(calls [][]string) []string {
	flattened := make([]string, 0, len(calls))
	for _, call := range calls {
		flattened = append(flattened, strings.Join(call, " "))
	}
	return flattened
}
