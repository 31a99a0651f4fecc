package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfdebrux/github-branch-renamer/internal/githubauth"
)

const (
	cliTokenValue = "gho_cli"
	apiTokenValue = "ghp_api"
)

func TestResolveToken(t *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "prefers_gh_token",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: cliTokenValue, githubauth.EnvGitHubAPIToken: apiTokenValue},
			expectedToken: cliTokenValue,
			expectedFound: true,
		},
		{
			name:          "falls_back_to_api_token",
			environment:   map[string]string{githubauth.EnvGitHubAPIToken: apiTokenValue},
			expectedToken: apiTokenValue,
			expectedFound: true,
		},
		{
			name:          "trims_whitespace",
			environment:   map[string]string{githubauth.EnvGitHubToken: "  token  "},
			expectedToken: "token",
			expectedFound: true,
		},
		{
			name:          "ignores_blank_values",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: "   "},
			expectedToken: "",
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			for _, key := range []string{githubauth.EnvGitHubCLIToken, githubauth.EnvGitHubToken, githubauth.EnvGitHubAPIToken} {
				t.Setenv(key, "")
			}
			token, found := githubauth.ResolveToken(testCase.environment)
			require.Equal(t, testCase.expectedFound, found)
			require.Equal(t, testCase.expectedToken, token)
		})
	}
}
