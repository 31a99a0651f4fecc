package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfdebrux/github-branch-renamer/internal/gitrepo"
)

func TestRemoteURLCloneURL(t *testing.T) {
	testCases := []struct {
		name        string
		remote      gitrepo.RemoteURL
		expectedURL string
		expectError bool
	}{
		{
			name:        "default_host_without_token",
			remote:      gitrepo.RemoteURL{Owner: "acme", Repository: "widget"},
			expectedURL: "https://github.com/acme/widget.git",
		},
		{
			name:        "embeds_token_credential",
			remote:      gitrepo.RemoteURL{Owner: "acme", Repository: "widget", Token: "gho_secret"},
			expectedURL: "https://gho_secret@github.com/acme/widget.git",
		},
		{
			name:        "custom_host",
			remote:      gitrepo.RemoteURL{Host: "github.example.com", Owner: "acme", Repository: "widget"},
			expectedURL: "https://github.example.com/acme/widget.git",
		},
		{
			name:        "normalizes_git_suffix",
			remote:      gitrepo.RemoteURL{Owner: "acme", Repository: "widget.git"},
			expectedURL: "https://github.com/acme/widget.git",
		},
		{
			name:        "rejects_missing_owner",
			remote:      gitrepo.RemoteURL{Repository: "widget"},
			expectError: true,
		},
		{
			name:        "rejects_missing_repository",
			remote:      gitrepo.RemoteURL{Owner: "acme"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			cloneURL, buildError := testCase.remote.CloneURL()
			if testCase.expectError {
				require.Error(t, buildError)
				return
			}
			require.NoError(t, buildError)
			require.Equal(t, testCase.expectedURL, cloneURL)
		})
	}
}
