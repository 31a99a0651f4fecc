package rename_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfdebrux/github-branch-renamer/internal/rename"
)

func TestDefaultCommandConfiguration(t *testing.T) {
	configuration := rename.DefaultCommandConfiguration()
	require.Equal(t, "main", configuration.NewBranch)
	require.Equal(t, "master", configuration.OldBranch)
	require.NotEmpty(t, configuration.ScratchRoot)
}

func TestCommandConfigurationSanitize(t *testing.T) {
	configuration := rename.CommandConfiguration{
		Owner:       "  acme  ",
		OwnerType:   " org ",
		NewBranch:   "   ",
		OldBranch:   " trunk ",
		ScratchRoot: "",
	}

	sanitized := configuration.Sanitize()
	require.Equal(t, "acme", sanitized.Owner)
	require.Equal(t, "org", sanitized.OwnerType)
	require.Equal(t, "main", sanitized.NewBranch)
	require.Equal(t, "trunk", sanitized.OldBranch)
	require.Equal(t, rename.DefaultCommandConfiguration().ScratchRoot, sanitized.ScratchRoot)
}
