package rename_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfdebrux/github-branch-renamer/internal/rename"
)

func TestParseOwnerType(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedType  rename.OwnerType
		expectError   bool
	}{
		{name: "user_lowercase", input: "user", expectedType: rename.UserOwnerType},
		{name: "org_mixed_case", input: " Org ", expectedType: rename.OrganizationOwnerType},
		{name: "empty_rejected", input: "  ", expectError: true},
		{name: "unknown_rejected", input: "team", expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ownerType, parseError := rename.ParseOwnerType(testCase.input)
			if testCase.expectError {
				require.Error(t, parseError)
				return
			}
			require.NoError(t, parseError)
			require.Equal(t, testCase.expectedType, ownerType)
		})
	}
}

func TestOwnerTypePathSegment(t *testing.T) {
	require.Equal(t, "users", rename.UserOwnerType.PathSegment())
	require.Equal(t, "orgs", rename.OrganizationOwnerType.PathSegment())
}
