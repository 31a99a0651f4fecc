package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/lfdebrux/github-branch-renamer/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/operator"

func TestHomeExpanderExpand(t *testing.T) {
	testCases := []struct {
		name           string
		candidatePath  string
		providerError  error
		expectedResult string
	}{
		{name: "EmptyPath", candidatePath: "", expectedResult: ""},
		{name: "AbsolutePathUntouched", candidatePath: "/var/tmp/scratch", expectedResult: "/var/tmp/scratch"},
		{name: "BareTilde", candidatePath: "~", expectedResult: testHomeDirectoryConstant},
		{name: "TildeWithRelativePath", candidatePath: "~/scratch/renames", expectedResult: filepath.Join(testHomeDirectoryConstant, "scratch", "renames")},
		{name: "ProviderFailureLeavesPath", candidatePath: "~/scratch", providerError: errors.New("no home"), expectedResult: "~/scratch"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
				return testHomeDirectoryConstant, testCase.providerError
			})
			require.Equal(t, testCase.expectedResult, expander.Expand(testCase.candidatePath))
		})
	}
}
