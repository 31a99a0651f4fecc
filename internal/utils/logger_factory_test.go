package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfdebrux/github-branch-renamer/internal/utils"
)

const (
	testSupportedCombinationCaseNameConstant = "supported_combination"
	testUnknownLevelCaseNameConstant         = "unknown_level"
	testUnknownFormatCaseNameConstant        = "unknown_format"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name        string
		logLevel    utils.LogLevel
		logFormat   utils.LogFormat
		expectError bool
	}{
		{
			name:      testSupportedCombinationCaseNameConstant,
			logLevel:  utils.LogLevelDebug,
			logFormat: utils.LogFormatConsole,
		},
		{
			name:        testUnknownLevelCaseNameConstant,
			logLevel:    utils.LogLevel("verbose"),
			logFormat:   utils.LogFormatStructured,
			expectError: true,
		},
		{
			name:        testUnknownFormatCaseNameConstant,
			logLevel:    utils.LogLevelInfo,
			logFormat:   utils.LogFormat("plain"),
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			factory := utils.NewLoggerFactory()
			logger, creationError := factory.CreateLogger(testCase.logLevel, testCase.logFormat)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)
		})
	}
}
