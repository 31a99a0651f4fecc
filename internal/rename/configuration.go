package rename

import "strings"

const (
	defaultNewBranchNameConstant = "main"
	defaultOldBranchNameConstant = "master"
	defaultScratchRootConstant   = "~/.branch-renamer/workspaces"
)

// CommandConfiguration captures persisted configuration for the rename command.
type CommandConfiguration struct {
	Owner              string `mapstructure:"owner"`
	OwnerType          string `mapstructure:"owner_type"`
	NewBranch          string `mapstructure:"new_branch"`
	OldBranch          string `mapstructure:"old_branch"`
	DeleteOldBranch    bool   `mapstructure:"delete_old_branch"`
	ScratchRoot        string `mapstructure:"scratch_root"`
	EnableDebugLogging bool   `mapstructure:"debug"`
}

// DefaultCommandConfiguration returns baseline configuration values for the rename command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		NewBranch:   defaultNewBranchNameConstant,
		OldBranch:   defaultOldBranchNameConstant,
		ScratchRoot: defaultScratchRootConstant,
	}
}

// Sanitize trims configured values and restores defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Owner = strings.TrimSpace(configuration.Owner)
	sanitized.OwnerType = strings.TrimSpace(configuration.OwnerType)
	sanitized.NewBranch = strings.TrimSpace(configuration.NewBranch)
	if len(sanitized.NewBranch) == 0 {
		sanitized.NewBranch = defaultNewBranchNameConstant
	}
	sanitized.OldBranch = strings.TrimSpace(configuration.OldBranch)
	if len(sanitized.OldBranch) == 0 {
		sanitized.OldBranch = defaultOldBranchNameConstant
	}
	sanitized.ScratchRoot = strings.TrimSpace(configuration.ScratchRoot)
	if len(sanitized.ScratchRoot) == 0 {
		sanitized.ScratchRoot = defaultScratchRootConstant
	}
	return sanitized
}
