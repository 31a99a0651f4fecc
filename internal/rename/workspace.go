package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pathutils "github.com/lfdebrux/github-branch-renamer/internal/utils/path"
)

const (
	scratchDirectoryPermissionsConstant          = os.FileMode(0o755)
	scratchRootRequiredMessageConstant           = "scratch root must not be empty"
	ownerRequiredMessageConstant                 = "owner must not be empty"
	scratchPreparationErrorTemplateConstant      = "unable to prepare scratch directory %s: %w"
)

// WorkspaceManager owns the scratch directory tree that repository clones land in.
type WorkspaceManager struct {
	homeExpander *pathutils.HomeExpander
	ownerRoot    string
}

// NewWorkspaceManager constructs a workspace manager for the configured scratch
// root and owner. The owner root is <scratch_root>/<owner>.
func NewWorkspaceManager(scratchRoot string, owner string) (*WorkspaceManager, error) {
	trimmedRoot := strings.TrimSpace(scratchRoot)
	if len(trimmedRoot) == 0 {
		return nil, fmt.Errorf(scratchRootRequiredMessageConstant)
	}
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return nil, fmt.Errorf(ownerRequiredMessageConstant)
	}

	homeExpander := pathutils.NewHomeExpander()
	expandedRoot := homeExpander.Expand(trimmedRoot)
	return &WorkspaceManager{
		homeExpander: homeExpander,
		ownerRoot:    filepath.Join(expandedRoot, trimmedOwner),
	}, nil
}

// OwnerRoot reports the directory that holds this run's repository clones.
func (manager *WorkspaceManager) OwnerRoot() string {
	return manager.ownerRoot
}

// Prepare destructively recreates the owner root so each run starts from an
// empty tree. Leftovers from interrupted runs are removed here.
func (manager *WorkspaceManager) Prepare() error {
	if removalError := os.RemoveAll(manager.ownerRoot); removalError != nil {
		return fmt.Errorf(scratchPreparationErrorTemplateConstant, manager.ownerRoot, removalError)
	}
	if creationError := os.MkdirAll(manager.ownerRoot, scratchDirectoryPermissionsConstant); creationError != nil {
		return fmt.Errorf(scratchPreparationErrorTemplateConstant, manager.ownerRoot, creationError)
	}
	return nil
}

// RepositoryPath resolves the clone destination for a repository name.
func (manager *WorkspaceManager) RepositoryPath(repositoryName string) string {
	return filepath.Join(manager.ownerRoot, repositoryName)
}
