package rename

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lfdebrux/github-branch-renamer/internal/githubcli"
)

const (
	firstPageNumberConstant                   = 1
	collectorListerRequiredMessageConstant    = "repository lister must not be nil"
	collectorOwnerRequiredMessageConstant     = "owner must not be empty"
	collectorOldBranchRequiredMessageConstant = "old branch must not be empty"
	repositoryListingFailedTemplateConstant   = "listing repositories for %s failed: %w"
	logMessagePageCollectedConstant           = "Repository page collected"
	logFieldPageNumberConstant                = "page"
	logFieldListedCountConstant               = "listed"
	logFieldEligibleCountConstant             = "eligible"
)

// RepositoryRecord identifies one repository eligible for a branch rename.
type RepositoryRecord struct {
	ID   int64
	Name string
}

// RepositoryLister fetches one page of an owner's repositories.
type RepositoryLister interface {
	ListOwnerRepositories(executionContext context.Context, ownerSegment string, owner string, pageNumber int) (githubcli.RepositoryPage, error)
}

// CollectorOptions describe which repositories the collector should yield.
type CollectorOptions struct {
	OwnerType OwnerType
	Owner     string
	OldBranch string
}

// Collector materializes the full list of rename-eligible repositories before
// any migration begins.
type Collector struct {
	lister RepositoryLister
	logger *zap.Logger
}

// NewCollector constructs a repository collector.
func NewCollector(lister RepositoryLister, logger *zap.Logger) (*Collector, error) {
	if lister == nil {
		return nil, fmt.Errorf(collectorListerRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{lister: lister, logger: logger}, nil
}

// CollectRepositories walks every page of the owner's repository listing and
// keeps the repositories whose default branch is the old branch, skipping
// forks plus archived and disabled repositories. Pagination follows the next
// link advertised by each page.
func (collector *Collector) CollectRepositories(executionContext context.Context, options CollectorOptions) ([]RepositoryRecord, error) {
	trimmedOwner := strings.TrimSpace(options.Owner)
	if len(trimmedOwner) == 0 {
		return nil, fmt.Errorf(collectorOwnerRequiredMessageConstant)
	}
	trimmedOldBranch := strings.TrimSpace(options.OldBranch)
	if len(trimmedOldBranch) == 0 {
		return nil, fmt.Errorf(collectorOldBranchRequiredMessageConstant)
	}

	var eligibleRepositories []RepositoryRecord
	pageNumber := firstPageNumberConstant
	for {
		repositoryPage, listError := collector.lister.ListOwnerRepositories(executionContext, options.OwnerType.PathSegment(), trimmedOwner, pageNumber)
		if listError != nil {
			return nil, fmt.Errorf(repositoryListingFailedTemplateConstant, trimmedOwner, listError)
		}

		eligibleOnPage := 0
		for _, listing := range repositoryPage.Repositories {
			if !isEligible(listing, trimmedOldBranch) {
				continue
			}
			eligibleRepositories = append(eligibleRepositories, RepositoryRecord{ID: listing.ID, Name: listing.Name})
			eligibleOnPage++
		}

		collector.logger.Debug(
			logMessagePageCollectedConstant,
			zap.Int(logFieldPageNumberConstant, pageNumber),
			zap.Int(logFieldListedCountConstant, len(repositoryPage.Repositories)),
			zap.Int(logFieldEligibleCountConstant, eligibleOnPage),
		)

		if !repositoryPage.HasNextPage {
			break
		}
		pageNumber++
	}

	return eligibleRepositories, nil
}

func isEligible(listing githubcli.RepositoryListing, oldBranch string) bool {
	if listing.Fork || listing.Archived || listing.Disabled {
		return false
	}
	return listing.DefaultBranch == oldBranch
}
