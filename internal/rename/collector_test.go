package rename_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lfdebrux/github-branch-renamer/internal/githubcli"
	"github.com/lfdebrux/github-branch-renamer/internal/rename"
)

const (
	collectorOwnerConstant     = "acme"
	collectorOldBranchConstant = "master"
)

type stubRepositoryLister struct {
	pages          []githubcli.RepositoryPage
	recordedPages  []int
	recordedOwners []string
	listError      error
}

func (lister *stubRepositoryLister) ListOwnerRepositories(_ context.Context, _ string, owner string, pageNumber int) (githubcli.RepositoryPage, error) {
	lister.recordedPages = append(lister.recordedPages, pageNumber)
	lister.recordedOwners = append(lister.recordedOwners, owner)
	if lister.listError != nil {
		return githubcli.RepositoryPage{}, lister.listError
	}
	return lister.pages[pageNumber-1], nil
}

func TestCollectorFiltersIneligibleRepositories(t *testing.T) {
	lister := &stubRepositoryLister{pages: []githubcli.RepositoryPage{{
		Repositories: []githubcli.RepositoryListing{
			{ID: 1, Name: "svc-a", DefaultBranch: collectorOldBranchConstant},
			{ID: 2, Name: "svc-b", Fork: true, DefaultBranch: collectorOldBranchConstant},
			{ID: 3, Name: "svc-c", DefaultBranch: "main"},
			{ID: 4, Name: "svc-d", Archived: true, DefaultBranch: collectorOldBranchConstant},
			{ID: 5, Name: "svc-e", Disabled: true, DefaultBranch: collectorOldBranchConstant},
		},
	}}}

	collector, creationError := rename.NewCollector(lister, zap.NewNop())
	require.NoError(t, creationError)

	records, collectionError := collector.CollectRepositories(context.Background(), rename.CollectorOptions{
		OwnerType: rename.OrganizationOwnerType,
		Owner:     collectorOwnerConstant,
		OldBranch: collectorOldBranchConstant,
	})
	require.NoError(t, collectionError)
	require.Equal(t, []rename.RepositoryRecord{{ID: 1, Name: "svc-a"}}, records)
}

func TestCollectorFollowsPaginationLinks(t *testing.T) {
	buildPage := func(startID int64, count int, hasNext bool) githubcli.RepositoryPage {
		page := githubcli.RepositoryPage{HasNextPage: hasNext}
		for index := 0; index < count; index++ {
			page.Repositories = append(page.Repositories, githubcli.RepositoryListing{
				ID:            startID + int64(index),
				Name:          fmt.Sprintf("repo-%d", startID+int64(index)),
				DefaultBranch: collectorOldBranchConstant,
			})
		}
		return page
	}

	lister := &stubRepositoryLister{pages: []githubcli.RepositoryPage{
		buildPage(1, 100, true),
		buildPage(101, 100, true),
		buildPage(201, 1, false),
	}}

	collector, creationError := rename.NewCollector(lister, zap.NewNop())
	require.NoError(t, creationError)

	records, collectionError := collector.CollectRepositories(context.Background(), rename.CollectorOptions{
		OwnerType: rename.UserOwnerType,
		Owner:     collectorOwnerConstant,
		OldBranch: collectorOldBranchConstant,
	})
	require.NoError(t, collectionError)
	require.Equal(t, []int{1, 2, 3}, lister.recordedPages)
	require.Len(t, records, 201)
	require.Equal(t, rename.RepositoryRecord{ID: 201, Name: "repo-201"}, records[200])
}

func TestCollectorReturnsEmptyListWithoutError(t *testing.T) {
	lister := &stubRepositoryLister{pages: []githubcli.RepositoryPage{{}}}
	collector, creationError := rename.NewCollector(lister, zap.NewNop())
	require.NoError(t, creationError)

	records, collectionError := collector.CollectRepositories(context.Background(), rename.CollectorOptions{
		OwnerType: rename.UserOwnerType,
		Owner:     collectorOwnerConstant,
		OldBranch: collectorOldBranchConstant,
	})
	require.NoError(t, collectionError)
	require.Empty(t, records)
}

func TestCollectorValidatesOptions(t *testing.T) {
	lister := &stubRepositoryLister{}
	collector, creationError := rename.NewCollector(lister, zap.NewNop())
	require.NoError(t, creationError)

	_, missingOwnerError := collector.CollectRepositories(context.Background(), rename.CollectorOptions{OldBranch: collectorOldBranchConstant})
	require.Error(t, missingOwnerError)

	_, missingBranchError := collector.CollectRepositories(context.Background(), rename.CollectorOptions{Owner: collectorOwnerConstant})
	require.Error(t, missingBranchError)
	require.Empty(t, lister.recordedPages)
}
