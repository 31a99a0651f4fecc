package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lfdebrux/github-branch-renamer/internal/execshell"
)

const (
	apiSubcommandConstant                    = "api"
	pullRequestSubcommandConstant            = "pr"
	listSubcommandConstant                   = "list"
	editSubcommandConstant                   = "edit"
	includeHeadersFlagConstant               = "-i"
	methodFlagConstant                       = "-X"
	fieldFlagConstant                        = "-f"
	jsonFlagConstant                         = "--json"
	repoFlagConstant                         = "--repo"
	stateFlagConstant                        = "--state"
	baseFlagConstant                         = "--base"
	limitFlagConstant                        = "--limit"
	httpMethodPatchConstant                  = "PATCH"
	repositoryListEndpointTemplateConstant   = "%s/%s/repos?per_page=%d&page=%d"
	repositoryEndpointTemplateConstant       = "repos/%s"
	defaultBranchFieldTemplateConstant       = "default_branch=%s"
	repositoryPageSizeConstant               = 100
	pullRequestLimitDefaultValueConstant     = 100
	pullRequestJSONFieldsConstant            = "number,title,headRefName"
	linkHeaderNameConstant                   = "link"
	linkHeaderNextRelationConstant           = `rel="next"`
	linkHeaderEntrySeparatorConstant         = ","
	linkHeaderSegmentSeparatorConstant       = ";"
	headerDelimiterConstant                  = ":"
	ownerFieldNameConstant                   = "owner"
	ownerSegmentFieldNameConstant            = "owner segment"
	pageFieldNameConstant                    = "page"
	repositoryFieldNameConstant              = "repository"
	branchFieldNameConstant                  = "branch"
	baseBranchFieldNameConstant              = "base_branch"
	stateFieldNameConstant                   = "state"
	pullRequestNumberFieldNameConstant       = "pull_request_number"
	requiredValueMessageConstant             = "value required"
	positiveValueMessageConstant             = "value must be positive"
	executorNotConfiguredMessageConstant     = "github cli executor not configured"
	malformedResponseMessageConstant         = "response missing header terminator"
	operationErrorMessageTemplateConstant    = "%s operation failed"
	operationErrorWithCauseTemplateConstant  = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant    = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant        = "%s: %s"
	listRepositoriesOperationNameConstant    = OperationName("ListOwnerRepositories")
	setDefaultBranchOperationNameConstant    = OperationName("SetDefaultBranch")
	listPullRequestsOperationNameConstant    = OperationName("ListPullRequests")
	updatePullRequestOperationNameConstant   = OperationName("UpdatePullRequestBase")
	responseHeaderBodySeparatorConstant      = "\r\n\r\n"
	responseHeaderBodySeparatorBareConstant  = "\n\n"
	responseLineSeparatorConstant            = "\n"
	responseCarriageReturnTrimConstant       = "\r"
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// PullRequestState describes acceptable GitHub pull request states.
type PullRequestState string

// Pull request state enumerations.
const (
	PullRequestStateOpen   PullRequestState = PullRequestState("open")
	PullRequestStateClosed PullRequestState = PullRequestState("closed")
)

// RepositoryListing captures the repository attributes returned by the listing
// endpoint that drive rename eligibility decisions.
type RepositoryListing struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`
	Disabled      bool   `json:"disabled"`
	DefaultBranch string `json:"default_branch"`
}

// RepositoryPage is one page of repository listings plus a continuation marker.
type RepositoryPage struct {
	Repositories []RepositoryListing
	HasNextPage  bool
}

// PullRequest represents minimal pull request details returned by the GitHub CLI.
type PullRequest struct {
	Number      int
	Title       string
	HeadRefName string
}

// PullRequestListOptions configures ListPullRequests queries.
type PullRequestListOptions struct {
	State       PullRequestState
	BaseBranch  string
	ResultLimit int
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates response parsing failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying parse error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// ListOwnerRepositories retrieves one page of repositories for the owner using
// gh api with response headers included, so pagination follows the Link header
// advertised by GitHub rather than guessing from page sizes.
func (client *Client) ListOwnerRepositories(executionContext context.Context, ownerSegment string, owner string, pageNumber int) (RepositoryPage, error) {
	trimmedSegment := strings.TrimSpace(ownerSegment)
	if len(trimmedSegment) == 0 {
		return RepositoryPage{}, InvalidInputError{FieldName: ownerSegmentFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return RepositoryPage{}, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if pageNumber <= 0 {
		return RepositoryPage{}, InvalidInputError{FieldName: pageFieldNameConstant, Message: positiveValueMessageConstant}
	}

	endpoint := fmt.Sprintf(repositoryListEndpointTemplateConstant, trimmedSegment, trimmedOwner, repositoryPageSizeConstant, pageNumber)
	commandDetails := execshell.CommandDetails{
		Arguments: []string{apiSubcommandConstant, includeHeadersFlagConstant, endpoint},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return RepositoryPage{}, OperationError{Operation: listRepositoriesOperationNameConstant, Cause: executionError}
	}

	headers, body, splitError := splitRawResponse(executionResult.StandardOutput)
	if splitError != nil {
		return RepositoryPage{}, ResponseDecodingError{Operation: listRepositoriesOperationNameConstant, Cause: splitError}
	}

	var listings []RepositoryListing
	decodingError := json.Unmarshal([]byte(body), &listings)
	if decodingError != nil {
		return RepositoryPage{}, ResponseDecodingError{Operation: listRepositoriesOperationNameConstant, Cause: decodingError}
	}

	return RepositoryPage{Repositories: listings, HasNextPage: linkHeaderHasNextPage(headers)}, nil
}

// SetDefaultBranch updates the repository default branch through the REST API.
func (client *Client) SetDefaultBranch(executionContext context.Context, repository string, branchName string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return InvalidInputError{FieldName: branchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			methodFlagConstant,
			httpMethodPatchConstant,
			fmt.Sprintf(repositoryEndpointTemplateConstant, repositoryIdentifier),
			fieldFlagConstant,
			fmt.Sprintf(defaultBranchFieldTemplateConstant, trimmedBranch),
		},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: setDefaultBranchOperationNameConstant, Cause: executionError}
	}
	return nil
}

// ListPullRequests enumerates pull requests using gh pr list.
func (client *Client) ListPullRequests(executionContext context.Context, repository string, options PullRequestListOptions) ([]PullRequest, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(options.BaseBranch)) == 0 {
		return nil, InvalidInputError{FieldName: baseBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(options.State) == 0 {
		return nil, InvalidInputError{FieldName: stateFieldNameConstant, Message: requiredValueMessageConstant}
	}

	resultLimit := options.ResultLimit
	if resultLimit <= 0 {
		resultLimit = pullRequestLimitDefaultValueConstant
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			listSubcommandConstant,
			repoFlagConstant,
			repositoryIdentifier,
			stateFlagConstant,
			string(options.State),
			baseFlagConstant,
			options.BaseBranch,
			jsonFlagConstant,
			pullRequestJSONFieldsConstant,
			limitFlagConstant,
			strconv.Itoa(resultLimit),
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listPullRequestsOperationNameConstant, Cause: executionError}
	}

	var response []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		HeadRefName string `json:"headRefName"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listPullRequestsOperationNameConstant, Cause: decodingError}
	}

	pullRequests := make([]PullRequest, 0, len(response))
	for _, pullRequestEntry := range response {
		pullRequests = append(pullRequests, PullRequest{
			Number:      pullRequestEntry.Number,
			Title:       pullRequestEntry.Title,
			HeadRefName: pullRequestEntry.HeadRefName,
		})
	}

	return pullRequests, nil
}

// UpdatePullRequestBase retargets the pull request base branch using gh pr edit.
func (client *Client) UpdatePullRequestBase(executionContext context.Context, repository string, pullRequestNumber int, baseBranch string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if pullRequestNumber <= 0 {
		return InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}
	trimmedBase := strings.TrimSpace(baseBranch)
	if len(trimmedBase) == 0 {
		return InvalidInputError{FieldName: baseBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			editSubcommandConstant,
			strconv.Itoa(pullRequestNumber),
			repoFlagConstant,
			repositoryIdentifier,
			baseFlagConstant,
			trimmedBase,
		},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: updatePullRequestOperationNameConstant, Cause: executionError}
	}
	return nil
}

func splitRawResponse(rawResponse string) (headerLines []string, body string, splitError error) {
	separatorIndex := strings.Index(rawResponse, responseHeaderBodySeparatorConstant)
	separatorLength := len(responseHeaderBodySeparatorConstant)
	if separatorIndex == -1 {
		separatorIndex = strings.Index(rawResponse, responseHeaderBodySeparatorBareConstant)
		separatorLength = len(responseHeaderBodySeparatorBareConstant)
	}
	if separatorIndex == -1 {
		return nil, "", errors.New(malformedResponseMessageConstant)
	}

	headerSection := rawResponse[:separatorIndex]
	body = rawResponse[separatorIndex+separatorLength:]
	for _, headerLine := range strings.Split(headerSection, responseLineSeparatorConstant) {
		headerLines = append(headerLines, strings.TrimSuffix(headerLine, responseCarriageReturnTrimConstant))
	}
	return headerLines, body, nil
}

func linkHeaderHasNextPage(headerLines []string) bool {
	for _, headerLine := range headerLines {
		delimiterIndex := strings.Index(headerLine, headerDelimiterConstant)
		if delimiterIndex == -1 {
			continue
		}
		headerName := strings.ToLower(strings.TrimSpace(headerLine[:delimiterIndex]))
		if headerName != linkHeaderNameConstant {
			continue
		}
		headerValue := headerLine[delimiterIndex+1:]
		for _, linkEntry := range strings.Split(headerValue, linkHeaderEntrySeparatorConstant) {
			for _, linkSegment := range strings.Split(linkEntry, linkHeaderSegmentSeparatorConstant) {
				if strings.TrimSpace(linkSegment) == linkHeaderNextRelationConstant {
					return true
				}
			}
		}
	}
	return false
}
