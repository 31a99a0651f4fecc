package gitrepo

import (
	"fmt"
	"strings"
)

const (
	httpsProtocolPrefixConstant    = "https://"
	credentialDelimiterConstant    = "@"
	pathSeparatorConstant          = "/"
	gitSuffixConstant              = ".git"
	remoteURLErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant   = "value is required"
	defaultRemoteHostConstant      = "github.com"
)

// RemoteURL describes an HTTPS git remote for a hosted repository.
type RemoteURL struct {
	Host       string
	Owner      string
	Repository string
	Token      string
}

// RemoteURLError indicates a remote URL could not be constructed.
type RemoteURLError struct {
	Field   string
	Message string
}

// Error describes the construction failure.
func (urlError RemoteURLError) Error() string {
	return fmt.Sprintf(remoteURLErrorTemplateConstant, urlError.Field, urlError.Message)
}

// CloneURL formats the remote as an HTTPS clone URL, embedding the token as a
// credential when one is present.
func (remote RemoteURL) CloneURL() (string, error) {
	host := strings.TrimSpace(remote.Host)
	if len(host) == 0 {
		host = defaultRemoteHostConstant
	}
	owner := strings.TrimSpace(remote.Owner)
	if len(owner) == 0 {
		return "", RemoteURLError{Field: "owner", Message: requiredValueMessageConstant}
	}
	repository := strings.TrimSpace(remote.Repository)
	if len(repository) == 0 {
		return "", RemoteURLError{Field: "repository", Message: requiredValueMessageConstant}
	}
	repository = strings.TrimSuffix(repository, gitSuffixConstant)

	builder := strings.Builder{}
	builder.WriteString(httpsProtocolPrefixConstant)
	token := strings.TrimSpace(remote.Token)
	if len(token) > 0 {
		builder.WriteString(token)
		builder.WriteString(credentialDelimiterConstant)
	}
	builder.WriteString(host)
	builder.WriteString(pathSeparatorConstant)
	builder.WriteString(owner)
	builder.WriteString(pathSeparatorConstant)
	builder.WriteString(repository)
	builder.WriteString(gitSuffixConstant)
	return builder.String(), nil
}
