package papermc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBuildNotFound is returned when a build number is absent from a fetched listing
	ErrBuildNotFound = errors.New("build not found")
	// ErrInvalidBuild is returned for build identifiers that are neither a number nor "latest"
	ErrInvalidBuild = errors.New("build must be a number")
	// ErrNoVersions is returned when "latest" is requested for a project without versions
	ErrNoVersions = errors.New("project has no versions")
	// ErrNoBuilds is returned when "latest" is requested for a version without builds
	ErrNoBuilds = errors.New("version has no builds")
)

// StatusError is returned for any non-200 response. Its message is the
// response body exactly as the server sent it.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}
	return e.Body
}
