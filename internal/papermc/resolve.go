package papermc

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LatestAlias selects the last version or build the server lists
const LatestAlias = "latest"

// IsLatest reports whether id asks for the most recent version or build
func IsLatest(id string) bool {
	return id == "" || strings.EqualFold(id, LatestAlias)
}

// LatestVersion returns the last version in server order
func LatestVersion(p *Project) (string, error) {
	if len(p.Versions) == 0 {
		return "", errors.Wrapf(ErrNoVersions, "project %s", p.ProjectID)
	}
	return p.Versions[len(p.Versions)-1], nil
}

// LatestBuild returns the last build in server order
func LatestBuild(v *Version) (int, error) {
	if len(v.Builds) == 0 {
		return 0, errors.Wrapf(ErrNoBuilds, "%s %s", v.ProjectID, v.Version)
	}
	return v.Builds[len(v.Builds)-1], nil
}

// ParseBuild converts a build identifier to its number
func ParseBuild(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n < 0 {
		return 0, errors.Wrapf(ErrInvalidBuild, "%q", id)
	}
	return n, nil
}

// FindBuild returns the build numbered n from a group listing
func FindBuild(g *VersionGroupBuilds, n int) (*Build, error) {
	for i := range g.Builds {
		if g.Builds[i].Number() == n {
			return &g.Builds[i], nil
		}
	}
	return nil, errors.Wrapf(ErrBuildNotFound, "build %d in group %s", n, g.VersionGroup.VersionGroup)
}

// ResolveVersion turns "latest" into the newest version of project. Any other
// value is returned unchanged.
func (c *Client) ResolveVersion(ctx context.Context, project, version string) (string, error) {
	if !IsLatest(version) {
		return version, nil
	}

	p, err := c.Project(ctx, project)
	if err != nil {
		return "", err
	}
	return LatestVersion(p)
}

// ResolveBuild turns "latest" into the newest build of version, otherwise it
// parses the build number.
func (c *Client) ResolveBuild(ctx context.Context, project, version, build string) (int, error) {
	if !IsLatest(build) {
		return ParseBuild(build)
	}

	v, err := c.Version(ctx, project, version)
	if err != nil {
		return 0, err
	}
	return LatestBuild(v)
}
