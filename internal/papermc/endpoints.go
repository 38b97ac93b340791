package papermc

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Endpoint identifies one of the API resources the client knows how to request
type Endpoint int

const (
	EndpointProjects Endpoint = iota
	EndpointProject
	EndpointVersionGroup
	EndpointVersionGroupBuilds
	EndpointVersion
	EndpointVersionBuild
	EndpointDownload
)

// DefaultBaseURL is the public PaperMC API root
const DefaultBaseURL = "https://papermc.io/api"

// endpointTemplates maps every endpoint to its path template. Placeholders are
// filled in order by Path.
var endpointTemplates = map[Endpoint]string{
	EndpointProjects:           "/v2/projects",
	EndpointProject:            "/v2/projects/%s",
	EndpointVersionGroup:       "/v2/projects/%s/version_group/%s",
	EndpointVersionGroupBuilds: "/v2/projects/%s/version_group/%s/builds",
	EndpointVersion:            "/v2/projects/%s/versions/%s",
	EndpointVersionBuild:       "/v2/projects/%s/versions/%s/builds/%s",
	EndpointDownload:           "/v2/projects/%s/versions/%s/builds/%s/downloads/%s",
}

var endpointNames = map[Endpoint]string{
	EndpointProjects:           "projects",
	EndpointProject:            "project",
	EndpointVersionGroup:       "version-group",
	EndpointVersionGroupBuilds: "version-group-builds",
	EndpointVersion:            "version",
	EndpointVersionBuild:       "version-build",
	EndpointDownload:           "download",
}

func (e Endpoint) String() string {
	if name, ok := endpointNames[e]; ok {
		return name
	}
	return fmt.Sprintf("endpoint(%d)", int(e))
}

// Path renders the endpoint path with each segment escaped
func (e Endpoint) Path(segments ...any) (string, error) {
	tmpl, ok := endpointTemplates[e]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %d", int(e))
	}
	if want := strings.Count(tmpl, "%s"); want != len(segments) {
		return "", fmt.Errorf("%s: expected %d path segments, got %d", e, want, len(segments))
	}

	args := make([]any, 0, len(segments))
	for _, s := range segments {
		switch v := s.(type) {
		case string:
			if v == "" {
				return "", fmt.Errorf("%s: empty path segment", e)
			}
			args = append(args, url.PathEscape(v))
		case int:
			args = append(args, strconv.Itoa(v))
		default:
			return "", fmt.Errorf("%s: unsupported path segment type %T", e, s)
		}
	}

	return fmt.Sprintf(tmpl, args...), nil
}
