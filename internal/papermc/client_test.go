package papermc

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	projectJSON = `{
		"project_id": "paper",
		"project_name": "Paper",
		"version_groups": ["1.16", "1.17", "1.18"],
		"versions": ["1.16.5", "1.17", "1.18"]
	}`
	versionGroupJSON = `{
		"project_id": "paper",
		"project_name": "Paper",
		"version_group": "1.17",
		"versions": ["1.17", "1.17.1"]
	}`
	versionGroupBuildsJSON = `{
		"project_id": "paper",
		"project_name": "Paper",
		"version_group": "1.17",
		"versions": ["1.17", "1.17.1"],
		"builds": [
			{"version": "1.17", "build": 5, "time": "2021-06-12T20:35:57.434Z", "channel": "default",
			 "changes": [{"commit": "aaa", "summary": "first", "message": "first\n"}],
			 "downloads": {"application": {"name": "paper-1.17-5.jar", "sha256": "abc"}}},
			{"version": "1.17", "build": 7, "time": "2021-06-13T10:00:00Z",
			 "changes": [],
			 "downloads": {"application": {"name": "paper-1.17-7.jar", "sha256": "def"}}},
			{"version": "1.17.1", "build": 9, "time": "2021-07-06T08:00:00Z",
			 "changes": [{"commit": "ccc", "summary": "third", "message": "third\n"}],
			 "downloads": {"application": {"name": "paper-1.17.1-9.jar", "sha256": "ghi"}}}
		]
	}`
	versionJSON = `{
		"project_id": "paper",
		"project_name": "Paper",
		"version": "1.18",
		"builds": [10, 11, 15]
	}`
	versionBuildJSON = `{
		"project_id": "paper",
		"project_name": "Paper",
		"version": "1.18",
		"build": 15,
		"time": "2021-12-01T12:30:00.000Z",
		"changes": [{"commit": "0123abcd", "summary": "Update upstream", "message": "Update upstream\n\nbody"}],
		"downloads": {
			"application": {"name": "paper-1.18-15.jar", "sha256": "ffee"},
			"mojang-mappings": {"name": "mappings.txt", "sha256": "0000"}
		}
	}`
)

// newTestServer serves canned bodies keyed by request path
func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no such resource"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(Options{BaseURL: server.URL, Out: &bytes.Buffer{}})
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{})

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, defaultUserAgent, c.userAgent)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.logger)
	assert.False(t, c.debug)
}

func TestProjects(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/v2/projects": `{"projects": ["paper", "travertine", "waterfall", "velocity"]}`,
	})

	list, err := newTestClient(server).Projects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"paper", "travertine", "waterfall", "velocity"}, list.Projects)
}

func TestProject(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects/paper": projectJSON})

	project, err := newTestClient(server).Project(context.Background(), "paper")

	require.NoError(t, err)
	assert.Equal(t, &Project{
		ProjectID:     "paper",
		ProjectName:   "Paper",
		VersionGroups: []string{"1.16", "1.17", "1.18"},
		Versions:      []string{"1.16.5", "1.17", "1.18"},
	}, project)
}

func TestVersionGroup(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects/paper/version_group/1.17": versionGroupJSON})

	group, err := newTestClient(server).VersionGroup(context.Background(), "paper", "1.17")

	require.NoError(t, err)
	assert.Equal(t, &VersionGroup{
		ProjectID:    "paper",
		ProjectName:  "Paper",
		VersionGroup: "1.17",
		Versions:     []string{"1.17", "1.17.1"},
	}, group)
}

func TestVersionGroupBuilds(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects/paper/version_group/1.17/builds": versionGroupBuildsJSON})

	group, err := newTestClient(server).VersionGroupBuilds(context.Background(), "paper", "1.17")

	require.NoError(t, err)
	assert.Equal(t, "1.17", group.VersionGroup.VersionGroup)
	assert.Equal(t, []string{"1.17", "1.17.1"}, group.Versions)
	require.Len(t, group.Builds, 3)

	first := group.Builds[0]
	assert.Equal(t, 5, first.Number())
	assert.Equal(t, "1.17", first.Version)
	assert.Equal(t, time.Date(2021, 6, 12, 20, 35, 57, 434000000, time.UTC), first.Time.UTC())
	assert.Equal(t, []Change{{Commit: "aaa", Summary: "first", Message: "first\n"}}, first.Changes)
	assert.Equal(t, Download{Name: "paper-1.17-5.jar", SHA256: "abc"}, first.Downloads.Application)

	assert.Empty(t, group.Builds[1].Changes)
	assert.NotNil(t, group.Builds[1].Changes)
	assert.Equal(t, "1.17.1", group.Builds[2].Version)
}

func TestVersion(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects/paper/versions/1.18": versionJSON})

	version, err := newTestClient(server).Version(context.Background(), "paper", "1.18")

	require.NoError(t, err)
	assert.Equal(t, &Version{
		ProjectID:   "paper",
		ProjectName: "Paper",
		Version:     "1.18",
		Builds:      []int{10, 11, 15},
	}, version)
}

func TestVersionBuild(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects/paper/versions/1.18/builds/15": versionBuildJSON})

	build, err := newTestClient(server).VersionBuild(context.Background(), "paper", "1.18", 15)

	require.NoError(t, err)
	assert.Equal(t, "paper", build.ProjectID)
	assert.Equal(t, "Paper", build.ProjectName)
	assert.Equal(t, "1.18", build.Version)
	assert.Equal(t, 15, build.Number())
	assert.Equal(t, time.Date(2021, 12, 1, 12, 30, 0, 0, time.UTC), build.Time.UTC())
	assert.Equal(t, []Change{{
		Commit:  "0123abcd",
		Summary: "Update upstream",
		Message: "Update upstream\n\nbody",
	}}, build.Changes)
	assert.Equal(t, Download{Name: "paper-1.18-15.jar", SHA256: "ffee"}, build.Downloads.Application)
}

func TestNonOKStatusReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such project"}`))
	}))
	defer server.Close()

	c := newTestClient(server)
	ctx := context.Background()

	calls := map[string]func() error{
		"projects":             func() error { _, err := c.Projects(ctx); return err },
		"project":              func() error { _, err := c.Project(ctx, "nope"); return err },
		"version-group":        func() error { _, err := c.VersionGroup(ctx, "nope", "1.17"); return err },
		"version-group-builds": func() error { _, err := c.VersionGroupBuilds(ctx, "nope", "1.17"); return err },
		"version":              func() error { _, err := c.Version(ctx, "nope", "1.18"); return err },
		"version-build":        func() error { _, err := c.VersionBuild(ctx, "nope", "1.18", 1); return err },
		"download": func() error {
			_, err := c.DownloadBuild(ctx, "nope", "1.18", 1, "x.jar", func([]byte) error { return nil })
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()

			require.Error(t, err)
			assert.Equal(t, `{"error":"no such project"}`, err.Error())

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		})
	}
}

func TestStatusErrorWithoutBody(t *testing.T) {
	err := &StatusError{StatusCode: http.StatusBadGateway}

	assert.Equal(t, "unexpected status code 502", err.Error())
}

func TestMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>oops</html>`},
		{name: "truncated", body: `{"project_id": "paper", "project_name": `},
		{name: "empty body", body: ``},
		{name: "wrong type", body: `{"project_id": 1, "project_name": "Paper", "version_groups": [], "versions": []}`},
		{name: "missing versions", body: `{"project_id": "paper", "project_name": "Paper", "version_groups": []}`},
		{name: "null versions", body: `{"project_id": "paper", "project_name": "Paper", "version_groups": [], "versions": null}`},
		{name: "missing id", body: `{"project_name": "Paper", "version_groups": [], "versions": []}`},
		{name: "trailing braces", body: projectJSON + "}}}"},
		{name: "second object", body: projectJSON + projectJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, map[string]string{"/v2/projects/paper": tt.body})

			project, err := newTestClient(server).Project(context.Background(), "paper")

			assert.Error(t, err)
			assert.Nil(t, project)
		})
	}
}

func TestTrailingDataAfterJSON(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/v2/projects": `{"projects": ["paper"]} not json at all`,
	})

	list, err := newTestClient(server).Projects(context.Background())

	require.Error(t, err)
	assert.Nil(t, list)
	assert.Contains(t, err.Error(), "failed to decode projects response")
}

func TestTrailingWhitespaceAccepted(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/v2/projects": "{\"projects\": [\"paper\"]}\n\n  ",
	})

	list, err := newTestClient(server).Projects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"paper"}, list.Projects)
}

func TestMissingNestedFieldFails(t *testing.T) {
	body := `{
		"project_id": "paper", "project_name": "Paper", "version": "1.18", "build": 15,
		"time": "2021-12-01T12:30:00Z", "changes": [],
		"downloads": {"application": {"name": "paper-1.18-15.jar"}}
	}`
	server := newTestServer(t, map[string]string{"/v2/projects/paper/versions/1.18/builds/15": body})

	_, err := newTestClient(server).VersionBuild(context.Background(), "paper", "1.18", 15)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sha256")
}

func TestBuildNumberZeroIsValid(t *testing.T) {
	body := `{
		"project_id": "paper", "project_name": "Paper", "version": "1.18", "build": 0,
		"time": "2021-12-01T12:30:00Z", "changes": [],
		"downloads": {"application": {"name": "paper-1.18-0.jar", "sha256": "aa"}}
	}`
	server := newTestServer(t, map[string]string{"/v2/projects/paper/versions/1.18/builds/0": body})

	build, err := newTestClient(server).VersionBuild(context.Background(), "paper", "1.18", 0)

	require.NoError(t, err)
	require.NotNil(t, build.Build.Build)
	assert.Equal(t, 0, build.Number())
}

func TestMissingBuildNumberFails(t *testing.T) {
	body := `{
		"project_id": "paper", "project_name": "Paper", "version": "1.18",
		"time": "2021-12-01T12:30:00Z", "changes": [],
		"downloads": {"application": {"name": "paper-1.18-15.jar", "sha256": "aa"}}
	}`
	server := newTestServer(t, map[string]string{"/v2/projects/paper/versions/1.18/builds/15": body})

	build, err := newTestClient(server).VersionBuild(context.Background(), "paper", "1.18", 15)

	require.Error(t, err)
	assert.Nil(t, build)
	assert.Contains(t, err.Error(), "build")
}

func TestEmptyListsAreValid(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/v2/projects/waterfall": `{"project_id": "waterfall", "project_name": "Waterfall", "version_groups": [], "versions": []}`,
	})

	project, err := newTestClient(server).Project(context.Background(), "waterfall")

	require.NoError(t, err)
	assert.Empty(t, project.Versions)
}

func TestTransportErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(Options{BaseURL: url}).Projects(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET "+url+"/v2/projects")
	assert.NotEqual(t, err, errors.Cause(err))
}

func TestDebugOutput(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects": `{"projects": ["paper"]}`})

	var out bytes.Buffer
	c := NewClient(Options{BaseURL: server.URL, Debug: true, Out: &out})

	_, err := c.Projects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "GETTING "+server.URL+"/v2/projects\nResponse: 200 OK\n", out.String())
}

func TestNoDebugOutput(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects": `{"projects": ["paper"]}`})

	var out bytes.Buffer
	c := NewClient(Options{BaseURL: server.URL, Out: &out})

	_, err := c.Projects(context.Background())

	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"projects": []}`))
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL + "/", UserAgent: "paperctl/1.2.3", RequestID: "req-1"})

	_, err := c.Projects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "paperctl/1.2.3", got.Get("User-Agent"))
	assert.Equal(t, "req-1", got.Get("X-Request-Id"))
}

func TestCancelledContext(t *testing.T) {
	server := newTestServer(t, map[string]string{"/v2/projects": `{"projects": []}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server).Projects(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
