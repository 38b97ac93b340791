package papermc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-playground/validator.v9"
)

const defaultUserAgent = "paperctl"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Options configures a Client
type Options struct {
	BaseURL   string
	UserAgent string
	RequestID string
	Timeout   time.Duration

	// Debug prints every request URL and response status to Out
	Debug bool
	Out   io.Writer

	HTTPClient *http.Client
	Logger     *logrus.Entry
}

// Client talks to the PaperMC build-distribution API
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	requestID  string
	debug      bool
	out        io.Writer
	logger     *logrus.Entry
}

// NewClient creates a client from the given options, filling in defaults
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		requestID:  opts.RequestID,
		debug:      opts.Debug,
		out:        opts.Out,
		logger:     opts.Logger,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.logger == nil {
		c.logger = logrus.WithField("component", "papermc-client")
	}

	return c
}

// Projects lists the ids of every project known to the API
func (c *Client) Projects(ctx context.Context) (*ProjectList, error) {
	return fetch[ProjectList](ctx, c, EndpointProjects)
}

// Project fetches a project with its version groups and versions
func (c *Client) Project(ctx context.Context, project string) (*Project, error) {
	return fetch[Project](ctx, c, EndpointProject, project)
}

// VersionGroup fetches the versions of a version group
func (c *Client) VersionGroup(ctx context.Context, project, group string) (*VersionGroup, error) {
	return fetch[VersionGroup](ctx, c, EndpointVersionGroup, project, group)
}

// VersionGroupBuilds fetches every build of a version group
func (c *Client) VersionGroupBuilds(ctx context.Context, project, group string) (*VersionGroupBuilds, error) {
	return fetch[VersionGroupBuilds](ctx, c, EndpointVersionGroupBuilds, project, group)
}

// Version fetches a version with its build numbers
func (c *Client) Version(ctx context.Context, project, version string) (*Version, error) {
	return fetch[Version](ctx, c, EndpointVersion, project, version)
}

// VersionBuild fetches the details of one build of a version
func (c *Client) VersionBuild(ctx context.Context, project, version string, build int) (*VersionBuild, error) {
	return fetch[VersionBuild](ctx, c, EndpointVersionBuild, project, version, build)
}

// fetch requests an endpoint and decodes the body into T. Fields tagged as
// required must be present in the response.
func fetch[T any](ctx context.Context, c *Client, ep Endpoint, segments ...any) (*T, error) {
	path, err := ep.Path(segments...)
	if err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out T
	if err := decodeStrict(resp.Body, &out); err != nil {
		c.logger.WithError(err).WithField("endpoint", ep.String()).Debug("Failed to decode response")
		return nil, errors.Wrapf(err, "failed to decode %s response", ep)
	}

	if err := validate.Struct(&out); err != nil {
		return nil, errors.Wrapf(err, "invalid %s response", ep)
	}

	return &out, nil
}

// decodeStrict decodes a single JSON value from r. Anything but whitespace
// after the value is an error.
func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected data after JSON value")
		}
		return err
	}
	return nil
}

// get issues a GET for path and returns the response when the status is 200.
// Any other status is turned into a StatusError carrying the body text.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.requestID != "" {
		req.Header.Set("X-Request-Id", c.requestID)
	}

	if c.debug {
		fmt.Fprintf(c.out, "GETTING %s\n", req.URL)
	}
	c.logger.WithField("url", url).Debug("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Debug("Request failed")
		return nil, errors.Wrapf(err, "GET %s", url)
	}

	if c.debug {
		fmt.Fprintf(c.out, "Response: %s\n", resp.Status)
	}
	c.logger.WithFields(logrus.Fields{
		"url":    url,
		"status": resp.StatusCode,
	}).Debug("Received response")

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read error response (status %d)", resp.StatusCode)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp, nil
}
