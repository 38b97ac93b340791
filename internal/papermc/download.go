package papermc

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const chunkSize = 32 * 1024

// ChunkSink receives downloaded data in arrival order. The slice is only
// valid for the duration of the call.
type ChunkSink func(chunk []byte) error

// DownloadBuild streams the named artifact of a build to sink and returns the
// number of bytes delivered. The body is never buffered as a whole.
func (c *Client) DownloadBuild(ctx context.Context, project, version string, build int, name string, sink ChunkSink) (int64, error) {
	path, err := EndpointDownload.Path(project, version, build, name)
	if err != nil {
		return 0, err
	}

	log := c.logger.WithFields(logrus.Fields{
		"project": project,
		"version": version,
		"build":   build,
		"file":    name,
	})
	log.Debug("Starting artifact download")

	resp, err := c.get(ctx, path)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	written, err := StreamChunks(ctx, resp.Body, sink)
	if err != nil {
		log.WithError(err).WithField("bytes", written).Debug("Artifact download aborted")
		return written, err
	}

	log.WithField("bytes", written).Debug("Artifact download completed")
	return written, nil
}

// StreamChunks reads src until EOF and hands every chunk read to sink.
// Cancellation is checked before each read.
func StreamChunks(ctx context.Context, src io.Reader, sink ChunkSink) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		nr, readErr := src.Read(buf)
		if nr > 0 {
			if err := sink(buf[:nr]); err != nil {
				return written, errors.Wrap(err, "failed to write chunk")
			}
			written += int64(nr)
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, errors.Wrap(readErr, "failed to read response body")
		}
	}
}
