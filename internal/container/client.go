// Package container wraps the Docker Engine SDK for the mlserve instance
// lifecycle: building serving images and running, stopping, starting and
// listing the containers created from them. Instance metadata lives in
// container labels; there is no state file on the host.
package container

import (
	"context"
	"time"

	"github.com/docker/docker/client"
)

// pingTimeout bounds the daemon liveness probe so an unresponsive engine
// (e.g. a paused Docker Desktop) fails fast instead of hanging the CLI.
const pingTimeout = 5 * time.Second

// Client wraps the Docker SDK client so the rest of the tool never touches
// engine types directly.
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client from the environment (DOCKER_HOST,
// DOCKER_TLS_VERIFY, DOCKER_CERT_PATH) with API version negotiation, and
// verifies the daemon is reachable.
func NewClient(ctx context.Context) (*Client, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, errDockerUnavailable{reason: "create docker client", cause: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		_ = cli.Close()
		return nil, errDockerUnavailable{reason: "docker daemon is not responding; is Docker running?", cause: err}
	}

	return &Client{inner: cli}, nil
}

// Close releases resources held by the underlying SDK client.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}
