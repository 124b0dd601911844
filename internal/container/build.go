package container

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/build"
	"github.com/moby/go-archive"
	"github.com/rs/zerolog"
)

// buildMessage is one line of the engine's JSON build stream.
type buildMessage struct {
	Stream      string `json:"stream,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorDetail struct {
		Message string `json:"message,omitempty"`
	} `json:"errorDetail,omitempty"`
}

// BuildImage tars the build context at dir and asks the engine to build it
// into an image tagged tag. The Dockerfile is expected at the context root,
// which is where the scaffold puts it. Build output lines are logged as they
// arrive.
func (c *Client) BuildImage(ctx context.Context, dir, tag string, log zerolog.Logger) error {
	buildCtx, err := archive.TarWithOptions(dir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("tar build context %s: %w", dir, err)
	}
	defer buildCtx.Close()

	resp, err := c.inner.ImageBuild(ctx, buildCtx, build.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("image build %s: %w", tag, err)
	}
	defer resp.Body.Close()

	// The build only fails once the stream reports it; drain and watch.
	dec := json.NewDecoder(resp.Body)
	for {
		var msg buildMessage
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read build output: %w", err)
		}
		if msg.Error != "" {
			detail := msg.ErrorDetail.Message
			if detail == "" {
				detail = msg.Error
			}
			return fmt.Errorf("build failed: %s", detail)
		}
		if line := strings.TrimRight(msg.Stream, "\n"); line != "" {
			log.Info().Str("image", tag).Msg(line)
		}
	}
	log.Info().Str("image", tag).Msg("image built")
	return nil
}
