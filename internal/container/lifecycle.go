package container

import (
	"context"
	"fmt"
	"strings"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"mlserve/pkg/types"
)

// StopInstance stops a running instance by name. The engine's default
// timeout applies: SIGTERM first, SIGKILL if the process lingers.
func (c *Client) StopInstance(ctx context.Context, name string) error {
	if err := c.inner.ContainerStop(ctx, name, containertypes.StopOptions{}); err != nil {
		return fmt.Errorf("stop instance %q: %w", name, err)
	}
	return nil
}

// StartInstance restarts a previously stopped instance by name. The port
// mapping given at creation time is preserved by the engine.
func (c *Client) StartInstance(ctx context.Context, name string) error {
	if err := c.inner.ContainerStart(ctx, name, containertypes.StartOptions{}); err != nil {
		return fmt.Errorf("start instance %q: %w", name, err)
	}
	return nil
}

// RemoveInstance deletes an instance by name. With force, a running
// instance is killed first.
func (c *Client) RemoveInstance(ctx context.Context, name string, force bool) error {
	if err := c.inner.ContainerRemove(ctx, name, containertypes.RemoveOptions{Force: force}); err != nil {
		return fmt.Errorf("remove instance %q: %w", name, err)
	}
	return nil
}

// ListInstances returns every mlserve-managed container, stopped ones
// included, reconstructed from labels.
func (c *Client) ListInstances(ctx context.Context) ([]types.Instance, error) {
	// Filter server-side on the management label.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)
	containers, err := c.inner.ContainerList(ctx, containertypes.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	out := make([]types.Instance, 0, len(containers))
	for _, ct := range containers {
		inst, err := summaryToInstance(ct)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// summaryToInstance maps an engine container summary onto the domain type.
func summaryToInstance(ct containertypes.Summary) (types.Instance, error) {
	// Engine names carry a leading "/"; strip it for display.
	name := ""
	if len(ct.Names) > 0 {
		name = strings.TrimPrefix(ct.Names[0], "/")
	}
	ext, err := parsePortLabel(ct.Labels, LabelExternalPort)
	if err != nil {
		return types.Instance{}, err
	}
	intp, err := parsePortLabel(ct.Labels, LabelInternalPort)
	if err != nil {
		return types.Instance{}, err
	}
	return types.Instance{
		ID:           ct.ID,
		Name:         name,
		Image:        ct.Image,
		Model:        ct.Labels[LabelModel],
		State:        string(ct.State),
		ExternalPort: ext,
		InternalPort: intp,
		CreatedAt:    parseCreatedAt(ct.Labels),
	}, nil
}
