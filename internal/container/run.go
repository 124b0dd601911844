package container

import (
	"context"
	"fmt"
	"strconv"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

// RunSpec describes an instance to start. InternalPort zero falls back to
// the serving default; everything else is required.
type RunSpec struct {
	Name         string
	Image        string
	Model        string
	ExternalPort int
	InternalPort int
}

// defaultInternalPort mirrors the serving default so the mapping convention
// holds even when the caller leaves InternalPort unset.
const defaultInternalPort = 8000

func (s *RunSpec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("instance name is required")
	}
	if s.Image == "" {
		return fmt.Errorf("image is required")
	}
	if s.ExternalPort <= 0 || s.ExternalPort > 65535 {
		return fmt.Errorf("external port %d out of range", s.ExternalPort)
	}
	if s.InternalPort == 0 {
		s.InternalPort = defaultInternalPort
	}
	if s.InternalPort < 0 || s.InternalPort > 65535 {
		return fmt.Errorf("internal port %d out of range", s.InternalPort)
	}
	return nil
}

// portConfig builds the exposure and binding maps publishing
// externalPort -> internalPort/tcp on all host interfaces.
func portConfig(externalPort, internalPort int) (nat.PortSet, nat.PortMap) {
	containerPort := nat.Port(fmt.Sprintf("%d/tcp", internalPort))
	exposed := nat.PortSet{containerPort: struct{}{}}
	bindings := nat.PortMap{
		containerPort: []nat.PortBinding{
			{HostIP: "0.0.0.0", HostPort: strconv.Itoa(externalPort)},
		},
	}
	return exposed, bindings
}

// RunInstance creates and starts a detached serving container per spec.
// The container is named, labeled and published external:internal, so
// multiple instances of the same image coexist on one host as long as their
// names and external ports differ.
func (c *Client) RunInstance(ctx context.Context, spec RunSpec) (string, error) {
	if err := spec.validate(); err != nil {
		return "", err
	}

	exposed, bindings := portConfig(spec.ExternalPort, spec.InternalPort)
	cfg := &containertypes.Config{
		Image:        spec.Image,
		Labels:       buildLabels(spec.Model, spec.ExternalPort, spec.InternalPort, time.Now()),
		ExposedPorts: exposed,
	}
	hostCfg := &containertypes.HostConfig{
		PortBindings: bindings,
	}

	resp, err := c.inner.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		if cerrdefs.IsConflict(err) {
			return "", nameInUseError{name: spec.Name}
		}
		return "", fmt.Errorf("create instance %q: %w", spec.Name, err)
	}

	if err := c.inner.ContainerStart(ctx, resp.ID, containertypes.StartOptions{}); err != nil {
		return "", fmt.Errorf("start instance %q: %w", spec.Name, err)
	}
	return resp.ID, nil
}
