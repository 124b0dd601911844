package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mlserve/internal/container"
	"mlserve/internal/healthcheck"
)

func newRunCmd() *cobra.Command {
	var (
		image       string
		model       string
		portSpec    string
		wait        bool
		waitTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Start a detached serving instance with a port mapping",
		Long: `Start a named container from a serving image, publishing the chosen
external port onto the serving port inside the container. Distinct names and
external ports let several instances share one host.`,
		Example: "  mlsctl run sentiment-blue --image mlserve/sentiment:latest -p 8080 --wait",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			externalPort, internalPort, err := parsePortSpec(portSpec)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cli, err := container.NewClient(ctx)
			if err != nil {
				return err
			}
			defer cli.Close()

			name := args[0]
			id, err := cli.RunInstance(ctx, container.RunSpec{
				Name:         name,
				Image:        image,
				Model:        model,
				ExternalPort: externalPort,
				InternalPort: internalPort,
			})
			if err != nil {
				return err
			}
			log.Info().Str("name", name).Str("id", shortID(id)).Int("external_port", externalPort).Msg("instance started")

			if wait {
				base := fmt.Sprintf("http://127.0.0.1:%d", externalPort)
				if err := healthcheck.Wait(ctx, base, waitTimeout, 0); err != nil {
					return err
				}
				log.Info().Str("name", name).Msg("instance healthy")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "Serving image to run (required)")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier served by the instance")
	cmd.Flags().StringVarP(&portSpec, "port", "p", "", "Port mapping as ext or ext:int, e.g. 8080 or 8080:9000 (required)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for /health to answer before returning")
	cmd.Flags().DurationVar(&waitTimeout, "timeout", 60*time.Second, "How long to wait with --wait")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("port")
	return cmd
}

// parsePortSpec parses "8080" or "8080:9000" into external and internal
// ports. Internal zero means the serving default.
func parsePortSpec(spec string) (external, internal int, err error) {
	extStr, intStr, found := strings.Cut(spec, ":")
	external, err = strconv.Atoi(extStr)
	if err != nil || external <= 0 || external > 65535 {
		return 0, 0, fmt.Errorf("invalid port mapping %q: want ext or ext:int", spec)
	}
	if found {
		internal, err = strconv.Atoi(intStr)
		if err != nil || internal <= 0 || internal > 65535 {
			return 0, 0, fmt.Errorf("invalid port mapping %q: want ext or ext:int", spec)
		}
	}
	return external, internal, nil
}

// shortID trims an engine container id for log output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
