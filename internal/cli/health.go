package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mlserve/internal/healthcheck"
)

func newHealthCmd() *cobra.Command {
	var (
		wait        bool
		waitTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "health <port|url>",
		Short: "Probe an instance's liveness endpoint",
		Long: `Probe the /health endpoint of a serving instance. The target may be a
bare external port (probed on 127.0.0.1) or a full base URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveBaseURL(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if wait {
				if err := healthcheck.Wait(ctx, base, waitTimeout, 0); err != nil {
					return err
				}
			} else {
				code, err := healthcheck.Check(ctx, base)
				if err != nil {
					return err
				}
				if code != 200 {
					return fmt.Errorf("health returned status %d", code)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "Retry until healthy or the timeout expires")
	cmd.Flags().DurationVar(&waitTimeout, "timeout", 60*time.Second, "How long to wait with --wait")
	return cmd
}

func resolveBaseURL(target string) (string, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return strings.TrimSuffix(target, "/"), nil
	}
	port, err := strconv.Atoi(target)
	if err != nil || port <= 0 || port > 65535 {
		return "", fmt.Errorf("invalid health target %q: want a port or a base URL", target)
	}
	return fmt.Sprintf("http://127.0.0.1:%d", port), nil
}
