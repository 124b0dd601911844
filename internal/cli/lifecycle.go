package cli

import (
	"github.com/spf13/cobra"

	"mlserve/internal/container"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <name>",
		Short: "Stop a running instance, keeping its state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli, err := container.NewClient(ctx)
			if err != nil {
				return err
			}
			defer cli.Close()
			if err := cli.StopInstance(ctx, args[0]); err != nil {
				return err
			}
			log.Info().Str("name", args[0]).Msg("instance stopped")
			return nil
		},
	}
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <name>",
		Short: "Start a previously stopped instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli, err := container.NewClient(ctx)
			if err != nil {
				return err
			}
			defer cli.Close()
			if err := cli.StartInstance(ctx, args[0]); err != nil {
				return err
			}
			log.Info().Str("name", args[0]).Msg("instance started")
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove an instance",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli, err := container.NewClient(ctx)
			if err != nil {
				return err
			}
			defer cli.Close()
			if err := cli.RemoveInstance(ctx, args[0], force); err != nil {
				return err
			}
			log.Info().Str("name", args[0]).Msg("instance removed")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even if running")
	return cmd
}
