package cli

import (
	"github.com/spf13/cobra"

	"mlserve/internal/container"
)

func newBuildCmd() *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:     "build <dir>",
		Short:   "Build a serving image from a scaffolded directory",
		Example: "  mlsctl build ./sentiment -t mlserve/sentiment:latest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli, err := container.NewClient(ctx)
			if err != nil {
				return err
			}
			defer cli.Close()
			return cli.BuildImage(ctx, args[0], tag, log)
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Image tag (required)")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}
