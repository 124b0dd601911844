package cli

import (
	"github.com/spf13/cobra"

	"mlserve/internal/scaffold"
)

func newInitCmd() *cobra.Command {
	var (
		force     bool
		port      int
		baseImage string
		pkg       string
	)
	cmd := &cobra.Command{
		Use:     "init [dir]",
		Short:   "Write the container build recipe into a serving directory",
		Example: "  mlsctl init .\n  mlsctl init ./sentiment --port 9000",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			opts := scaffold.Options{
				InternalPort:  port,
				BaseImage:     baseImage,
				ServerPackage: pkg,
			}
			if err := scaffold.Write(dir, opts, force); err != nil {
				return err
			}
			log.Info().Str("dir", dir).Msg("build recipe written")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().IntVar(&port, "port", 0, "Internal serving port (default 8000)")
	cmd.Flags().StringVar(&baseImage, "base-image", "", "Build stage base image")
	cmd.Flags().StringVar(&pkg, "server-package", "", "Main package built into the image (default ./cmd/server)")
	return cmd
}
