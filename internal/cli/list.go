package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mlserve/internal/container"
)

func newListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List managed serving instances",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cli, err := container.NewClient(ctx)
			if err != nil {
				return err
			}
			defer cli.Close()

			instances, err := cli.ListInstances(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				out, err := json.MarshalIndent(instances, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tIMAGE\tMODEL\tSTATE\tPORTS")
			for _, in := range instances {
				ports := "-"
				if in.ExternalPort != 0 {
					ports = fmt.Sprintf("%d->%d", in.ExternalPort, in.InternalPort)
				}
				model := in.Model
				if model == "" {
					model = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", in.Name, in.Image, model, in.State, ports)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	return cmd
}
