package cli

import (
	"github.com/spf13/cobra"
)

func newSailCmd() *cobra.Command {
	var x, z, rotation float64
	var destX, destZ float64

	cmd := &cobra.Command{
		Use:   "sail",
		Short: "Report your ship's position and heading",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"position": Vec3{X: x, Z: z},
				"rotation": rotation,
			}
			if cmd.Flags().Changed("dest-x") || cmd.Flags().Changed("dest-z") {
				req["destination"] = Vec3{X: destX, Z: destZ}
			}

			var result Player
			if err := client.Post("/api/v1/players/me/state", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Position X")
	cmd.Flags().Float64Var(&z, "z", 0, "Position Z")
	cmd.Flags().Float64Var(&rotation, "rotation", 0, "Heading in radians")
	cmd.Flags().Float64Var(&destX, "dest-x", 0, "Destination X")
	cmd.Flags().Float64Var(&destZ, "dest-z", 0, "Destination Z")

	return cmd
}
