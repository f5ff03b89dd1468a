package cli

import (
	"github.com/spf13/cobra"
)

func newShipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ship",
		Short: "Ship catalog and purchase commands",
	}

	cmd.AddCommand(newShipListCmd())
	cmd.AddCommand(newShipBuyCmd())
	cmd.AddCommand(newShipUseCmd())

	return cmd
}

func newShipListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List purchasable ship classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ShipCatalog

			if err := client.Get("/api/v1/world/ships", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newShipBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <ship-id>",
		Short: "Buy a ship class with gold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"ship_id": args[0]}
			var result UnlockResult

			if err := client.Post("/api/v1/actions/unlock-ship", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	return cmd
}

func newShipUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <ship-id>",
		Short: "Switch your active ship to an unlocked class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"ship_id": args[0]}
			var result Player

			if err := client.Post("/api/v1/actions/active-ship", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	return cmd
}
