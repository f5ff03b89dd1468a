package cli

import (
	"github.com/spf13/cobra"
)

func newWorldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "world",
		Short: "World state queries",
	}

	cmd.AddCommand(newWorldPlayersCmd())
	cmd.AddCommand(newWorldWrecksCmd())

	return cmd
}

func newWorldPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List online ships, player and hostile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WorldView

			if err := client.Get("/api/v1/world/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newWorldWrecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wrecks",
		Short: "List shipwrecks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WreckList

			if err := client.Get("/api/v1/world/shipwrecks", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
