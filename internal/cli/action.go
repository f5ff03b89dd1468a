package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newFireCmd() *cobra.Command {
	var targetKind, targetID string
	var damage int

	cmd := &cobra.Command{
		Use:   "fire",
		Short: "Fire cannons at a target ship",
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetID == "" {
				return fmt.Errorf("--target is required")
			}
			if targetKind != "player" && targetKind != "enemy" {
				return fmt.Errorf("--kind must be player or enemy")
			}

			req := map[string]any{
				"target_kind": targetKind,
				"target_id":   targetID,
				"damage":      damage,
				"fired_at":    time.Now().UTC(),
			}
			var result CombatResult

			if err := client.Post("/api/v1/actions/combat", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetKind, "kind", "enemy", "Target kind: player or enemy")
	cmd.Flags().StringVar(&targetID, "target", "", "Target ship ID (required)")
	cmd.Flags().IntVar(&damage, "damage", 10, "Damage to deal")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newLootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loot <wreck-id>",
		Short: "Loot a shipwreck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"shipwreck_id": args[0]}
			var result LootResult

			if err := client.Post("/api/v1/actions/loot", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Respawn your sunk ship at the home harbor",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Post("/api/v1/actions/reset-ship", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
