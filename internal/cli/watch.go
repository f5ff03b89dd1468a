package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/sim/reconcile"
)

func toModelVec(v Vec3) model.Vec3 {
	return model.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream the live world feed",
		Long: `Connect to the websocket feed and stream world updates in real-time.

World snapshots are smoothed through a local tracker, so only meaningful
changes are printed: ships appearing, disappearing, respawning, or being
corrected onto new positions, plus every combat event.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchFeed(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output raw frames as JSON lines")

	return cmd
}

// FeedShip is one ship in a feed frame
type FeedShip struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name,omitempty"`
	Position    Vec3    `json:"position"`
	Rotation    float64 `json:"rotation"`
	Health      int     `json:"health"`
	IsSunk      bool    `json:"is_sunk"`
}

// FeedEvent is one combat event in a feed frame
type FeedEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	SourceID  string `json:"source_id"`
	TargetID  string `json:"target_id"`
	Damage    int    `json:"damage"`
	IsMiss    bool   `json:"is_miss"`
}

// FeedFrame is one websocket message from the feed
type FeedFrame struct {
	Type       string     `json:"type"`
	Timestamp  time.Time  `json:"timestamp"`
	Players    []FeedShip `json:"players,omitempty"`
	EnemyShips []FeedShip `json:"enemy_ships,omitempty"`
	Event      *FeedEvent `json:"event,omitempty"`
}

func watchFeed(jsonOutput bool) error {
	wsURL, err := feedURL(cfg.ServerURL)
	if err != nil {
		return err
	}

	header := http.Header{}
	if cfg.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Token)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: %s", resp.Status)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Println("Connected to world feed")
	}

	tracker := reconcile.NewTracker(reconcile.DefaultConfig())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("feed error: %w", err)
		}

		if jsonOutput {
			fmt.Println(string(data))
			continue
		}

		var frame FeedFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		switch frame.Type {
		case "world":
			printWorldChanges(tracker, frame)
		case "combat_event":
			if frame.Event != nil {
				printCombatEvent(frame.Timestamp, frame.Event)
			}
		}
	}
}

// printWorldChanges feeds the snapshot through the tracker and reports
// only the updates that changed a track.
func printWorldChanges(tracker *reconcile.Tracker, frame FeedFrame) {
	seen := make(map[string]bool)

	observe := func(ship FeedShip) {
		seen[ship.ID] = true
		outcome := tracker.Observe(reconcile.Update{
			ID:       ship.ID,
			Position: toModelVec(ship.Position),
			Rotation: ship.Rotation,
			IsOnline: true,
			IsSunk:   ship.IsSunk,
		})
		name := ship.DisplayName
		if name == "" {
			name = ship.ID
		}
		switch outcome {
		case reconcile.OutcomeCreated:
			fmt.Printf("[%s] + %s at (%.1f, %.1f)\n", stamp(frame.Timestamp), name, ship.Position.X, ship.Position.Z)
		case reconcile.OutcomeRespawned:
			fmt.Printf("[%s] ~ %s respawned at (%.1f, %.1f)\n", stamp(frame.Timestamp), name, ship.Position.X, ship.Position.Z)
		}
	}

	for _, p := range frame.Players {
		observe(p)
	}
	for _, e := range frame.EnemyShips {
		observe(e)
	}

	// Ships that vanished from the snapshot have gone offline
	for _, tracked := range tracker.Ships() {
		if seen[tracked.ID] {
			continue
		}
		outcome := tracker.Observe(reconcile.Update{ID: tracked.ID, IsOnline: false})
		if outcome == reconcile.OutcomeRemoved {
			fmt.Printf("[%s] - %s left\n", stamp(frame.Timestamp), tracked.ID)
		}
	}
}

func printCombatEvent(ts time.Time, evt *FeedEvent) {
	switch {
	case evt.EventType == "sink":
		fmt.Printf("[%s] %s sank %s\n", stamp(ts), evt.SourceID, evt.TargetID)
	case evt.IsMiss:
		fmt.Printf("[%s] %s fired at %s and missed\n", stamp(ts), evt.SourceID, evt.TargetID)
	default:
		fmt.Printf("[%s] %s hit %s for %d\n", stamp(ts), evt.SourceID, evt.TargetID, evt.Damage)
	}
}

func stamp(t time.Time) string {
	return t.Format("15:04:05")
}

// feedURL converts the configured HTTP server URL into a websocket URL
func feedURL(serverURL string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/api/v1/feed"
	return u.String(), nil
}
