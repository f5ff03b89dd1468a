package feed_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/feed"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/fleet"
	"github.com/windward-game/windward/internal/store/memory"
	"github.com/windward-game/windward/internal/testutil"
)

type FeedSuite struct {
	suite.Suite

	ctx    context.Context
	cancel context.CancelFunc
	store  *memory.Store
	hub    *feed.Hub
	server *httptest.Server
}

func TestFeedSuite(t *testing.T) {
	suite.Run(t, new(FeedSuite))
}

func (s *FeedSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	clk := clock.New()
	s.store = memory.New(clk)
	fleetSvc := fleet.New(s.store, clk, testutil.NopLogger())
	s.hub = feed.NewHub(fleetSvc, s.store, clk, 10*time.Millisecond, testutil.NopLogger())
	go s.hub.Run(s.ctx)
	s.server = httptest.NewServer(http.HandlerFunc(s.hub.ServeWS))
}

func (s *FeedSuite) TearDownTest() {
	s.cancel()
	s.server.Close()
}

func (s *FeedSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

func (s *FeedSuite) readUntil(conn *websocket.Conn, msgType string) feed.Message {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		s.Require().NoError(err)

		var msg feed.Message
		s.Require().NoError(json.Unmarshal(data, &msg))
		if msg.Type == msgType {
			return msg
		}
	}
	s.FailNow(fmt.Sprintf("no %q message before deadline", msgType))
	return feed.Message{}
}

func (s *FeedSuite) TestWorldSnapshotBroadcast() {
	s.Require().NoError(s.store.SavePlayer(s.ctx, &model.Player{
		ID:       "p1",
		Position: model.Vec3{X: 12},
		Health:   model.MaxHealth,
		IsOnline: true,
	}))

	conn := s.dial()
	defer conn.Close()

	msg := s.readUntil(conn, "world")
	s.Require().Len(msg.Players, 1)
	s.Equal("p1", msg.Players[0].ID)
	s.Equal(model.Vec3{X: 12}, msg.Players[0].Position)
}

func (s *FeedSuite) TestCombatEventBroadcastOnce() {
	conn := s.dial()
	defer conn.Close()

	// Let the subscription settle before the event exists.
	s.readUntil(conn, "world")

	s.Require().NoError(s.store.SaveCombatEvent(s.ctx, &model.CombatEvent{
		ID:       "evt-1",
		Type:     model.CombatEventHit,
		SourceID: "p1",
		TargetID: "e1",
		Damage:   25,
	}))

	msg := s.readUntil(conn, "combat_event")
	s.Require().NotNil(msg.Event)
	s.Equal("evt-1", msg.Event.ID)
	s.Equal(25, msg.Event.Damage)
}

func (s *FeedSuite) TestInboundFramesIgnored() {
	conn := s.dial()
	defer conn.Close()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"cheat"}`)))

	// The connection stays up and keeps serving snapshots.
	s.readUntil(conn, "world")
}
