package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/windward-game/windward/internal/config"
	"github.com/windward-game/windward/internal/dependencies/mocks"
	"github.com/windward-game/windward/internal/store/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	st := memory.New(mockClock)

	appCfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(st, mockClock, mockRandom, appCfg, nil, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
