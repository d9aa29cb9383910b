package redis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannel = "tictactoe:test"

type staticBoard struct {
	grid [][]entity.Cell
}

func (that staticBoard) Snapshot() [][]entity.Cell {
	return that.grid
}

func receiveEvent(ctx context.Context, t *testing.T, pubsub *redis.PubSub) Event {
	t.Helper()

	select {
	case msg := <-pubsub.Channel():
		var event Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		return event
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	return Event{}
}

func TestRows(t *testing.T) {
	grid := [][]entity.Cell{
		{entity.MarkX, entity.Empty, entity.MarkO},
		{entity.Empty, entity.MarkX, entity.Empty},
		{entity.Empty, entity.Empty, entity.Empty},
	}

	assert.Equal(t, []string{"X.O", ".X.", "..."}, Rows(grid))
}

func TestPublisher_NewEvent(t *testing.T) {
	// Given: a publisher with a fixed clock and board
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	grid := [][]entity.Cell{{entity.MarkX, entity.Empty, entity.Empty}, {}, {}}
	publisher := NewPublisher(logger, nil, testChannel, staticBoard{grid: grid})
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	publisher.now = func() time.Time { return at }

	// When: an event is built
	event := publisher.newEvent(EventGameStarted, "g1")

	// Then: it carries the type, id, board and time
	assert.Equal(t, Event{
		Type:   EventGameStarted,
		GameID: "g1",
		Board:  []string{"X..", "", ""},
		At:     at,
	}, event)
}

func TestPublisher_Publish(t *testing.T) {
	ctx, st := suite.New(t)

	t.Run("Publishes each notification", func(t *testing.T) {
		// Given: a subscriber on the events channel
		pubsub := st.Subscribe(ctx, testChannel)
		publisher := NewPublisher(st.Logger, st.Redis, testChannel, nil)

		// When: the publisher receives the three notification kinds
		publisher.OnGameStarted("g1")
		publisher.OnTurnChanged("g1", entity.Computer)
		publisher.OnGameOver("g1", entity.Win(entity.Computer))

		// Then: they arrive in order
		started := receiveEvent(ctx, t, pubsub)
		assert.Equal(t, EventGameStarted, started.Type)
		assert.Equal(t, "g1", started.GameID)

		turn := receiveEvent(ctx, t, pubsub)
		assert.Equal(t, EventTurnChanged, turn.Type)
		assert.Equal(t, entity.Computer, turn.Player)

		over := receiveEvent(ctx, t, pubsub)
		assert.Equal(t, EventGameOver, over.Type)
		require.NotNil(t, over.Result)
		assert.Equal(t, entity.Win(entity.Computer), *over.Result)
	})

	t.Run("Follows a live engine", func(t *testing.T) {
		// Given: an engine with the publisher subscribed
		pubsub := st.Subscribe(ctx, testChannel)
		engine, err := usecase.NewEngine(st.Logger, usecase.WithOpponentDelay(time.Millisecond))
		require.NoError(t, err)
		t.Cleanup(engine.Close)
		engine.Subscribe(NewPublisher(st.Logger, st.Redis, testChannel, engine))

		// When: a game starts and the human plays the center
		require.NoError(t, engine.StartGame(service.LevelMinimax))
		require.True(t, engine.SubmitMove(1, 1))

		// Then: started, human turn, computer turn, human turn are published with the board
		types := make([]string, 0, 4)
		var last Event
		for range 4 {
			last = receiveEvent(ctx, t, pubsub)
			types = append(types, last.Type)
		}

		assert.Equal(t, []string{EventGameStarted, EventTurnChanged, EventTurnChanged, EventTurnChanged}, types)
		assert.Equal(t, entity.Human, last.Player)
		assert.Equal(t, []string{"O..", ".X.", "..."}, last.Board)
	})

	t.Run("Publish failures do not panic", func(t *testing.T) {
		client, err := Connect(ctx, st.Addr())
		require.NoError(t, err)
		require.NoError(t, client.Close())

		publisher := NewPublisher(st.Logger, client, testChannel, nil)

		assert.NotPanics(t, func() { publisher.OnGameStarted("g2") })
	})
}

func TestConnect(t *testing.T) {
	t.Run("Unreachable address", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		client, err := Connect(ctx, "127.0.0.1:1")

		require.Error(t, err)
		assert.Nil(t, client)
	})
}
