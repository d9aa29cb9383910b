package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	EventGameStarted = "game_started"
	EventTurnChanged = "turn_changed"
	EventGameOver    = "game_over"

	publishTimeout = 2 * time.Second
)

// Event is the JSON payload published for every engine notification.
type Event struct {
	Type   string             `json:"type"`
	GameID string             `json:"game_id"`
	Player entity.Player      `json:"player,omitempty"`
	Result *entity.GameResult `json:"result,omitempty"`
	Board  []string           `json:"board,omitempty"`
	At     time.Time          `json:"at"`
}

type boardSource interface {
	Snapshot() [][]entity.Cell
}

// Publisher forwards engine notifications to a Redis pub/sub channel so
// out-of-process front-ends can follow the game. Nothing is stored.
type Publisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
	board   boardSource
	now     func() time.Time
}

// NewPublisher - creates a listener that publishes to channel. board may be nil.
func NewPublisher(logger *slog.Logger, client *redis.Client, channel string, board boardSource) *Publisher {
	return &Publisher{
		logger:  logger.With("component", "redis-publisher"),
		client:  client,
		channel: channel,
		board:   board,
		now:     time.Now,
	}
}

func (that *Publisher) OnGameStarted(gameID string) {
	that.publish(that.newEvent(EventGameStarted, gameID))
}

func (that *Publisher) OnTurnChanged(gameID string, player entity.Player) {
	event := that.newEvent(EventTurnChanged, gameID)
	event.Player = player

	that.publish(event)
}

func (that *Publisher) OnGameOver(gameID string, result entity.GameResult) {
	event := that.newEvent(EventGameOver, gameID)
	event.Result = &result

	that.publish(event)
}

func (that *Publisher) newEvent(eventType, gameID string) Event {
	event := Event{
		Type:   eventType,
		GameID: gameID,
		At:     that.now().UTC(),
	}

	if that.board != nil {
		event.Board = Rows(that.board.Snapshot())
	}

	return event
}

// publish never fails the game: a lost event is logged and dropped.
func (that *Publisher) publish(event Event) {
	log := that.logger.With("method", "publish", "type", event.Type, "gameID", event.GameID)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err = that.client.Publish(ctx, that.channel, payload).Err(); err != nil {
		log.Error("failed to publish event", "error", fmt.Errorf("channel %s: %w", that.channel, err))
		return
	}

	log.Debug("event published")
}

// Rows renders a grid as strings such as "X.O", one per row.
func Rows(grid [][]entity.Cell) []string {
	rows := make([]string, len(grid))
	for x, row := range grid {
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
		rows[x] = sb.String()
	}

	return rows
}
