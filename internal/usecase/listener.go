package usecase

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Listener receives engine notifications. Calls are synchronous, on the
// goroutine that made the transition, and never under the engine lock.
type Listener interface {
	OnGameStarted(gameID string)
	OnTurnChanged(gameID string, player entity.Player)
	OnGameOver(gameID string, result entity.GameResult)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	GameStarted func(gameID string)
	TurnChanged func(gameID string, player entity.Player)
	GameOver    func(gameID string, result entity.GameResult)
}

func (that ListenerFuncs) OnGameStarted(gameID string) {
	if that.GameStarted != nil {
		that.GameStarted(gameID)
	}
}

func (that ListenerFuncs) OnTurnChanged(gameID string, player entity.Player) {
	if that.TurnChanged != nil {
		that.TurnChanged(gameID, player)
	}
}

func (that ListenerFuncs) OnGameOver(gameID string, result entity.GameResult) {
	if that.GameOver != nil {
		that.GameOver(gameID, result)
	}
}

type event func(listener Listener)

func gameStarted(gameID string) event {
	return func(listener Listener) { listener.OnGameStarted(gameID) }
}

func turnChanged(gameID string, player entity.Player) event {
	return func(listener Listener) { listener.OnTurnChanged(gameID, player) }
}

func gameOver(gameID string, result entity.GameResult) event {
	return func(listener Listener) { listener.OnGameOver(gameID, result) }
}

type subscription struct {
	id       uint64
	listener Listener
}

// registry keeps listeners in subscription order.
type registry struct {
	mu      sync.Mutex
	nextID  uint64
	entries []subscription
}

func (that *registry) add(listener Listener) func() {
	that.mu.Lock()
	that.nextID++
	id := that.nextID
	that.entries = append(that.entries, subscription{id: id, listener: listener})
	that.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { that.remove(id) })
	}
}

func (that *registry) remove(id uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, entry := range that.entries {
		if entry.id == id {
			that.entries = append(that.entries[:i:i], that.entries[i+1:]...)
			return
		}
	}
}

func (that *registry) snapshot() []Listener {
	that.mu.Lock()
	defer that.mu.Unlock()

	listeners := make([]Listener, len(that.entries))
	for i, entry := range that.entries {
		listeners[i] = entry.listener
	}

	return listeners
}

func (that *registry) clear() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.entries = nil
}

func (that *registry) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.entries)
}
