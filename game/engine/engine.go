package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Engine provides a stateful handle around the pure reducer for callers
// that hold one game over time (sessions, transports).
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsPaused() bool
	GetScore() int
	GetLevel() int
	GetLinesCleared() int

	// Command processing
	Apply(cmd Command) *GameState
	CanApply(cmd Command) bool

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// Derived views
	Ghost() *Piece
	OverlayBoard() Board
}

// GameEngine implements the Engine interface. It owns a GameState value and
// the seeded random source that feeds bag generation; every Apply replaces
// the state with the reducer's output.
type GameEngine struct {
	state  GameState
	config *GameConfig
	rng    Rand
}

// NewEngine creates a game engine with the provided configuration. A zero
// config seed selects a time-based seed.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GameEngine{
		config: config,
		state:  NewGameState(config.StartingLevel),
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// NewEngineWithDefaults creates a game engine with the default configuration.
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		// DefaultConfig always validates; reaching this is a programming error.
		panic(err)
	}
	return e
}

// NewEngineWithRand creates a game engine using an explicit random source,
// for deterministic tests and simulations.
func NewEngineWithRand(config *GameConfig, rng Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return &GameEngine{
		config: config,
		state:  NewGameState(config.StartingLevel),
		rng:    rng,
	}, nil
}

// GetState returns a copy of the current game state.
func (e *GameEngine) GetState() *GameState {
	state := e.state
	return &state
}

// SetState replaces the engine's state, typically when restoring a persisted
// snapshot. The snapshot is validated first and rejected if malformed.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := ValidateState(state); err != nil {
		return fmt.Errorf("invalid game state: %w", err)
	}
	e.state = *state
	return nil
}

// Reset returns the engine to the idle pre-game state.
func (e *GameEngine) Reset() *GameState {
	e.state = Apply(e.state, CmdReset, e.rng)
	return e.GetState()
}

// IsGameOver reports whether the game has reached its terminal state.
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsPaused reports whether the game is paused.
func (e *GameEngine) IsPaused() bool {
	return e.state.Paused
}

// GetScore returns the current score.
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetLevel returns the current level.
func (e *GameEngine) GetLevel() int {
	return e.state.Level
}

// GetLinesCleared returns the cumulative number of cleared lines.
func (e *GameEngine) GetLinesCleared() int {
	return e.state.LinesCleared
}

// Apply runs one command through the reducer and returns the new state.
func (e *GameEngine) Apply(cmd Command) *GameState {
	e.state = Apply(e.state, cmd, e.rng)
	return e.GetState()
}

// CanApply reports whether cmd would change the state right now. The probe
// runs against a copy with a fixed random source so it never consumes
// randomness from the engine's own sequence.
func (e *GameEngine) CanApply(cmd Command) bool {
	if !cmd.Valid() {
		return false
	}
	next := Apply(e.state, cmd, probeRand{})
	return !statesEqual(e.state, next)
}

// probeRand is a degenerate random source used by CanApply probes.
type probeRand struct{}

func (probeRand) Intn(int) int { return 0 }

// GetConfig returns the current game configuration.
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig replaces the configuration and resets the game.
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	e.config = config
	e.state = NewGameState(config.StartingLevel)
	return nil
}

// Ghost returns the current piece's hard-drop projection.
func (e *GameEngine) Ghost() *Piece {
	return GhostPiece(e.state)
}

// OverlayBoard returns the board with the falling piece stamped in.
func (e *GameEngine) OverlayBoard() Board {
	return BoardWithPiece(e.state)
}

// statesEqual compares the fields a command can change. Bag contents are
// deliberately ignored so a refill alone does not count as a transition.
func statesEqual(a, b GameState) bool {
	if a.Board != b.Board {
		return false
	}
	if !piecesEqual(a.CurrentPiece, b.CurrentPiece) ||
		!piecesEqual(a.NextPiece, b.NextPiece) ||
		!piecesEqual(a.HoldPiece, b.HoldPiece) {
		return false
	}
	return a.CanHold == b.CanHold &&
		a.Score == b.Score &&
		a.LinesCleared == b.LinesCleared &&
		a.Level == b.Level &&
		a.GameOver == b.GameOver &&
		a.Paused == b.Paused &&
		a.Playing == b.Playing
}

func piecesEqual(a, b *Piece) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
