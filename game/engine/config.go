package engine

import "fmt"

// Configuration bounds. The board geometry and scoring formulas are fixed
// invariants of the engine; configs only tune where a game starts and what
// the surrounding layers say about it.
const (
	MinStartingLevel = 1
	MaxStartingLevel = 20
)

// GameConfig represents a game preset loaded from JSON. Seed selects the
// bag-shuffle sequence (0 means time-seeded); Messages feed the service
// layer's event descriptions, never the reducer itself.
type GameConfig struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	StartingLevel int    `json:"starting_level"`
	Seed          int64  `json:"seed,omitempty"`
	GhostEnabled  bool   `json:"ghost_enabled"`
	Messages      struct {
		Welcome     string `json:"welcome"`
		LinesClear  string `json:"lines_clear"`
		LevelUp     string `json:"level_up"`
		GameOver    string `json:"game_over"`
		Paused      string `json:"paused"`
		Resumed     string `json:"resumed"`
		HoldUsed    string `json:"hold_used"`
		ScoreStatus string `json:"score_status"`
	} `json:"messages"`
}

// ValidateGameConfig validates a game configuration for correctness.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if config.StartingLevel < MinStartingLevel || config.StartingLevel > MaxStartingLevel {
		return fmt.Errorf("config validation: starting_level must be between %d and %d, got %d",
			MinStartingLevel, MaxStartingLevel, config.StartingLevel)
	}
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}
	return nil
}

// DefaultConfig returns the standard marathon preset.
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:          "Classic",
		Description:   "Standard marathon game starting at level 1",
		StartingLevel: 1,
		GhostEnabled:  true,
	}
	config.Messages.Welcome = "Good luck! Clear lines to score and level up."
	config.Messages.LinesClear = "Cleared %d line(s)! Score: %d"
	config.Messages.LevelUp = "Level up! Now at level %d"
	config.Messages.GameOver = "Game over! Final score: %d"
	config.Messages.Paused = "Game paused"
	config.Messages.Resumed = "Game resumed"
	config.Messages.HoldUsed = "Piece held"
	config.Messages.ScoreStatus = "Score: %d | Lines: %d | Level: %d"
	return config
}
