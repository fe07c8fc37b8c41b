package service

import (
	"time"

	"github.com/MikeQin/tetris-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CommandResult contains the result of a single command
type CommandResult struct {
	Success   bool              `json:"success"`
	Command   string            `json:"command"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message,omitempty"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`

	// Decision aids
	Ghost            *engine.Piece `json:"ghost,omitempty"`
	PossibleCommands []string      `json:"possible_commands,omitempty"`
}

// BulkCommandResult contains the result of a command sequence
type BulkCommandResult struct {
	// Summary
	CommandsExecuted  int               `json:"commands_executed"`
	RequestedCommands int               `json:"requested_commands"`
	Success           bool              `json:"success"`
	GameState         *engine.GameState `json:"game_state"`
	Events            []GameEvent       `json:"events"`
	StoppedReason     string            `json:"stopped_reason,omitempty"`
	StopReasonCode    string            `json:"stop_reason_code,omitempty"` // rejected|invalid_command|game_over
	StoppedOnCommand  int               `json:"stopped_on_command,omitempty"`
	Truncated         bool              `json:"truncated,omitempty"`
	Limit             int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	StartLines int `json:"start_lines"`
	EndLines   int `json:"end_lines"`
	ScoreDelta int `json:"score_delta"`
	LinesDelta int `json:"lines_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver         bool          `json:"game_over"`
	Message          string        `json:"message,omitempty"`
	PossibleCommands []string      `json:"possible_commands,omitempty"`
	Ghost            *engine.Piece `json:"ghost,omitempty"`
}

// StepInfo is a compact record for each executed command in a bulk call
type StepInfo struct {
	Idx         int    `json:"idx"`
	Command     string `json:"command"`
	PieceKind   string `json:"piece_kind,omitempty"`
	ScoreBefore int    `json:"score_before"`
	ScoreAfter  int    `json:"score_after"`
	LinesBefore int    `json:"lines_before"`
	LinesAfter  int    `json:"lines_after"`
	Success     bool   `json:"success"`
	Locked      bool   `json:"locked,omitempty"`
	LinesNow    int    `json:"lines_now,omitempty"`
	LeveledUp   bool   `json:"leveled_up,omitempty"`
	GameOver    bool   `json:"game_over,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "command", "start", "lock", "lines_cleared", "level_up", "hold", "pause", "resume", "game_over", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Lines     int       `json:"lines,omitempty"`
	Level     int       `json:"level,omitempty"`
	Score     int       `json:"score,omitempty"`
}

// CommandHistoryEntry records one executed command for a session
type CommandHistoryEntry struct {
	Idx        int       `json:"idx"`
	Command    string    `json:"command"`
	Timestamp  time.Time `json:"timestamp"`
	ScoreAfter int       `json:"score_after"`
	LinesAfter int       `json:"lines_after"`
	LevelAfter int       `json:"level_after"`
	Locked     bool      `json:"locked,omitempty"`
	GameOver   bool      `json:"game_over,omitempty"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Commands      []CommandHistoryEntry `json:"commands"`
	TotalCommands int                   `json:"total_commands"`
	Page          int                   `json:"page"`
	PageSize      int                   `json:"page_size"`
	TotalPages    int                   `json:"total_pages"`
	HasNext       bool                  `json:"has_next"`
	HasPrevious   bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	StartingLevel int    `json:"starting_level"`
	GhostEnabled  bool   `json:"ghost_enabled"`
}
