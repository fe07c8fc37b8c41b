package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MikeQin/tetris-game/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex

	// gravity maps session IDs to the stop channel of their gravity loop
	gravity   map[string]chan struct{}
	gravityMu sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		gravity:  make(map[string]chan struct{}),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Determine the config identifier to return - prefer the input configName if provided,
	// otherwise look up the config_id by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session and stops its gravity loop
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.StopGravity(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// Command executes a single command for a session
func (s *gameServiceImpl) Command(ctx context.Context, sessionID, command string, reset bool) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}

	// Handle reset if requested
	if reset {
		sess.Engine.Reset()
		sess.History = nil
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	cmd := engine.Command(command)
	result := &CommandResult{
		Command: command,
		Events:  events,
	}

	if !cmd.Valid() {
		result.Success = false
		result.GameState = sess.Engine.GetState()
		result.Message = fmt.Sprintf("unknown command %q", command)
		result.PossibleCommands = s.possibleCommands(sess)
		return result, nil
	}

	prevState := sess.Engine.GetState()
	result.Success = sess.Engine.CanApply(cmd)
	state := sess.Engine.Apply(cmd)
	result.GameState = state

	if result.Success {
		cmdEvents := s.extractCommandEvents(sess, prevState, state, command)
		result.Events = append(result.Events, cmdEvents...)
		result.Step = buildStep(1, command, prevState, state)
		s.recordHistory(sess, command, prevState, state)
	} else {
		result.Message = fmt.Sprintf("command %q not applicable in current state", command)
	}

	// Decision aids
	if sess.Config.GhostEnabled {
		result.Ghost = sess.Engine.Ghost()
	}
	result.PossibleCommands = s.possibleCommands(sess)
	if result.Message == "" {
		result.Message = s.statusMessage(sess, state)
	}

	s.manageGravity(sess)

	// Auto-save session after command
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after command: %v\n", sessionID, err)
	}

	return result, nil
}

// BulkCommand executes multiple commands in sequence
func (s *gameServiceImpl) BulkCommand(ctx context.Context, sessionID string, commands []string, reset bool) (*BulkCommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	// Handle reset first so the start snapshot reflects it
	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		sess.History = nil
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	startState := sess.Engine.GetState()
	result := &BulkCommandResult{
		RequestedCommands: len(commands),
		Events:            events,
		Success:           true,
		StartScore:        startState.Score,
		StartLines:        startState.LinesCleared,
		GameOver:          startState.GameOver,
	}

	// Limit commands to prevent abuse
	if len(commands) > engine.MaxBulkCommands {
		result.Truncated = true
		result.Limit = engine.MaxBulkCommands
		commands = commands[:engine.MaxBulkCommands]
	}

	for i, command := range commands {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game over"
			result.StopReasonCode = "game_over"
			result.StoppedOnCommand = result.CommandsExecuted + 1
			break
		}

		cmd := engine.Command(command)
		if !cmd.Valid() {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("command %d is unknown: %s", i+1, command)
			result.StopReasonCode = "invalid_command"
			result.StoppedOnCommand = i + 1
			break
		}

		prevState := sess.Engine.GetState()
		applied := sess.Engine.CanApply(cmd)
		if !applied {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("command %d rejected: %s", i+1, command)
			result.StopReasonCode = "rejected"
			result.StoppedOnCommand = i + 1
			break
		}

		state := sess.Engine.Apply(cmd)
		result.CommandsExecuted++

		cmdEvents := s.extractCommandEvents(sess, prevState, state, command)
		result.Events = append(result.Events, cmdEvents...)
		result.Steps = append(result.Steps, *buildStep(i+1, command, prevState, state))
		s.recordHistory(sess, command, prevState, state)
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndScore = endState.Score
	result.EndLines = endState.LinesCleared
	result.ScoreDelta = endState.Score - result.StartScore
	result.LinesDelta = endState.LinesCleared - result.StartLines
	result.GameOver = endState.GameOver
	result.Message = s.statusMessage(sess, endState)

	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = "game_over"
	}

	// Decision aids
	result.PossibleCommands = s.possibleCommands(sess)
	if sess.Config.GhostEnabled {
		result.Ghost = sess.Engine.Ghost()
	}

	s.manageGravity(sess)

	// Auto-save session after bulk commands
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after bulk commands: %v\n", sessionID, err)
	}

	return result, nil
}

// Reset resets a game session to its idle state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.StopGravity(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()
	sess.History = nil

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetCommandHistory returns paginated command history
func (s *gameServiceImpl) GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of commands
	var commands []CommandHistoryEntry
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			commands = append(commands, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			commands = history[start:end]
		}
	}

	// Ensure commands is not nil
	if commands == nil {
		commands = []CommandHistoryEntry{}
	}

	return &HistoryResponse{
		Commands:      commands,
		TotalCommands: total,
		Page:          opts.Page,
		PageSize:      opts.Limit,
		TotalPages:    totalPages,
		HasNext:       opts.Page < totalPages,
		HasPrevious:   opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// StartGravity begins the automatic descent loop for a session. Gravity
// issues a tick at the interval of the session's current level; a piece
// dropped by gravity scores nothing.
func (s *gameServiceImpl) StartGravity(sessionID string) error {
	s.mu.RLock()
	_, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	s.gravityMu.Lock()
	defer s.gravityMu.Unlock()
	if _, running := s.gravity[sessionID]; running {
		return nil
	}
	stop := make(chan struct{})
	s.gravity[sessionID] = stop
	go s.gravityLoop(sessionID, stop)
	return nil
}

// StopGravity halts the gravity loop of a session if one is running.
func (s *gameServiceImpl) StopGravity(sessionID string) {
	s.gravityMu.Lock()
	defer s.gravityMu.Unlock()
	if stop, running := s.gravity[sessionID]; running {
		close(stop)
		delete(s.gravity, sessionID)
	}
}

// StopAllGravity halts every running gravity loop, used during shutdown.
func (s *gameServiceImpl) StopAllGravity() {
	s.gravityMu.Lock()
	defer s.gravityMu.Unlock()
	for id, stop := range s.gravity {
		close(stop)
		delete(s.gravity, id)
	}
}

// gravityLoop drives one session's piece descent until stopped. The tick
// interval tracks the level, so the game speeds up as lines accumulate.
func (s *gameServiceImpl) gravityLoop(sessionID string, stop chan struct{}) {
	for {
		interval := engine.DropInterval(1)
		s.mu.RLock()
		sess, err := s.sessions.Get(sessionID)
		if err == nil {
			interval = engine.DropInterval(sess.Engine.GetLevel())
		}
		s.mu.RUnlock()
		if err != nil {
			s.StopGravity(sessionID)
			return
		}

		select {
		case <-stop:
			return
		case <-time.After(interval):
		}

		s.mu.Lock()
		sess, err = s.sessions.Get(sessionID)
		if err != nil {
			s.mu.Unlock()
			s.StopGravity(sessionID)
			return
		}
		state := sess.Engine.GetState()
		if state.GameOver {
			s.mu.Unlock()
			s.StopGravity(sessionID)
			return
		}
		if state.Playing && !state.Paused {
			prev := state
			next := sess.Engine.Apply(engine.CmdTick)
			if next.GameOver && !prev.GameOver {
				if err := s.sessions.Save(sessionID); err != nil {
					fmt.Printf("Warning: Failed to persist session %s after gravity tick: %v\n", sessionID, err)
				}
			}
		}
		s.mu.Unlock()
	}
}

// manageGravity keeps the gravity loop in step with the game's lifecycle:
// running while a game is actively playing, stopped when it ends.
// Caller must hold s.mu.
func (s *gameServiceImpl) manageGravity(sess *Session) {
	state := sess.Engine.GetState()
	if state.Playing && !state.GameOver {
		s.gravityMu.Lock()
		if _, running := s.gravity[sess.ID]; !running {
			stop := make(chan struct{})
			s.gravity[sess.ID] = stop
			go s.gravityLoop(sess.ID, stop)
		}
		s.gravityMu.Unlock()
		return
	}
	if state.GameOver || !state.Playing {
		s.StopGravity(sess.ID)
	}
}

// recordHistory appends one executed command to the session's log. Lock-in
// is detected by comparing board occupancy, same as buildStep, so it also
// catches placements that clear no lines.
func (s *gameServiceImpl) recordHistory(sess *Session, command string, prev, curr *engine.GameState) {
	sess.History = append(sess.History, CommandHistoryEntry{
		Idx:        len(sess.History) + 1,
		Command:    command,
		Timestamp:  time.Now(),
		ScoreAfter: curr.Score,
		LinesAfter: curr.LinesCleared,
		LevelAfter: curr.Level,
		Locked:     curr.LinesCleared > prev.LinesCleared || pieceLocked(prev, curr),
		GameOver:   curr.GameOver,
	})
}

// possibleCommands lists the commands that would change the state right now.
// Caller must hold s.mu at least for reading.
func (s *gameServiceImpl) possibleCommands(sess *Session) []string {
	possible := []string{}
	for _, cmd := range engine.Commands {
		if sess.Engine.CanApply(cmd) {
			possible = append(possible, string(cmd))
		}
	}
	return possible
}

// statusMessage renders the config's score template for the current state.
func (s *gameServiceImpl) statusMessage(sess *Session, state *engine.GameState) string {
	if state.GameOver {
		return fmt.Sprintf(sess.Config.Messages.GameOver, state.Score)
	}
	if tmpl := sess.Config.Messages.ScoreStatus; tmpl != "" {
		return fmt.Sprintf(tmpl, state.Score, state.LinesCleared, state.Level)
	}
	return ""
}

// extractCommandEvents diffs the states around one command and generates
// the corresponding gameplay events.
func (s *gameServiceImpl) extractCommandEvents(sess *Session, prev, curr *engine.GameState, command string) []GameEvent {
	events := []GameEvent{}
	messages := sess.Config.Messages

	events = append(events, GameEvent{
		Type:      "command",
		Message:   fmt.Sprintf("Applied %s", command),
		Timestamp: time.Now(),
	})

	if curr.Playing && !prev.Playing {
		events = append(events, GameEvent{
			Type:      "start",
			Message:   messages.Welcome,
			Timestamp: time.Now(),
			Level:     curr.Level,
		})
	}

	if linesNow := curr.LinesCleared - prev.LinesCleared; linesNow > 0 {
		events = append(events, GameEvent{
			Type:      "lines_cleared",
			Message:   fmt.Sprintf(messages.LinesClear, linesNow, curr.Score),
			Timestamp: time.Now(),
			Lines:     linesNow,
			Score:     curr.Score,
		})
	}

	if curr.Level > prev.Level {
		events = append(events, GameEvent{
			Type:      "level_up",
			Message:   fmt.Sprintf(messages.LevelUp, curr.Level),
			Timestamp: time.Now(),
			Level:     curr.Level,
		})
	}

	if command == string(engine.CmdHold) && !curr.CanHold && prev.CanHold {
		events = append(events, GameEvent{
			Type:      "hold",
			Message:   messages.HoldUsed,
			Timestamp: time.Now(),
		})
	}

	if curr.Paused && !prev.Paused {
		events = append(events, GameEvent{
			Type:      "pause",
			Message:   messages.Paused,
			Timestamp: time.Now(),
		})
	}
	if prev.Paused && !curr.Paused && curr.Playing {
		events = append(events, GameEvent{
			Type:      "resume",
			Message:   messages.Resumed,
			Timestamp: time.Now(),
		})
	}

	if curr.GameOver && !prev.GameOver {
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   fmt.Sprintf(messages.GameOver, curr.Score),
			Timestamp: time.Now(),
			Score:     curr.Score,
		})
	}

	return events
}

// buildStep captures the score and line movement of one executed command.
func buildStep(idx int, command string, prev, curr *engine.GameState) *StepInfo {
	step := &StepInfo{
		Idx:         idx,
		Command:     command,
		ScoreBefore: prev.Score,
		ScoreAfter:  curr.Score,
		LinesBefore: prev.LinesCleared,
		LinesAfter:  curr.LinesCleared,
		Success:     true,
		LinesNow:    curr.LinesCleared - prev.LinesCleared,
		LeveledUp:   curr.Level > prev.Level,
		GameOver:    curr.GameOver,
	}
	if curr.CurrentPiece != nil {
		step.PieceKind = curr.CurrentPiece.Kind.String()
	}
	step.Locked = step.LinesNow > 0 || pieceLocked(prev, curr)
	return step
}

// pieceLocked reports whether a piece was stamped onto the board between
// the two states.
func pieceLocked(prev, curr *engine.GameState) bool {
	return engine.CountFilledCells(curr.Board) != engine.CountFilledCells(prev.Board)
}
