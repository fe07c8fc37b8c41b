// Package service provides the business logic layer for the Tetris game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Command processing and validation
//   - Gravity loops that drive automatic piece descent
//   - Session lifecycle management
//   - Command history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, configuration management, and
// business logic orchestration. Each session maintains its own game engine
// instance with independent state. While a session's game is actively playing,
// a per-session gravity loop issues tick commands at the interval of the
// current level, so pieces fall on their own between player commands.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute commands
//	result, err := gameService.Command(ctx, sessionInfo.ID, "start", false)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Multiple sessions can run concurrently with different
// configurations. Sessions track creation time, last access time, and command
// history for analytics and debugging.
package service
