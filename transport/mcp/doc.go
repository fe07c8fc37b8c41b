// Package mcp provides Model Context Protocol server implementation for the Tetris game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current game state with board rendering
//   - command: Execute a single game command
//   - bulk_command: Execute multiple commands in sequence
//   - reset_game: Reset game to initial state
//   - command_history: Retrieve command history with pagination
//   - analyze_board: Column heights, holes, and stack height
//   - create_session: Create new game session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_configs: List available game configurations
//   - game_instructions: Comprehensive rules and strategy notes
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: Streamable HTTP endpoint for remote MCP integration
//
// Architecture:
//
// The MCP server is a thin client over the REST API: every tool call is
// proxied to the corresponding HTTP endpoint and the JSON response is
// rendered as text for the agent. Game logic never runs in this package.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously play the game
//   - Develop and test stacking strategies
//   - Analyze board states and make placement decisions
//   - Manage multiple game sessions
//   - Learn from command history
package mcp
