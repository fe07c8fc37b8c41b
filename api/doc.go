// Package api provides HTTP REST API handlers for the Tetris game server.
//
// The api package implements:
//   - RESTful endpoints for game commands
//   - Session management endpoints
//   - Configuration listing and creation
//   - Command history with pagination
//   - Leaderboard across sessions
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional config_id)
//   - GET /api/sessions - List all sessions (sort, order, limit params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/command - Execute a single command
//   - POST /api/sessions/{id}/bulk-command - Execute a command sequence
//   - POST /api/sessions/{id}/reset - Reset the game
//   - GET /api/sessions/{id}/history - Command history with pagination
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a new configuration
//   - GET /api/configs/{name} - Get a specific configuration
//
// Leaderboard:
//   - GET /api/sessions/leaderboard - Sessions ranked by score
//     (optional sessionIds or configName filters)
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Commands are sent as POST with a
// JSON body:
//
//	{
//	  "command": "move_left|move_right|soft_drop|hard_drop|rotate_cw|rotate_ccw|hold|pause|resume|start|reset|tick",
//	  "reset": true|false  // optional reset before the command
//	}
//
// Bulk commands carry a "commands" array instead and stop on the first
// rejected command, invalid name, or game over.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api

//
// Enriched Responses (Command and Bulk Command)
//
// Command (POST /api/sessions/{id}/command)
//   Response:
//     - success, command, game_state, message
//     - events: [{ type, message, timestamp, lines?, level?, score? }]
//     - step: { idx, command, piece_kind, score_before, score_after, lines_before, lines_after, success, locked?, lines_now?, leveled_up?, game_over? }
//     - ghost: resting position of the current piece (when the config enables it)
//     - possible_commands: ["move_left","hard_drop",...]
//
// Bulk Command (POST /api/sessions/{id}/bulk-command)
//   Response:
//     - requested_commands, commands_executed
//     - stopped_reason (text), stop_reason_code (rejected|invalid_command|game_over),
//       stopped_on_command (1-based), truncated, limit
//     - steps: per-command trace as above
//     - start_score, end_score, start_lines, end_lines, score_delta, lines_delta
//     - game_over, possible_commands, ghost
