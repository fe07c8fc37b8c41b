package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/MikeQin/tetris-game/game/engine"
	"github.com/MikeQin/tetris-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tetris Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tetris Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Clear horizontal lines by placing falling tetrominoes. Clearing lines scores
points and raises the level; the game ends when the stack reaches the top.

AVAILABLE TOOLS:
- game_state: Get current game state with a board rendering
- command: Single game command - requires intent explanation
- bulk_command: Multiple commands at once - requires intent explanation
- reset_game: Reset to initial state
- command_history: View past commands
- analyze_board: Column heights, holes, and stack height of the current board
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_configs: List available configurations
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on command/bulk_command tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Execute a single game command",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"command": map[string]interface{}{
					"type":        "string",
					"enum":        commandNames(),
					"description": "Command to execute",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this command (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before executing",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_command",
		Description: "Execute multiple commands in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"commands": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": commandNames(),
					},
					"description": "Array of commands",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of commands (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before executing",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleBulkCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get command history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCommandHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "analyze_board",
		Description: "Analyze the current board: per-column heights, covered holes, and total stack height. Useful for choosing where to place the next piece.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAnalyzeBoard)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func commandNames() []string {
	names := make([]string, 0, len(engine.Commands))
	for _, cmd := range engine.Commands {
		names = append(names, string(cmd))
	}
	return names
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score, lines := 0, 0
		if s.GameState != nil {
			score, lines = s.GameState.Score, s.GameState.LinesCleared
		}
		result += fmt.Sprintf("- %s (Config: %s, Score: %d, Lines: %d, Created: %s)\n",
			s.ID, s.ConfigName, score, lines, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	command, _ := args["command"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"command": command,
		"reset":   reset,
	}

	var result service.CommandResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/command", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatCommandResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBulkCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	commandsRaw, _ := args["commands"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	// Convert commands to string array
	commands := make([]string, 0, len(commandsRaw))
	for _, m := range commandsRaw {
		if cmd, ok := m.(string); ok {
			commands = append(commands, cmd)
		}
	}

	body := map[string]interface{}{
		"commands": commands,
		"reset":    reset,
	}

	var result service.BulkCommandResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/bulk-command", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatBulkCommandResult(sessionID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		ghost := "off"
		if config.GhostEnabled {
			ghost = "on"
		}
		result += fmt.Sprintf("• %s (id: %s)\n  %s\n  Starting level: %d, Ghost piece: %s\n\n",
			config.Name, config.ConfigID, config.Description, config.StartingLevel, ghost)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎮 Tetris Game - Complete Instructions

GAME OBJECTIVE:
Place falling tetrominoes to complete horizontal lines. Completed lines are
cleared and scored; the game ends when a new piece cannot spawn because the
stack reaches the top.

GAME MECHANICS:
• Board: 10 columns x 20 rows
• Pieces: the seven tetrominoes I, O, T, S, Z, J, L drawn from a shuffled
  7-bag, so each kind appears exactly once per seven pieces
• Gravity: the current piece descends automatically; the interval shrinks
  as the level rises (floor of 50ms per row)
• Lock: a piece that cannot descend locks into the stack and the next
  piece spawns
• Hold: stash the current piece and swap it back later; once per drop

SCORING (multiplied by the current level):
• 1 line:  40      • 2 lines: 100
• 3 lines: 300     • 4 lines: 1200
• Soft drop: 1 point per row, hard drop: 2 points per row

LEVELS:
• Level = lines cleared / 10 + 1, never below the configured starting level
• Higher levels score more per clear but drop pieces faster

COMMANDS:
• start - begin a new game (only from the idle state)
• move_left, move_right - shift the piece one column
• soft_drop - descend one row (scores 1 point)
• hard_drop - drop to the bottom and lock immediately (2 points per row)
• rotate_cw, rotate_ccw - rotate in place (no wall kicks: a rotation that
  would overlap or leave the board is rejected)
• hold - stash the current piece, swap with the held one if any
• pause / resume - suspend and continue play
• reset - return to the idle state
• tick - one gravity step (issued automatically by the server)

🤖 AI AGENTS - SUCCESS STRATEGIES:

🧱 STACK MANAGEMENT:
- Keep the stack flat; avoid covering empty cells (holes are expensive
  to dig out because there are no wall kicks)
- Reserve a single open column for I pieces when hunting four-line clears
- Use analyze_board to see per-column heights and holes before placing

🎯 PLACEMENT WORKFLOW:
1. Read game_state: note the current piece, the next piece, and the ghost
   marker (* rows show where the piece would rest)
2. Rotate FIRST, then shift: rotation near walls can be rejected
3. Use bulk_command to rotate, shift, and hard_drop in one call
4. Check the result; a rejected command stops a bulk sequence

⚡ PACING:
- The server applies gravity on its own; at high levels the piece falls
  every 50ms, so prefer decisive bulk sequences over many single commands
- pause the game while planning long sequences, resume to continue

🚨 PITFALLS TO AVOID:
- ❌ Rotating against a wall and assuming it succeeded (no wall kicks)
- ❌ Burying a hole under several rows
- ❌ Holding twice in a row (hold re-arms only after a piece locks)
- ❌ Sending commands after game over (they are ignored; reset instead)

BOARD LEGEND:
• . - empty cell
• I O T S Z J L - stacked cells, letter of the piece that placed them
• * - ghost marker (resting position of the current piece)

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has unique 4-character ID
- Sessions maintain independent state and configuration
- Use session-specific tools for multi-game management

Good luck clearing lines! 🧩`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleAnalyzeBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	heights := make([]int, engine.BoardWidth)
	holes := make([]int, engine.BoardWidth)
	for col := 0; col < engine.BoardWidth; col++ {
		top := -1
		for row := 0; row < engine.BoardHeight; row++ {
			if !state.Board[row][col].Empty() {
				if top < 0 {
					top = row
					heights[col] = engine.BoardHeight - row
				}
			} else if top >= 0 {
				holes[col]++
			}
		}
	}

	totalHoles := 0
	for _, h := range holes {
		totalHoles += h
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Board Analysis (stack height %d, holes %d):\n\n",
		engine.StackHeight(state.Board), totalHoles))
	b.WriteString("Col:    ")
	for col := 0; col < engine.BoardWidth; col++ {
		b.WriteString(fmt.Sprintf("%3d", col))
	}
	b.WriteString("\nHeight: ")
	for col := 0; col < engine.BoardWidth; col++ {
		b.WriteString(fmt.Sprintf("%3d", heights[col]))
	}
	b.WriteString("\nHoles:  ")
	for col := 0; col < engine.BoardWidth; col++ {
		b.WriteString(fmt.Sprintf("%3d", holes[col]))
	}
	b.WriteString("\n\n")
	b.WriteString(formatGameState(&state))

	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header
	result.WriteString(fmt.Sprintf("Score: %d | Lines: %d | Level: %d\n",
		state.Score, state.LinesCleared, state.Level))

	// Piece summary
	if state.CurrentPiece != nil {
		result.WriteString(fmt.Sprintf("Current: %s (rot %d at %d,%d)",
			state.CurrentPiece.Kind, state.CurrentPiece.Rotation,
			state.CurrentPiece.X, state.CurrentPiece.Y))
		if state.NextPiece != nil {
			result.WriteString(fmt.Sprintf(" | Next: %s", state.NextPiece.Kind))
		}
		if state.HoldPiece != nil {
			result.WriteString(fmt.Sprintf(" | Hold: %s", state.HoldPiece.Kind))
		}
		if !state.CanHold {
			result.WriteString(" (hold used)")
		}
		result.WriteString("\n")
	}
	result.WriteString("\n")

	result.WriteString(renderBoard(state))

	// Status
	if state.GameOver {
		result.WriteString("\n💀 GAME OVER")
	} else if state.Paused {
		result.WriteString("\n⏸ PAUSED")
	} else if !state.Playing {
		result.WriteString("\nIdle - send 'start' to begin")
	}

	return result.String()
}

// renderBoard draws the board with the current piece stamped in and the
// ghost resting position marked with '*'.
func renderBoard(state *engine.GameState) string {
	board := engine.BoardWithPiece(*state)

	ghostCells := map[[2]int]bool{}
	if ghost := engine.GhostPiece(*state); ghost != nil {
		mask := engine.Shape(ghost.Kind, ghost.Rotation)
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				if mask[row][col] == 0 {
					continue
				}
				x, y := ghost.X+col, ghost.Y+row
				if y >= 0 && y < engine.BoardHeight && x >= 0 && x < engine.BoardWidth {
					ghostCells[[2]int{x, y}] = true
				}
			}
		}
	}

	var b strings.Builder
	for row := 0; row < engine.BoardHeight; row++ {
		for col := 0; col < engine.BoardWidth; col++ {
			cell := board[row][col]
			switch {
			case !cell.Empty():
				b.WriteString(cell.Kind().String())
			case ghostCells[[2]int{col, row}]:
				b.WriteString("*")
			default:
				b.WriteString(".")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatCommandResult(result *service.CommandResult) string {
	response := ""
	if result.Success {
		response = fmt.Sprintf("✓ Command %s executed\n", result.Command)
	} else {
		response = fmt.Sprintf("✗ Command %s rejected\n", result.Command)
	}

	if result.Message != "" {
		response += result.Message + "\n"
	}

	// Compact step summary (if available)
	if result.Step != nil {
		s := result.Step
		status := "✗"
		if s.Success {
			status = "✓"
		}
		response += fmt.Sprintf("Step: %s piece=%s score %d→%d lines %d→%d %s\n",
			s.Command, s.PieceKind, s.ScoreBefore, s.ScoreAfter, s.LinesBefore, s.LinesAfter, status)
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	if len(result.PossibleCommands) > 0 {
		response += "Possible commands: " + strings.Join(result.PossibleCommands, ",") + "\n"
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkCommandResult(sessionID string, result *service.BulkCommandResult) string {
	var b strings.Builder

	// Session header
	level := 0
	if result.GameState != nil {
		level = result.GameState.Level
	}
	b.WriteString(fmt.Sprintf("Session: %s • Level: %d\n", sessionID, level))

	// Bulk summary
	b.WriteString(fmt.Sprintf("Executed %d/%d commands • Score %d→%d (+%d) • Lines %d→%d (+%d)\n",
		result.CommandsExecuted, result.RequestedCommands,
		result.StartScore, result.EndScore, result.ScoreDelta,
		result.StartLines, result.EndLines, result.LinesDelta))
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s", result.StoppedReason))
		if result.StoppedOnCommand > 0 {
			b.WriteString(fmt.Sprintf(" (command %d)", result.StoppedOnCommand))
		}
		b.WriteString("\n")
	}
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated to the first %d commands\n", result.Limit))
	}

	// Events (keep as-is, concise)
	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	// Per-step trace for this call
	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			status := "✗"
			if s.Success {
				status = "✓"
			}
			line := fmt.Sprintf("%d. %s piece=%s score=%d %s", s.Idx, s.Command, s.PieceKind, s.ScoreAfter, status)
			if s.Locked {
				line += " locked"
			}
			if s.LinesNow > 0 {
				line += fmt.Sprintf(" cleared=%d", s.LinesNow)
			}
			if s.LeveledUp {
				line += " level-up"
			}
			if s.GameOver {
				line += " GAME OVER"
			}
			b.WriteString(line + "\n")
		}
	}

	// Possible commands from final state
	if len(result.PossibleCommands) > 0 {
		b.WriteString("\nPossible commands: ")
		b.WriteString(strings.Join(result.PossibleCommands, ","))
		b.WriteString("\n")
	}

	// Full state at the end
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Command History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalCommands)

	for _, entry := range history.Commands {
		line := fmt.Sprintf("%d. %s [Score: %d, Lines: %d]",
			entry.Idx, entry.Command, entry.ScoreAfter, entry.LinesAfter)
		if entry.Locked {
			line += " locked"
		}
		if entry.GameOver {
			line += " game over"
		}
		result += line + "\n"
	}

	return result
}
