package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/MikeQin/tetris-game/game/engine"
	"github.com/MikeQin/tetris-game/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":    "test-session",
		"score": float64(120),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		state := engine.NewGameState(1)
		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "classic",
			GameState:  &state,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_session",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleCreateSession(ctx, request)
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", resultStr.Text)
	}
}

func TestClient_handleCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/abcd/command" {
			t.Errorf("Expected POST /api/sessions/abcd/command, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["command"] != "hard_drop" {
			t.Errorf("Expected command hard_drop, got %v", body["command"])
		}

		state := engine.NewGameState(1)
		state.Playing = true
		state.Score = 38
		resp := service.CommandResult{
			Success:   true,
			Command:   "hard_drop",
			GameState: &state,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "command",
			Arguments: map[string]interface{}{
				"session_id": "abcd",
				"command":    "hard_drop",
				"intent":     "drop the piece flat against the left wall",
			},
		},
	}

	result, err := client.handleCommand(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCommand failed: %v", err)
	}

	text := result.Content[0].(mcp.TextContent).Text
	if !strings.Contains(text, "✓ Command hard_drop executed") {
		t.Errorf("Expected success marker, got: %s", text)
	}
	if !strings.Contains(text, "Score: 38") {
		t.Errorf("Expected score in output, got: %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	state := engine.NewGameState(3)
	state.Playing = true
	state.Score = 440
	state.LinesCleared = 11
	state.Level = 3
	piece := engine.NewPiece(engine.PieceT)
	state.CurrentPiece = &piece
	next := engine.NewPiece(engine.PieceI)
	state.NextPiece = &next

	result := formatGameState(&state)

	expectedFields := []string{
		"Score: 440",
		"Lines: 11",
		"Level: 3",
		"Current: T",
		"Next: I",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_GameOver(t *testing.T) {
	state := engine.NewGameState(1)
	state.GameOver = true
	state.Score = 1200

	result := formatGameState(&state)

	if !strings.Contains(result, "💀 GAME OVER") {
		t.Errorf("Expected '💀 GAME OVER' in result, got: %s", result)
	}
}

func TestFormatGameState_Idle(t *testing.T) {
	state := engine.NewGameState(1)

	result := formatGameState(&state)

	if !strings.Contains(result, "Idle") {
		t.Errorf("Expected idle hint in result, got: %s", result)
	}
}

func TestRenderBoard(t *testing.T) {
	state := engine.NewGameState(1)
	state.Playing = true
	// O piece resting near the bottom; ghost overlaps its resting cells
	piece := engine.Piece{Kind: engine.PieceO, X: 0, Y: 0}
	state.CurrentPiece = &piece
	// A locked I cell at the bottom-right corner
	state.Board[19][9] = engine.PieceI.Cell()

	result := renderBoard(&state)

	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	if len(lines) != engine.BoardHeight {
		t.Fatalf("Expected %d board rows, got %d", engine.BoardHeight, len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != engine.BoardWidth {
			t.Errorf("Row %d has width %d, expected %d", i, len([]rune(line)), engine.BoardWidth)
		}
	}

	// The O mask occupies columns 1-2 of rows 0-1
	if lines[0][1] != 'O' || lines[1][2] != 'O' {
		t.Errorf("Expected O piece stamped at top-left, got rows %q %q", lines[0], lines[1])
	}
	if lines[19][9] != 'I' {
		t.Errorf("Expected locked I cell at bottom-right, got %q", lines[19])
	}
	// Ghost marker at the O piece's resting rows (18-19, columns 1-2)
	if lines[18][1] != '*' || lines[19][2] != '*' {
		t.Errorf("Expected ghost markers near the bottom, got rows %q %q", lines[18], lines[19])
	}
}

func TestFormatCommandResult_Failed(t *testing.T) {
	state := engine.NewGameState(1)
	state.Playing = true
	result := formatCommandResult(&service.CommandResult{
		Success:   false,
		Command:   "move_left",
		Message:   "Command not possible in the current state",
		GameState: &state,
	})

	if !strings.Contains(result, "✗ Command move_left rejected") {
		t.Errorf("Expected rejection marker in result, got: %s", result)
	}
	if !strings.Contains(result, "Command not possible") {
		t.Errorf("Expected message in result, got: %s", result)
	}
}

func TestFormatBulkCommandResult(t *testing.T) {
	state := engine.NewGameState(1)
	state.Playing = true
	state.Score = 140
	state.LinesCleared = 1

	result := formatBulkCommandResult("abcd", &service.BulkCommandResult{
		CommandsExecuted:  3,
		RequestedCommands: 5,
		GameState:         &state,
		StoppedReason:     "Command rejected",
		StopReasonCode:    "rejected",
		StoppedOnCommand:  4,
		StartScore:        100,
		EndScore:          140,
		ScoreDelta:        40,
		EndLines:          1,
		LinesDelta:        1,
		Steps: []service.StepInfo{
			{Idx: 1, Command: "rotate_cw", Success: true, ScoreAfter: 100},
			{Idx: 2, Command: "move_left", Success: true, ScoreAfter: 100},
			{Idx: 3, Command: "hard_drop", Success: true, ScoreAfter: 140, Locked: true, LinesNow: 1},
		},
	})

	expectedFields := []string{
		"Executed 3/5 commands",
		"Stopped: Command rejected (command 4)",
		"3. hard_drop",
		"locked",
		"cleared=1",
	}
	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected '%s' in bulk output, got: %s", field, result)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "game_instructions",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleGameInstructions(ctx, request)
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedContent := []string{
		"Tetris Game - Complete Instructions",
		"GAME OBJECTIVE:",
		"SCORING",
		"LEVELS:",
		"COMMANDS:",
		"AI AGENTS - SUCCESS STRATEGIES:",
		"STACK MANAGEMENT:",
		"PLACEMENT WORKFLOW:",
		"PITFALLS TO AVOID:",
		"BOARD LEGEND:",
		"SESSION MANAGEMENT:",
		"Good luck clearing lines!",
	}

	for _, content := range expectedContent {
		if !strings.Contains(resultStr.Text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, resultStr.Text)
		}
	}
}

func TestClient_handleAnalyzeBoard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := engine.NewGameState(1)
		state.Playing = true
		// Column 0: filled bottom two rows; column 1: filled row 18, hole at 19
		state.Board[18][0] = engine.PieceJ.Cell()
		state.Board[19][0] = engine.PieceJ.Cell()
		state.Board[18][1] = engine.PieceL.Cell()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(state)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "analyze_board",
			Arguments: map[string]interface{}{"session_id": "abcd"},
		},
	}

	result, err := client.handleAnalyzeBoard(context.Background(), request)
	if err != nil {
		t.Fatalf("handleAnalyzeBoard failed: %v", err)
	}

	text := result.Content[0].(mcp.TextContent).Text
	if !strings.Contains(text, "stack height 2") {
		t.Errorf("Expected stack height 2, got: %s", text)
	}
	if !strings.Contains(text, "holes 1") {
		t.Errorf("Expected 1 hole, got: %s", text)
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}

	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}

	if client.baseURL == "" {
		t.Error("Base URL not set")
	}

	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}
