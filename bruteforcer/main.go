package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type Piece struct {
	Kind     int `json:"kind"`
	Rotation int `json:"rotation"`
	X        int `json:"x"`
	Y        int `json:"y"`
}

type GameState struct {
	Board        [][]int `json:"board"`
	CurrentPiece *Piece  `json:"current_piece"`
	NextPiece    *Piece  `json:"next_piece"`
	HoldPiece    *Piece  `json:"hold_piece"`
	CanHold      bool    `json:"can_hold"`
	Score        int     `json:"score"`
	LinesCleared int     `json:"lines_cleared"`
	Level        int     `json:"level"`
	GameOver     bool    `json:"game_over"`
	Paused       bool    `json:"paused"`
	Playing      bool    `json:"playing"`
}

type SessionResponse struct {
	ID         string     `json:"id"`
	ConfigName string     `json:"config_name"`
	GameState  *GameState `json:"game_state"`
}

type CommandRequest struct {
	Command  string   `json:"command,omitempty"`
	Commands []string `json:"commands,omitempty"`
	Reset    bool     `json:"reset,omitempty"`
}

type CommandResponse struct {
	Success   bool       `json:"success"`
	GameState *GameState `json:"game_state"`
	Message   string     `json:"message"`
}

type BulkCommandResponse struct {
	CommandsExecuted int        `json:"commands_executed"`
	Success          bool       `json:"success"`
	GameState        *GameState `json:"game_state"`
	StoppedReason    string     `json:"stopped_reason"`
	GameOver         bool       `json:"game_over"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(configID string) (*GameState, error) {
	var reqBody []byte
	var err error

	if configID != "" {
		reqBody, err = json.Marshal(map[string]string{"config_id": configID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	return &state, nil
}

func (c *Client) Command(command string) (*GameState, error) {
	body, err := json.Marshal(CommandRequest{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/command", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("execute command: %w", err)
	}
	defer resp.Body.Close()

	var cmdResp CommandResponse
	if err := json.NewDecoder(resp.Body).Decode(&cmdResp); err != nil {
		return nil, fmt.Errorf("parse command response: %w", err)
	}

	// A rejected command (wall contact, blocked rotation) still returns the
	// current state; only a missing state is a hard error
	if cmdResp.GameState == nil {
		return nil, fmt.Errorf("command failed: %s", cmdResp.Message)
	}

	return cmdResp.GameState, nil
}

func (c *Client) BulkCommand(commands []string) (*GameState, error) {
	body, err := json.Marshal(CommandRequest{Commands: commands})
	if err != nil {
		return nil, fmt.Errorf("marshal commands: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/bulk-command", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("execute bulk command: %w", err)
	}
	defer resp.Body.Close()

	var bulkResp BulkCommandResponse
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return nil, fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkResp.GameState == nil {
		return nil, fmt.Errorf("bulk command failed: %s", bulkResp.StoppedReason)
	}

	return bulkResp.GameState, nil
}

type ResetResponse struct {
	Message string     `json:"message"`
	State   *GameState `json:"state"`
}

func (c *Client) Reset() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return resetResp.State, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Game configuration (classic, sprint, expert, zen)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxPieces := flag.Int("max-pieces", 2000, "Maximum piece placements per game")
	games := flag.Int("games", 1, "Number of games to play")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between placements in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = "" // Force create new
		} else {
			log.Printf("Session resumed - Score: %d, Lines: %d, Level: %d",
				state.Score, state.LinesCleared, state.Level)
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*configID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)

		// Save session ID for next run
		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	strategy := NewPlacementStrategy()

	bestScore := 0
	bestLines := 0
	for gameNum := 1; gameNum <= *games; gameNum++ {
		// Fresh board for each game
		state, err = client.Reset()
		if err != nil {
			log.Fatalf("Failed to reset game: %v", err)
		}

		state, err = client.Command("start")
		if err != nil {
			log.Fatalf("Failed to start game: %v", err)
		}

		log.Printf("\n=== 🎮 Game %d/%d ===", gameNum, *games)

		pieceCount := 0
		for !state.GameOver && pieceCount < *maxPieces {
			if state.CurrentPiece == nil {
				// Between start and first spawn, or a race with gravity; re-read
				state, err = client.GetState()
				if err != nil {
					log.Fatalf("Failed to read state: %v", err)
				}
				continue
			}

			plan := strategy.PlanPlacement(state)
			if len(plan) == 0 {
				log.Printf("⚠️  No placement plan available")
				break
			}

			newState, err := client.BulkCommand(plan)
			if err != nil {
				if *verbose {
					log.Printf("Placement failed: %v", err)
				}
				// Re-sync and keep going
				newState, err = client.GetState()
				if err != nil {
					log.Fatalf("Failed to re-sync state: %v", err)
				}
			}
			state = newState
			pieceCount++

			if *verbose && pieceCount%25 == 0 {
				log.Printf("Pieces: %d, Score: %d, Lines: %d, Level: %d",
					pieceCount, state.Score, state.LinesCleared, state.Level)
			}

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Game %d: Pieces=%d, Score=%d, Lines=%d, Level=%d",
			gameNum, pieceCount, state.Score, state.LinesCleared, state.Level)

		if state.Score > bestScore {
			bestScore = state.Score
		}
		if state.LinesCleared > bestLines {
			bestLines = state.LinesCleared
		}
	}

	log.Printf("\n🏁 Finished %d game(s) - Best score: %d, Best lines: %d", *games, bestScore, bestLines)
	log.Printf("Session: %s", client.sessionID)
}
