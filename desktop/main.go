package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	cellSize      = 32
	boardCols     = 10
	boardRows     = 20
	headerHeight  = 60
	sidebarWidth  = 240
	screenWidth   = boardCols*cellSize + sidebarWidth
	screenHeight  = boardRows*cellSize + headerHeight + 30
	baseURL       = "http://localhost:8080"
	flashDuration = 180 * time.Millisecond // Line clear flash duration

	// Horizontal auto-repeat: initial delay and interval, in ticks (60/sec)
	repeatDelay    = 10
	repeatInterval = 3
)

// ScreenType represents different screens in the app
type ScreenType int

const (
	ScreenWelcome ScreenType = iota
	ScreenGame
)

// pieceColors indexed by piece kind (I, O, T, S, Z, J, L)
var pieceColors = []color.RGBA{
	{0, 240, 240, 255},   // I - cyan
	{240, 240, 0, 255},   // O - yellow
	{160, 0, 240, 255},   // T - purple
	{0, 240, 0, 255},     // S - green
	{240, 0, 0, 255},     // Z - red
	{0, 0, 240, 255},     // J - blue
	{240, 160, 0, 255},   // L - orange
}

// pieceShapes mirrors the server's rotation masks; the client needs them to
// draw the active piece and compute the ghost position locally.
var pieceShapes = [7][4][4][4]int{
	{ // I
		{{0, 0, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, 1, 0}},
		{{0, 0, 0, 0}, {0, 0, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}},
	},
	{ // O
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 1, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
	},
	{ // T
		{{0, 1, 0, 0}, {1, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {0, 1, 1, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
		{{0, 0, 0, 0}, {1, 1, 1, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {1, 1, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
	},
	{ // S
		{{0, 1, 1, 0}, {1, 1, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {0, 1, 1, 0}, {0, 0, 1, 0}, {0, 0, 0, 0}},
		{{0, 0, 0, 0}, {0, 1, 1, 0}, {1, 1, 0, 0}, {0, 0, 0, 0}},
		{{1, 0, 0, 0}, {1, 1, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
	},
	{ // Z
		{{1, 1, 0, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 0, 1, 0}, {0, 1, 1, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
		{{0, 0, 0, 0}, {1, 1, 0, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {1, 1, 0, 0}, {1, 0, 0, 0}, {0, 0, 0, 0}},
	},
	{ // J
		{{1, 0, 0, 0}, {1, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 1, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
		{{0, 0, 0, 0}, {1, 1, 1, 0}, {0, 0, 1, 0}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {0, 1, 0, 0}, {1, 1, 0, 0}, {0, 0, 0, 0}},
	},
	{ // L
		{{0, 0, 1, 0}, {1, 1, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{0, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 1, 0}, {0, 0, 0, 0}},
		{{0, 0, 0, 0}, {1, 1, 1, 0}, {1, 0, 0, 0}, {0, 0, 0, 0}},
		{{1, 1, 0, 0}, {0, 1, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
	},
}

// Piece is the active/next/hold piece as the server reports it
type Piece struct {
	Kind     int `json:"kind"`
	Rotation int `json:"rotation"`
	X        int `json:"x"`
	Y        int `json:"y"`
}

// GameState represents the state from the Tetris game server
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

// WSMessage represents WebSocket message wrapper
type WSMessage struct {
	SessionID string     `json:"session_id"`
	GameState *GameState `json:"game_state,omitempty"`
	Event     string     `json:"event,omitempty"`
}

// WSCommand is the message the hub expects from player clients
type WSCommand struct {
	Command string `json:"command"`
}

// SessionData holds data for a single session
type SessionData struct {
	sessionID  string
	state      *GameState
	wsConn     *websocket.Conn
	wsMutex    sync.Mutex
	lastUpdate time.Time
	flashTime  time.Time // When a line clear happened
	isFlashing bool
}

// SessionListItem represents a session from the server
type SessionListItem struct {
	ID         string     `json:"id"`
	ConfigName string     `json:"config_name"`
	CreatedAt  string     `json:"created_at"`
	GameState  *GameState `json:"game_state"`
}

// ConfigListItem represents a game configuration
type ConfigListItem struct {
	ConfigID    string `json:"config_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Game represents the desktop game client
type Game struct {
	sessions         []*SessionData
	activeSession    int
	stateMutex       sync.RWMutex
	currentScreen    ScreenType
	welcomeScreen    *WelcomeScreen
	selectedSessions map[string]bool
}

// WelcomeScreen manages the welcome screen state
type WelcomeScreen struct {
	availableSessions []SessionListItem
	availableConfigs  []ConfigListItem
	cursorPos         int
	loading           bool
	errorMsg          string
	newSessionConfig  string // config_id for new sessions, "" = default
}

// NewGame creates a new game instance with initial sessions
func NewGame(sessionIDs []string) *Game {
	g := &Game{
		sessions:         make([]*SessionData, 0),
		activeSession:    0,
		currentScreen:    ScreenWelcome,
		selectedSessions: make(map[string]bool),
		welcomeScreen: &WelcomeScreen{
			availableSessions: make([]SessionListItem, 0),
			availableConfigs:  make([]ConfigListItem, 0),
		},
	}

	// If session IDs provided, skip welcome screen and go straight to game
	if len(sessionIDs) > 0 {
		for _, sid := range sessionIDs {
			g.addSession(sid)
		}
		g.currentScreen = ScreenGame
	} else {
		g.loadWelcomeData()
	}

	return g
}

// addSession adds a new session to the game; an empty ID creates one
func (g *Game) addSession(sessionID string) {
	session := &SessionData{
		sessionID:  sessionID,
		lastUpdate: time.Now(),
	}

	if sessionID == "" {
		if err := g.createSessionWithConfig(session, g.welcomeScreen.newSessionConfig); err != nil {
			log.Printf("Failed to create session: %v", err)
			return
		}
	}

	g.sessions = append(g.sessions, session)

	if err := g.connectWebSocket(session); err != nil {
		log.Printf("Failed to connect WebSocket for %s: %v (falling back to polling)", session.sessionID, err)
	} else {
		go g.listenWebSocket(session)
	}

	g.fetchGameState(session)
}

// createSessionWithConfig creates a new game session with specific config
func (g *Game) createSessionWithConfig(session *SessionData, configID string) error {
	url := fmt.Sprintf("%s/api/sessions", baseURL)

	payload := "{}"
	if configID != "" {
		payload = fmt.Sprintf(`{"config_id":"%s"}`, configID)
	}

	resp, err := http.Post(url, "application/json", strings.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.ID == "" {
		return fmt.Errorf("failed to parse session response: %v (body: %s)", err, string(body))
	}

	session.sessionID = result.ID
	log.Printf("Created new session: %s (config: %s)", session.sessionID, configID)
	return nil
}

// connectWebSocket establishes WebSocket connection
func (g *Game) connectWebSocket(session *SessionData) error {
	if session.sessionID == "" {
		return fmt.Errorf("no session ID set")
	}

	wsURL := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", session.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	session.wsConn = conn
	log.Printf("WebSocket connected for session %s", session.sessionID)
	return nil
}

// listenWebSocket listens for WebSocket updates
func (g *Game) listenWebSocket(session *SessionData) {
	defer func() {
		if session.wsConn != nil {
			session.wsConn.Close()
		}
	}()

	for {
		_, message, err := session.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error for %s: %v", session.sessionID, err)
			return
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(message, &wsMsg); err != nil {
			log.Printf("WebSocket JSON parse error: %v", err)
			continue
		}

		if wsMsg.GameState == nil {
			continue
		}

		g.applyState(session, wsMsg.GameState)
	}
}

// applyState swaps in a new state and starts the clear flash when the line
// count moved
func (g *Game) applyState(session *SessionData, state *GameState) {
	g.stateMutex.Lock()
	if session.state != nil && state.LinesCleared > session.state.LinesCleared {
		session.flashTime = time.Now()
		session.isFlashing = true
	}
	session.state = state
	session.lastUpdate = time.Now()
	g.stateMutex.Unlock()
}

// fetchGameState gets the current game state from the server
func (g *Game) fetchGameState(session *SessionData) error {
	if session.sessionID == "" {
		return fmt.Errorf("no session ID set")
	}

	url := fmt.Sprintf("%s/api/sessions/%s/state", baseURL, session.sessionID)
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var state GameState
	if err := json.Unmarshal(body, &state); err != nil {
		return fmt.Errorf("failed to parse JSON: %v (body: %s)", err, string(body))
	}

	g.applyState(session, &state)
	return nil
}

// loadWelcomeData fetches available sessions and configs from server
func (g *Game) loadWelcomeData() {
	g.welcomeScreen.loading = true
	g.welcomeScreen.errorMsg = ""

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions", baseURL))
	if err != nil {
		g.welcomeScreen.errorMsg = fmt.Sprintf("Error loading sessions: %v", err)
		g.welcomeScreen.loading = false
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var sessionsResp struct {
		Sessions []SessionListItem `json:"sessions"`
	}
	if err := json.Unmarshal(body, &sessionsResp); err == nil {
		g.welcomeScreen.availableSessions = sessionsResp.Sessions
	}

	resp, err = http.Get(fmt.Sprintf("%s/api/configs", baseURL))
	if err != nil {
		g.welcomeScreen.errorMsg = fmt.Sprintf("Error loading configs: %v", err)
		g.welcomeScreen.loading = false
		return
	}
	defer resp.Body.Close()

	body, _ = io.ReadAll(resp.Body)
	var configsResp struct {
		Configs []ConfigListItem `json:"configs"`
	}
	if err := json.Unmarshal(body, &configsResp); err == nil {
		g.welcomeScreen.availableConfigs = configsResp.Configs
	}

	g.welcomeScreen.loading = false
}

// createNewSessionFromWelcome creates a new session with selected config
func (g *Game) createNewSessionFromWelcome() error {
	session := &SessionData{}
	if err := g.createSessionWithConfig(session, g.welcomeScreen.newSessionConfig); err != nil {
		return err
	}

	g.selectedSessions[session.sessionID] = true
	g.loadWelcomeData()
	return nil
}

// startGameWithSelectedSessions transitions to game screen with selected sessions
func (g *Game) startGameWithSelectedSessions() {
	if len(g.selectedSessions) == 0 {
		g.welcomeScreen.errorMsg = "Please select at least one session"
		return
	}

	for sessionID := range g.selectedSessions {
		g.addSession(sessionID)
	}

	g.currentScreen = ScreenGame
}

// sendCommand sends a game command for the active session. The WebSocket path
// is preferred since the hub echoes the resulting state back; REST is the
// fallback when the socket is down.
func (g *Game) sendCommand(command string) error {
	if len(g.sessions) == 0 {
		return fmt.Errorf("no sessions available")
	}

	session := g.sessions[g.activeSession]
	if session.sessionID == "" {
		return fmt.Errorf("no session ID set")
	}

	if session.wsConn != nil {
		session.wsMutex.Lock()
		err := session.wsConn.WriteJSON(WSCommand{Command: command})
		session.wsMutex.Unlock()
		if err == nil {
			return nil
		}
		log.Printf("WebSocket write failed, falling back to REST: %v", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/command", baseURL, session.sessionID)
	payload := fmt.Sprintf(`{"command":"%s"}`, command)

	resp, err := http.Post(url, "application/json", strings.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return g.fetchGameState(session)
}

// Update updates game logic
func (g *Game) Update() error {
	switch g.currentScreen {
	case ScreenWelcome:
		return g.updateWelcomeScreen()
	case ScreenGame:
		return g.updateGameScreen()
	}
	return nil
}

// updateWelcomeScreen handles welcome screen input
func (g *Game) updateWelcomeScreen() error {
	ws := g.welcomeScreen

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.loadWelcomeData()
	}

	totalItems := len(ws.availableSessions)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		ws.cursorPos++
		if ws.cursorPos >= totalItems {
			ws.cursorPos = totalItems - 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		ws.cursorPos--
		if ws.cursorPos < 0 {
			ws.cursorPos = 0
		}
	}

	// Toggle selection with Space
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if ws.cursorPos >= 0 && ws.cursorPos < len(ws.availableSessions) {
			sessionID := ws.availableSessions[ws.cursorPos].ID
			g.selectedSessions[sessionID] = !g.selectedSessions[sessionID]
			if !g.selectedSessions[sessionID] {
				delete(g.selectedSessions, sessionID)
			}
		}
	}

	// Cycle through configs with Tab
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if len(ws.availableConfigs) > 0 {
			currentIdx := -1
			for i, cfg := range ws.availableConfigs {
				if cfg.ConfigID == ws.newSessionConfig {
					currentIdx = i
					break
				}
			}
			currentIdx++
			if currentIdx >= len(ws.availableConfigs) {
				ws.newSessionConfig = "" // No config (default)
			} else {
				ws.newSessionConfig = ws.availableConfigs[currentIdx].ConfigID
			}
		}
	}

	// Create new session with N
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := g.createNewSessionFromWelcome(); err != nil {
			ws.errorMsg = fmt.Sprintf("Failed to create session: %v", err)
		}
	}

	// Start game with Enter
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.startGameWithSelectedSessions()
	}

	// Back to game screen with Escape (if sessions exist)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && len(g.sessions) > 0 {
		g.currentScreen = ScreenGame
	}

	return nil
}

// keyRepeats reports whether a held key should fire this tick: once when
// first pressed, then on the auto-repeat cadence.
func keyRepeats(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

// updateGameScreen handles game screen input
func (g *Game) updateGameScreen() error {
	if len(g.sessions) == 0 {
		return nil
	}

	// End line clear flash after duration
	g.stateMutex.Lock()
	for _, session := range g.sessions {
		if session.isFlashing && time.Since(session.flashTime) > flashDuration {
			session.isFlashing = false
		}
	}
	g.stateMutex.Unlock()

	// Poll sessions without a live WebSocket
	for _, session := range g.sessions {
		if session.wsConn == nil {
			if session.state == nil || time.Since(session.lastUpdate) > 500*time.Millisecond {
				if err := g.fetchGameState(session); err != nil {
					log.Printf("Error fetching state for %s: %v", session.sessionID, err)
				}
			}
		}
	}

	// Session switching with number keys (1-9)
	for i := ebiten.Key1; i <= ebiten.Key9; i++ {
		if inpututil.IsKeyJustPressed(i) {
			sessionIdx := int(i - ebiten.Key1)
			if sessionIdx < len(g.sessions) {
				g.activeSession = sessionIdx
				log.Printf("Switched to session %d: %s", sessionIdx+1, g.sessions[sessionIdx].sessionID)
			}
		}
	}

	// Add new session with N key
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if len(g.sessions) < 9 {
			g.addSession("")
			log.Printf("Added new session (total: %d)", len(g.sessions))
		}
	}

	// Shifts and soft drop auto-repeat while held
	if keyRepeats(ebiten.KeyArrowLeft) || keyRepeats(ebiten.KeyA) {
		g.sendCommand("move_left")
	}
	if keyRepeats(ebiten.KeyArrowRight) || keyRepeats(ebiten.KeyD) {
		g.sendCommand("move_right")
	}
	if keyRepeats(ebiten.KeyArrowDown) || keyRepeats(ebiten.KeyS) {
		g.sendCommand("soft_drop")
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.sendCommand("rotate_cw")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.sendCommand("rotate_ccw")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sendCommand("hard_drop")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.sendCommand("hold")
	}

	// Enter starts an idle game or resumes a paused one
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		session := g.sessions[g.activeSession]
		g.stateMutex.RLock()
		state := session.state
		g.stateMutex.RUnlock()
		if state == nil || !state.Playing {
			g.sendCommand("start")
		} else if state.Paused {
			g.sendCommand("resume")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		session := g.sessions[g.activeSession]
		g.stateMutex.RLock()
		paused := session.state != nil && session.state.Paused
		g.stateMutex.RUnlock()
		if paused {
			g.sendCommand("resume")
		} else {
			g.sendCommand("pause")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sendCommand("reset")
	}

	// Return to welcome screen with Escape
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.currentScreen = ScreenWelcome
		g.loadWelcomeData()
	}

	return nil
}

// Draw renders the game
func (g *Game) Draw(screen *ebiten.Image) {
	switch g.currentScreen {
	case ScreenWelcome:
		g.drawWelcomeScreen(screen)
	case ScreenGame:
		g.drawGameScreen(screen)
	}
}

// drawWelcomeScreen renders the welcome/session selection screen
func (g *Game) drawWelcomeScreen(screen *ebiten.Image) {
	ws := g.welcomeScreen

	screen.Fill(color.RGBA{20, 20, 30, 255})

	y := 20
	ebitenutil.DebugPrintAt(screen, "=== TETRIS - SESSION SELECT ===", 160, y)
	y += 30

	if ws.loading {
		ebitenutil.DebugPrintAt(screen, "Loading sessions...", 20, y)
		return
	}

	if ws.errorMsg != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ERROR: %s", ws.errorMsg), 20, y)
		y += 20
	}

	ebitenutil.DebugPrintAt(screen, "Available Sessions:", 20, y)
	y += 20

	if len(ws.availableSessions) == 0 {
		ebitenutil.DebugPrintAt(screen, "  No sessions found. Press N to create one.", 20, y)
		y += 20
	} else {
		for i, session := range ws.availableSessions {
			cursor := "  "
			if i == ws.cursorPos {
				cursor = "> "
			}

			checkbox := "[ ]"
			if g.selectedSessions[session.ID] {
				checkbox = "[X]"
			}

			stats := ""
			if session.GameState != nil {
				stats = fmt.Sprintf(" | Score:%d Lines:%d Lv:%d",
					session.GameState.Score, session.GameState.LinesCleared, session.GameState.Level)
				if session.GameState.GameOver {
					stats += " GAME OVER"
				}
			}

			line := fmt.Sprintf("%s%s %s | %s%s",
				cursor, checkbox, session.ID, session.ConfigName, stats)

			ebitenutil.DebugPrintAt(screen, line, 20, y)
			y += 15
		}
	}

	y += 20
	ebitenutil.DebugPrintAt(screen, "Create New Session:", 20, y)
	y += 20

	configDisplay := "default"
	if ws.newSessionConfig != "" {
		configDisplay = ws.newSessionConfig
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  Selected Config: %s", configDisplay), 20, y)
	y += 15

	for _, cfg := range ws.availableConfigs {
		marker := "  "
		if cfg.ConfigID == ws.newSessionConfig {
			marker = "> "
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("    %s%s - %s", marker, cfg.Name, cfg.Description), 20, y)
		y += 15
	}

	y += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Selected: %d session(s)", len(g.selectedSessions)), 20, y)
	y += 30

	ebitenutil.DebugPrintAt(screen, "CONTROLS:", 20, y)
	y += 20
	ebitenutil.DebugPrintAt(screen, "  Up/Down - Navigate sessions", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  SPACE   - Toggle session selection", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  TAB     - Cycle config for new session", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  N       - Create new session with selected config", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  ENTER   - Start game with selected sessions", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  F5      - Refresh session list", 20, y)
	y += 15
	if len(g.sessions) > 0 {
		ebitenutil.DebugPrintAt(screen, "  ESC     - Back to game", 20, y)
	}
}

// drawGameScreen renders the active session's board plus the sidebar
func (g *Game) drawGameScreen(screen *ebiten.Image) {
	g.stateMutex.RLock()
	defer g.stateMutex.RUnlock()

	screen.Fill(color.RGBA{15, 15, 25, 255})

	if len(g.sessions) == 0 {
		ebitenutil.DebugPrint(screen, "No sessions available. Press ESC to go to session select.")
		return
	}

	g.drawSessionStats(screen)

	session := g.sessions[g.activeSession]
	if session.state == nil {
		ebitenutil.DebugPrintAt(screen, "Loading...", 20, headerHeight+20)
		return
	}
	state := session.state

	boardTop := headerHeight

	// Board background and settled cells
	for y := 0; y < boardRows && y < len(state.Board); y++ {
		for x := 0; x < boardCols && x < len(state.Board[y]); x++ {
			cellColor := color.RGBA{35, 35, 45, 255}
			if state.Board[y][x] != 0 {
				cellColor = cellColorFor(state.Board[y][x] - 1)
			}
			ebitenutil.DrawRect(screen,
				float64(x*cellSize),
				float64(y*cellSize+boardTop),
				cellSize-1, cellSize-1, cellColor)
		}
	}

	// Ghost piece under the active piece
	if state.CurrentPiece != nil && !state.GameOver {
		ghostY := ghostDropY(state)
		drawMask(screen, state.CurrentPiece.Kind, state.CurrentPiece.Rotation,
			state.CurrentPiece.X, ghostY, boardTop, color.RGBA{90, 90, 100, 255})
		drawMask(screen, state.CurrentPiece.Kind, state.CurrentPiece.Rotation,
			state.CurrentPiece.X, state.CurrentPiece.Y, boardTop,
			cellColorFor(state.CurrentPiece.Kind))
	}

	// Line clear flash overlay
	if session.isFlashing {
		ebitenutil.DrawRect(screen, 0, float64(boardTop),
			boardCols*cellSize, boardRows*cellSize, color.RGBA{255, 255, 255, 60})
	}

	// Sidebar
	sx := boardCols*cellSize + 20
	sy := boardTop + 10
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE  %d", state.Score), sx, sy)
	sy += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LINES  %d", state.LinesCleared), sx, sy)
	sy += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LEVEL  %d", state.Level), sx, sy)
	sy += 30

	ebitenutil.DebugPrintAt(screen, "NEXT", sx, sy)
	sy += 15
	if state.NextPiece != nil {
		drawPreview(screen, state.NextPiece.Kind, sx, sy)
	}
	sy += 4*cellSize/2 + 20

	holdLabel := "HOLD"
	if !state.CanHold {
		holdLabel = "HOLD (used)"
	}
	ebitenutil.DebugPrintAt(screen, holdLabel, sx, sy)
	sy += 15
	if state.HoldPiece != nil {
		drawPreview(screen, state.HoldPiece.Kind, sx, sy)
	}
	sy += 4*cellSize/2 + 20

	if state.GameOver {
		ebitenutil.DebugPrintAt(screen, "GAME OVER", sx, sy)
		sy += 15
		ebitenutil.DebugPrintAt(screen, "R to reset", sx, sy)
	} else if state.Paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED - P to resume", sx, sy)
	} else if !state.Playing {
		ebitenutil.DebugPrintAt(screen, "ENTER to start", sx, sy)
	}

	// Footer controls
	ebitenutil.DebugPrintAt(screen,
		"Arrows/WASD: Move  X/Z: Rotate  SPACE: Drop  C: Hold  P: Pause  R: Reset  ESC: Menu",
		10, screenHeight-20)
}

// drawMask stamps a piece mask onto the board area; rows above the board are
// clipped the same way the server clips them.
func drawMask(screen *ebiten.Image, kind, rotation, px, py, boardTop int, c color.Color) {
	if kind < 0 || kind >= len(pieceShapes) {
		return
	}
	mask := pieceShapes[kind][((rotation%4)+4)%4]
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if mask[row][col] == 0 {
				continue
			}
			x := px + col
			y := py + row
			if y < 0 || y >= boardRows || x < 0 || x >= boardCols {
				continue
			}
			ebitenutil.DrawRect(screen,
				float64(x*cellSize),
				float64(y*cellSize+boardTop),
				cellSize-1, cellSize-1, c)
		}
	}
}

// drawPreview draws a half-scale piece preview in the sidebar
func drawPreview(screen *ebiten.Image, kind, sx, sy int) {
	if kind < 0 || kind >= len(pieceShapes) {
		return
	}
	mask := pieceShapes[kind][0]
	size := cellSize / 2
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if mask[row][col] == 0 {
				continue
			}
			ebitenutil.DrawRect(screen,
				float64(sx+col*size),
				float64(sy+row*size),
				float64(size-1), float64(size-1), cellColorFor(kind))
		}
	}
}

// ghostDropY computes where the active piece would rest, for the ghost
func ghostDropY(state *GameState) int {
	p := state.CurrentPiece
	y := p.Y
	for canPlaceAt(state, p.Kind, p.Rotation, p.X, y+1) {
		y++
	}
	return y
}

func canPlaceAt(state *GameState, kind, rotation, x, y int) bool {
	mask := pieceShapes[kind][((rotation%4)+4)%4]
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if mask[row][col] == 0 {
				continue
			}
			bx := x + col
			by := y + row
			if bx < 0 || bx >= boardCols || by >= boardRows {
				return false
			}
			if by >= 0 && by < len(state.Board) && bx < len(state.Board[by]) && state.Board[by][bx] != 0 {
				return false
			}
		}
	}
	return true
}

// drawSessionStats draws stats for all sessions in header
func (g *Game) drawSessionStats(screen *ebiten.Image) {
	headerY := 5
	for idx, session := range g.sessions {
		if session.state == nil {
			continue
		}

		y := headerY + (idx * 15)
		if y > headerHeight-10 {
			break
		}

		activeMarker := ""
		if idx == g.activeSession {
			activeMarker = ">>>"
		}

		connStatus := "POLL"
		if session.wsConn != nil {
			connStatus = "WS"
		}

		info := fmt.Sprintf("%s [%d] %s [%s] SC:%d LN:%d LV:%d",
			activeMarker,
			idx+1,
			session.sessionID,
			connStatus,
			session.state.Score,
			session.state.LinesCleared,
			session.state.Level)

		if session.state.GameOver {
			info += " GAME OVER"
		} else if session.state.Paused {
			info += " PAUSED"
		}

		ebitenutil.DebugPrintAt(screen, info, 20, y)
	}
}

// Layout returns the game screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// cellColorFor returns the color for a piece kind
func cellColorFor(kind int) color.RGBA {
	if kind < 0 || kind >= len(pieceColors) {
		return color.RGBA{120, 120, 120, 255}
	}
	return pieceColors[kind]
}

func main() {
	// Accept multiple session IDs as arguments
	sessionIDs := []string{}
	if len(os.Args) > 1 {
		sessionIDs = os.Args[1:]
	}

	game := NewGame(sessionIDs)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Tetris - Desktop Client")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
