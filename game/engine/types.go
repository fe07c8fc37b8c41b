package engine

// PieceKind identifies one of the seven tetromino kinds.
type PieceKind int

const (
	PieceI PieceKind = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL

	// PieceKindCount is the number of distinct piece kinds (the bag size).
	PieceKindCount = 7
)

// Board dimensions and spawn anchor. These are invariants of the game, not
// configuration: every board is exactly BoardWidth x BoardHeight cells.
const (
	BoardWidth  = 10
	BoardHeight = 20

	// SpawnX centers the 4x4 piece mask horizontally; SpawnY places the mask
	// one row above the visible board so tall pieces enter gradually.
	SpawnX = (BoardWidth - 4) / 2
	SpawnY = -1

	// MaxBulkCommands caps the number of commands accepted per bulk call.
	MaxBulkCommands = 100

	// WebSocketBufferSize is the per-client send buffer used by transports.
	WebSocketBufferSize = 256
)

// String returns the conventional one-letter name of the kind.
func (k PieceKind) String() string {
	switch k {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	}
	return "?"
}

// Valid reports whether k is one of the seven defined kinds.
func (k PieceKind) Valid() bool {
	return k >= PieceI && k <= PieceL
}

// Cell is a single board cell: CellEmpty or the stamped piece kind + 1.
type Cell uint8

// CellEmpty marks an unoccupied board cell.
const CellEmpty Cell = 0

// Cell returns the board cell value that marks a stamped piece of kind k.
func (k PieceKind) Cell() Cell {
	return Cell(k) + 1
}

// Kind returns the piece kind stamped in a non-empty cell.
func (c Cell) Kind() PieceKind {
	return PieceKind(c) - 1
}

// Empty reports whether the cell is unoccupied.
func (c Cell) Empty() bool {
	return c == CellEmpty
}

// Piece is an active falling piece: a kind, a rotation index in [0,4), and
// the board coordinates of the top-left corner of its 4x4 mask. Y may be
// negative while the piece is still partially above the visible board.
type Piece struct {
	Kind     PieceKind `json:"kind"`
	Rotation int       `json:"rotation"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
}

// Command is a discrete input to the state machine. Unknown commands are
// silently ignored by Apply, keeping the reducer total.
type Command string

const (
	CmdStart     Command = "start"
	CmdMoveLeft  Command = "move_left"
	CmdMoveRight Command = "move_right"
	CmdSoftDrop  Command = "soft_drop"
	CmdHardDrop  Command = "hard_drop"
	CmdRotateCW  Command = "rotate_cw"
	CmdRotateCCW Command = "rotate_ccw"
	CmdHold      Command = "hold"
	CmdPause     Command = "pause"
	CmdResume    Command = "resume"
	CmdReset     Command = "reset"
	CmdTick      Command = "tick"
)

// Commands lists every command the reducer understands, in a stable order.
var Commands = []Command{
	CmdStart, CmdMoveLeft, CmdMoveRight, CmdSoftDrop, CmdHardDrop,
	CmdRotateCW, CmdRotateCCW, CmdHold, CmdPause, CmdResume, CmdReset, CmdTick,
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	for _, known := range Commands {
		if c == known {
			return true
		}
	}
	return false
}

// GameState is the complete state of one game. It is a plain value: copying
// it copies the board (a fixed-size array) and the scalar fields, and the
// reducer never mutates the bag slice of an input state. The idle pre-game
// state is built by NewGameState.
type GameState struct {
	Board        Board       `json:"board"`
	CurrentPiece *Piece      `json:"current_piece,omitempty"`
	NextPiece    *Piece      `json:"next_piece,omitempty"`
	HoldPiece    *Piece      `json:"hold_piece,omitempty"`
	CanHold      bool        `json:"can_hold"`
	Score        int         `json:"score"`
	LinesCleared int         `json:"lines_cleared"`
	Level        int         `json:"level"`
	GameOver     bool        `json:"game_over"`
	Paused       bool        `json:"paused"`
	Playing      bool        `json:"playing"`
	Bag          []PieceKind `json:"bag"`
	BagIndex     int         `json:"bag_index"`

	// StartLevel is the level the game begins at; the effective level never
	// drops below it as lines accumulate.
	StartLevel int `json:"start_level"`
}

// NewGameState returns the idle pre-game state: empty board, no pieces, and
// the starting level. startingLevel values below 1 are clamped to 1.
func NewGameState(startingLevel int) GameState {
	if startingLevel < 1 {
		startingLevel = 1
	}
	return GameState{
		Level:      startingLevel,
		StartLevel: startingLevel,
		CanHold:    true,
	}
}
