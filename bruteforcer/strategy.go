package main

import (
	"log"
	"math"
)

const (
	boardWidth  = 10
	boardHeight = 20

	spawnX = 3
	spawnY = -1
)

// pieceShapes mirrors the server's rotation masks so placements can be
// simulated locally without an API round trip per candidate.
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

type board [boardHeight][boardWidth]int

// PlacementStrategy searches every reachable rotation and column for the
// active piece (and the hold alternative), scores the resulting stacks, and
// emits the command sequence for the best one.
type PlacementStrategy struct {
	// Stack evaluation weights, tuned for survival over burst scoring
	heightWeight    float64
	linesWeight     float64
	holesWeight     float64
	bumpinessWeight float64
}

type candidate struct {
	useHold  bool
	rotation int
	targetX  int
	score    float64
}

func NewPlacementStrategy() *PlacementStrategy {
	return &PlacementStrategy{
		heightWeight:    -0.51,
		linesWeight:     0.76,
		holesWeight:     -0.36,
		bumpinessWeight: -0.18,
	}
}

// PlanPlacement returns the command sequence that places the active piece in
// the best position found, or nil when no placement fits.
func (s *PlacementStrategy) PlanPlacement(state *GameState) []string {
	if state.CurrentPiece == nil {
		return nil
	}

	b := boardFromState(state)
	best := candidate{score: math.Inf(-1)}
	found := false

	evaluateKind := func(kind, startX, startY int, useHold bool) {
		for rotation := 0; rotation < 4; rotation++ {
			if !canPlace(b, kind, rotation, startX, startY) {
				continue
			}
			// Shifts happen at the spawn row, so every column between the
			// start and the target must be clear at that height
			for targetX := -2; targetX < boardWidth; targetX++ {
				if !pathClear(b, kind, rotation, startX, targetX, startY) {
					continue
				}
				restY := dropY(b, kind, rotation, targetX, startY)
				placed := place(b, kind, rotation, targetX, restY)
				score := s.evaluate(placed)
				if score > best.score {
					best = candidate{useHold: useHold, rotation: rotation, targetX: targetX, score: score}
					found = true
				}
			}
		}
	}

	evaluateKind(state.CurrentPiece.Kind, state.CurrentPiece.X, state.CurrentPiece.Y, false)

	// The hold alternative: the stashed piece, or the next piece when the
	// stash is empty. Either way it re-enters at the spawn anchor.
	if state.CanHold {
		holdKind := -1
		if state.HoldPiece != nil {
			holdKind = state.HoldPiece.Kind
		} else if state.NextPiece != nil {
			holdKind = state.NextPiece.Kind
		}
		if holdKind >= 0 && holdKind != state.CurrentPiece.Kind {
			evaluateKind(holdKind, spawnX, spawnY, true)
		}
	}

	if !found {
		log.Printf("❌ No legal placement for piece %d", state.CurrentPiece.Kind)
		return nil
	}

	return buildCommands(best, state.CurrentPiece.X)
}

// buildCommands translates a chosen candidate into the wire command sequence:
// optional hold, rotations, shifts, then the drop.
func buildCommands(c candidate, currentX int) []string {
	var commands []string

	startX := currentX
	if c.useHold {
		commands = append(commands, "hold")
		startX = spawnX
	}

	for i := 0; i < c.rotation; i++ {
		commands = append(commands, "rotate_cw")
	}

	shift := c.targetX - startX
	dir := "move_right"
	if shift < 0 {
		dir = "move_left"
		shift = -shift
	}
	for i := 0; i < shift; i++ {
		commands = append(commands, dir)
	}

	return append(commands, "hard_drop")
}

func boardFromState(state *GameState) board {
	var b board
	for y := 0; y < boardHeight && y < len(state.Board); y++ {
		for x := 0; x < boardWidth && x < len(state.Board[y]); x++ {
			b[y][x] = state.Board[y][x]
		}
	}
	return b
}

func canPlace(b board, kind, rotation, x, y int) bool {
	if kind < 0 || kind >= len(pieceShapes) {
		return false
	}
	mask := pieceShapes[kind][rotation%4]
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if mask[row][col] == 0 {
				continue
			}
			bx := x + col
			by := y + row
			if bx < 0 || bx >= boardWidth || by >= boardHeight {
				return false
			}
			if by >= 0 && b[by][bx] != 0 {
				return false
			}
		}
	}
	return true
}

// pathClear checks every intermediate column of a horizontal shift at the
// given row. Shifts are executed one cell at a time on the server, so a
// single blocked column invalidates the whole plan.
func pathClear(b board, kind, rotation, fromX, toX, y int) bool {
	step := 1
	if toX < fromX {
		step = -1
	}
	for x := fromX; x != toX+step; x += step {
		if !canPlace(b, kind, rotation, x, y) {
			return false
		}
	}
	return true
}

func dropY(b board, kind, rotation, x, y int) int {
	for canPlace(b, kind, rotation, x, y+1) {
		y++
	}
	return y
}

func place(b board, kind, rotation, x, y int) board {
	mask := pieceShapes[kind][rotation%4]
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if mask[row][col] == 0 {
				continue
			}
			bx := x + col
			by := y + row
			if by >= 0 && by < boardHeight && bx >= 0 && bx < boardWidth {
				b[by][bx] = kind + 1
			}
		}
	}
	return b
}

// evaluate scores a stack after a simulated placement. Completed rows are
// removed first since the server clears them before the next spawn.
func (s *PlacementStrategy) evaluate(b board) float64 {
	cleared := 0
	compact := board{}
	dst := boardHeight - 1
	for src := boardHeight - 1; src >= 0; src-- {
		full := true
		for x := 0; x < boardWidth; x++ {
			if b[src][x] == 0 {
				full = false
				break
			}
		}
		if full {
			cleared++
			continue
		}
		compact[dst] = b[src]
		dst--
	}

	heights := columnHeights(compact)

	aggregate := 0
	bumpiness := 0
	for x := 0; x < boardWidth; x++ {
		aggregate += heights[x]
		if x > 0 {
			bumpiness += abs(heights[x] - heights[x-1])
		}
	}

	holes := countHoles(compact, heights)

	return s.heightWeight*float64(aggregate) +
		s.linesWeight*float64(cleared) +
		s.holesWeight*float64(holes) +
		s.bumpinessWeight*float64(bumpiness)
}

func columnHeights(b board) [boardWidth]int {
	var heights [boardWidth]int
	for x := 0; x < boardWidth; x++ {
		for y := 0; y < boardHeight; y++ {
			if b[y][x] != 0 {
				heights[x] = boardHeight - y
				break
			}
		}
	}
	return heights
}

// countHoles counts empty cells below the top filled cell of each column.
func countHoles(b board, heights [boardWidth]int) int {
	holes := 0
	for x := 0; x < boardWidth; x++ {
		top := boardHeight - heights[x]
		for y := top + 1; y < boardHeight; y++ {
			if b[y][x] == 0 {
				holes++
			}
		}
	}
	return holes
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
