package engine

// Derived read-only views for rendering. Nothing here feeds back into the
// reducer; transports and clients compute display state from these.

// GhostPiece returns the current piece projected to its hard-drop resting
// position, or nil when no piece is falling.
func GhostPiece(s GameState) *Piece {
	if s.CurrentPiece == nil {
		return nil
	}
	ghost := *s.CurrentPiece
	ghost.Y += HardDropDistance(s.Board, ghost)
	return &ghost
}

// BoardWithPiece returns the board with the current piece stamped in, for
// rendering. The underlying state is untouched.
func BoardWithPiece(s GameState) Board {
	if s.CurrentPiece == nil {
		return s.Board
	}
	return Place(s.Board, *s.CurrentPiece)
}

// CountFilledCells returns the number of occupied cells on the board.
func CountFilledCells(board Board) int {
	count := 0
	for row := 0; row < BoardHeight; row++ {
		for col := 0; col < BoardWidth; col++ {
			if !board[row][col].Empty() {
				count++
			}
		}
	}
	return count
}

// StackHeight returns the height of the occupied stack: the number of rows
// from the topmost non-empty row to the bottom of the board.
func StackHeight(board Board) int {
	for row := 0; row < BoardHeight; row++ {
		for col := 0; col < BoardWidth; col++ {
			if !board[row][col].Empty() {
				return BoardHeight - row
			}
		}
	}
	return 0
}
