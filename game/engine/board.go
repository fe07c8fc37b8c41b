package engine

// Board is the fixed 20x10 playfield, indexed [row][col] with row 0 at the
// top. It is an array, not a slice: assignment copies the whole grid, which
// keeps the reducer free of aliasing.
type Board [BoardHeight][BoardWidth]Cell

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// CanPlace reports whether the piece fits at anchor (x, y): every set mask
// cell must land in a column within [0, BoardWidth), a row below BoardHeight,
// and, when the row is visible (>= 0), on an empty cell. Rows above the board
// are only bounds-checked horizontally, which is what allows pieces to spawn
// at y = -1.
func CanPlace(board Board, piece Piece, x, y int) bool {
	mask := piece.Shape()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if mask[row][col] == 0 {
				continue
			}
			bx := x + col
			by := y + row
			if bx < 0 || bx >= BoardWidth {
				return false
			}
			if by >= BoardHeight {
				return false
			}
			if by >= 0 && !board[by][bx].Empty() {
				return false
			}
		}
	}
	return true
}

// Place stamps the piece's visible cells onto a copy of the board and
// returns it. Mask cells above row 0 are silently dropped.
func Place(board Board, piece Piece) Board {
	mask := piece.Shape()
	cell := piece.Kind.Cell()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if mask[row][col] == 0 {
				continue
			}
			bx := piece.X + col
			by := piece.Y + row
			if by < 0 || by >= BoardHeight || bx < 0 || bx >= BoardWidth {
				continue
			}
			board[by][bx] = cell
		}
	}
	return board
}

// FindCompleteLines returns the indices of fully occupied rows in ascending
// order.
func FindCompleteLines(board Board) []int {
	var complete []int
	for row := 0; row < BoardHeight; row++ {
		full := true
		for col := 0; col < BoardWidth; col++ {
			if board[row][col].Empty() {
				full = false
				break
			}
		}
		if full {
			complete = append(complete, row)
		}
	}
	return complete
}

// ClearLines removes every complete row, shifts the remaining rows down, and
// tops the board up with empty rows. It returns the new board and the number
// of rows cleared; a board with no complete rows comes back unchanged.
func ClearLines(board Board) (Board, int) {
	var cleared Board
	dst := BoardHeight - 1
	count := 0
	for src := BoardHeight - 1; src >= 0; src-- {
		full := true
		for col := 0; col < BoardWidth; col++ {
			if board[src][col].Empty() {
				full = false
				break
			}
		}
		if full {
			count++
			continue
		}
		cleared[dst] = board[src]
		dst--
	}
	if count == 0 {
		return board, 0
	}
	return cleared, count
}

// HardDropDistance returns the largest n such that the piece can be placed
// at every step from its current row down to row y+n.
func HardDropDistance(board Board, piece Piece) int {
	distance := 0
	for CanPlace(board, piece, piece.X, piece.Y+distance+1) {
		distance++
	}
	return distance
}
