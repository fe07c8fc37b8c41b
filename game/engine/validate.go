package engine

import "fmt"

// ValidateState checks that a GameState snapshot is structurally sound
// before it is handed to the reducer: enum membership for every cell and
// piece, rotation ranges, bag consistency, and non-negative counters.
// Loaders call this on restored snapshots and fall back to a fresh state on
// failure; the reducer itself assumes its input has passed.
func ValidateState(s *GameState) error {
	if s == nil {
		return fmt.Errorf("state validation: state is nil")
	}

	for row := 0; row < BoardHeight; row++ {
		for col := 0; col < BoardWidth; col++ {
			cell := s.Board[row][col]
			if cell != CellEmpty && !cell.Kind().Valid() {
				return fmt.Errorf("state validation: invalid cell value %d at row %d, col %d", cell, row, col)
			}
		}
	}

	for name, p := range map[string]*Piece{
		"current_piece": s.CurrentPiece,
		"next_piece":    s.NextPiece,
		"hold_piece":    s.HoldPiece,
	} {
		if p == nil {
			continue
		}
		if !p.Kind.Valid() {
			return fmt.Errorf("state validation: %s has invalid kind %d", name, p.Kind)
		}
		if p.Rotation < 0 || p.Rotation > 3 {
			return fmt.Errorf("state validation: %s has rotation %d outside [0,4)", name, p.Rotation)
		}
	}

	if len(s.Bag) > PieceKindCount {
		return fmt.Errorf("state validation: bag has %d entries, max %d", len(s.Bag), PieceKindCount)
	}
	seen := map[PieceKind]bool{}
	for _, kind := range s.Bag {
		if !kind.Valid() {
			return fmt.Errorf("state validation: bag contains invalid kind %d", kind)
		}
		if seen[kind] {
			return fmt.Errorf("state validation: bag contains duplicate kind %s", kind)
		}
		seen[kind] = true
	}
	if s.BagIndex < 0 || s.BagIndex > len(s.Bag) {
		return fmt.Errorf("state validation: bag_index %d outside [0,%d]", s.BagIndex, len(s.Bag))
	}

	if s.Score < 0 {
		return fmt.Errorf("state validation: score must be non-negative, got %d", s.Score)
	}
	if s.LinesCleared < 0 {
		return fmt.Errorf("state validation: lines_cleared must be non-negative, got %d", s.LinesCleared)
	}
	if s.Level < 1 {
		return fmt.Errorf("state validation: level must be at least 1, got %d", s.Level)
	}
	if s.Playing && !s.GameOver && s.CurrentPiece == nil {
		return fmt.Errorf("state validation: playing state requires a current piece")
	}

	return nil
}
