package main

import "testing"

func emptyState(kind int) *GameState {
	rows := make([][]int, boardHeight)
	for y := range rows {
		rows[y] = make([]int, boardWidth)
	}
	return &GameState{
		Board:        rows,
		CurrentPiece: &Piece{Kind: kind, Rotation: 0, X: spawnX, Y: spawnY},
		Playing:      true,
	}
}

func TestPlanPlacement_EmptyBoard(t *testing.T) {
	s := NewPlacementStrategy()

	for kind := 0; kind < 7; kind++ {
		plan := s.PlanPlacement(emptyState(kind))
		if len(plan) == 0 {
			t.Errorf("Expected a plan for piece kind %d on an empty board", kind)
			continue
		}
		if plan[len(plan)-1] != "hard_drop" {
			t.Errorf("Plan for kind %d should end with hard_drop, got %s", kind, plan[len(plan)-1])
		}
	}
}

func TestPlanPlacement_FillsGap(t *testing.T) {
	s := NewPlacementStrategy()

	// Bottom row filled except column 0; a vertical I in the gap clears it
	state := emptyState(0) // I piece
	for y := boardHeight - 4; y < boardHeight; y++ {
		for x := 1; x < boardWidth; x++ {
			state.Board[y][x] = 1
		}
	}

	plan := s.PlanPlacement(state)
	if len(plan) == 0 {
		t.Fatal("Expected a plan for the I piece")
	}

	rotations, lefts := 0, 0
	for _, cmd := range plan {
		switch cmd {
		case "rotate_cw":
			rotations++
		case "move_left":
			lefts++
		}
	}

	// Vertical orientation shifted to the wall: the well is the only
	// placement that clears four rows, so the search must pick it
	if rotations == 0 {
		t.Errorf("Expected a rotated (vertical) I placement, plan: %v", plan)
	}
	if lefts == 0 {
		t.Errorf("Expected leftward shifts toward the well, plan: %v", plan)
	}
}

func TestPlanPlacement_NoCurrentPiece(t *testing.T) {
	s := NewPlacementStrategy()
	state := emptyState(0)
	state.CurrentPiece = nil

	if plan := s.PlanPlacement(state); plan != nil {
		t.Errorf("Expected nil plan without a current piece, got %v", plan)
	}
}

func TestPlanPlacement_UsesHold(t *testing.T) {
	s := NewPlacementStrategy()

	// Same gap as above but the active piece is an O, which cannot clear the
	// single-column well. The held I can, so the plan should start with hold.
	state := emptyState(1) // O piece
	state.CanHold = true
	state.HoldPiece = &Piece{Kind: 0}
	for y := boardHeight - 4; y < boardHeight; y++ {
		for x := 1; x < boardWidth; x++ {
			state.Board[y][x] = 1
		}
	}

	plan := s.PlanPlacement(state)
	if len(plan) == 0 {
		t.Fatal("Expected a plan")
	}
	if plan[0] != "hold" {
		t.Errorf("Expected plan to start with hold, got %v", plan)
	}
}

func TestEvaluate_PrefersClears(t *testing.T) {
	s := NewPlacementStrategy()

	var full board
	for x := 0; x < boardWidth; x++ {
		full[boardHeight-1][x] = 1
	}

	var holey board
	for x := 1; x < boardWidth; x++ {
		holey[boardHeight-1][x] = 1
	}
	holey[boardHeight-2][1] = 1 // roof over nothing in column 0's neighbor

	if s.evaluate(full) <= s.evaluate(holey) {
		t.Error("A completed row should score better than a ragged stack")
	}
}

func TestCountHoles(t *testing.T) {
	var b board
	b[boardHeight-3][4] = 1 // roof
	// Two empty cells under it in column 4

	heights := columnHeights(b)
	if heights[4] != 3 {
		t.Errorf("Expected column height 3, got %d", heights[4])
	}
	if holes := countHoles(b, heights); holes != 2 {
		t.Errorf("Expected 2 holes, got %d", holes)
	}
}

func TestDropY_EmptyBoard(t *testing.T) {
	var b board

	// Horizontal I occupies mask row 1, so it rests with that row on the floor
	y := dropY(b, 0, 0, spawnX, spawnY)
	if y != boardHeight-2 {
		t.Errorf("Expected I to rest at y=%d, got %d", boardHeight-2, y)
	}
}
