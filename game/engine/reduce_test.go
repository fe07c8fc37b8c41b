package engine

import (
	"math/rand"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// playingState builds a mid-game state with a chosen current and next piece
// and a full untouched bag, so lock-in promotion is deterministic.
func playingState(current, next PieceKind) GameState {
	s := NewGameState(1)
	s.Playing = true
	s.Bag = []PieceKind{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}
	s.BagIndex = 0
	cur := NewPiece(current)
	nxt := NewPiece(next)
	s.CurrentPiece = &cur
	s.NextPiece = &nxt
	return s
}

func TestApply_StartDrawsTwoPieces(t *testing.T) {
	s := Apply(NewGameState(1), CmdStart, testRand())

	if !s.Playing || s.GameOver || s.Paused {
		t.Fatalf("start left state playing=%v gameOver=%v paused=%v", s.Playing, s.GameOver, s.Paused)
	}
	if s.CurrentPiece == nil || s.NextPiece == nil {
		t.Fatal("start did not draw current and next pieces")
	}
	if s.HoldPiece != nil {
		t.Error("start left a hold piece")
	}
	if s.Score != 0 || s.LinesCleared != 0 || s.Level != 1 {
		t.Errorf("start counters = score %d, lines %d, level %d", s.Score, s.LinesCleared, s.Level)
	}
	if s.BagIndex != 2 {
		t.Errorf("bag index = %d, want 2 after drawing two pieces", s.BagIndex)
	}
	if CountFilledCells(s.Board) != 0 {
		t.Error("start left stamped cells on the board")
	}
}

func TestApply_StartRespectsStartingLevel(t *testing.T) {
	s := Apply(NewGameState(5), CmdStart, testRand())
	if s.Level != 5 {
		t.Errorf("level = %d, want starting level 5", s.Level)
	}
}

func TestApply_MoveAcceptAndReject(t *testing.T) {
	s := playingState(PieceT, PieceO)
	rng := testRand()

	moved := Apply(s, CmdMoveLeft, rng)
	if moved.CurrentPiece.X != s.CurrentPiece.X-1 {
		t.Errorf("move left: x = %d, want %d", moved.CurrentPiece.X, s.CurrentPiece.X-1)
	}

	// Push against the left wall until the move stops being accepted.
	for i := 0; i < BoardWidth; i++ {
		moved = Apply(moved, CmdMoveLeft, rng)
	}
	atWall := moved.CurrentPiece.X
	rejected := Apply(moved, CmdMoveLeft, rng)
	if rejected.CurrentPiece.X != atWall {
		t.Error("move into the wall was not rejected")
	}
	if rejected.Score != moved.Score {
		t.Error("rejected move changed the score")
	}
}

func TestApply_RotationRejectedWithoutKicks(t *testing.T) {
	s := playingState(PieceI, PieceO)
	rng := testRand()

	// Lay the I piece vertically against the left wall, then walk it to
	// x where the horizontal mask would cross the boundary.
	p := *s.CurrentPiece
	p.Rotation = 1 // vertical, mask column 2
	p.X = -2       // absolute column 0
	p.Y = 5
	s.CurrentPiece = &p

	rotated := Apply(s, CmdRotateCW, rng)
	if rotated.CurrentPiece.Rotation != 1 {
		t.Error("rotation against the wall was not rejected (no wall kicks)")
	}

	p.X = 3
	s.CurrentPiece = &p
	rotated = Apply(s, CmdRotateCW, rng)
	if rotated.CurrentPiece.Rotation != 2 {
		t.Errorf("open-field rotation = %d, want 2", rotated.CurrentPiece.Rotation)
	}
}

func TestApply_SoftDropScoresOnePerCell(t *testing.T) {
	s := playingState(PieceT, PieceO)
	dropped := Apply(s, CmdSoftDrop, testRand())
	if dropped.CurrentPiece.Y != s.CurrentPiece.Y+1 {
		t.Error("soft drop did not descend")
	}
	if dropped.Score != s.Score+1 {
		t.Errorf("soft drop score delta = %d, want 1", dropped.Score-s.Score)
	}
}

func TestApply_TickDescendsWithoutScoring(t *testing.T) {
	s := playingState(PieceT, PieceO)
	ticked := Apply(s, CmdTick, testRand())
	if ticked.CurrentPiece.Y != s.CurrentPiece.Y+1 {
		t.Error("tick did not descend")
	}
	if ticked.Score != s.Score {
		t.Errorf("tick changed score by %d", ticked.Score-s.Score)
	}
}

func TestApply_SoftDropLocksRestingPiece(t *testing.T) {
	s := playingState(PieceO, PieceT)
	p := *s.CurrentPiece
	p.Y = BoardHeight - 2 // resting on the floor
	s.CurrentPiece = &p

	locked := Apply(s, CmdSoftDrop, testRand())
	if CountFilledCells(locked.Board) != 4 {
		t.Errorf("lock-in stamped %d cells, want 4", CountFilledCells(locked.Board))
	}
	if locked.CurrentPiece.Kind != PieceT {
		t.Errorf("promoted piece = %s, want former next T", locked.CurrentPiece.Kind)
	}
	if locked.NextPiece.Kind != PieceI {
		t.Errorf("new next = %s, want first bag entry I", locked.NextPiece.Kind)
	}
	if !locked.CanHold {
		t.Error("lock-in did not re-arm hold")
	}
}

func TestApply_HardDropSingleLineClear(t *testing.T) {
	// Bottom row pre-filled except the four columns the horizontal I piece
	// will land in: the drop completes exactly one row.
	s := playingState(PieceI, PieceO)
	fillRow(&s.Board, BoardHeight-1, 3, 4, 5, 6)

	dropped := Apply(s, CmdHardDrop, testRand())

	// From y=-1 the I mask's occupied row reaches row 19 at y=18: 19 rows.
	wantScore := HardDropScore(19) + LineScore(1, 1)
	if dropped.Score != wantScore {
		t.Errorf("score = %d, want %d (38 drop + 40 clear)", dropped.Score, wantScore)
	}
	if dropped.LinesCleared != 1 {
		t.Errorf("lines cleared = %d, want 1", dropped.LinesCleared)
	}
	if CountFilledCells(dropped.Board) != 0 {
		t.Errorf("board has %d filled cells after single-line clear, want 0", CountFilledCells(dropped.Board))
	}
	if dropped.GameOver {
		t.Error("unexpected game over")
	}
}

func TestApply_LevelAdvancesEveryTenLines(t *testing.T) {
	s := playingState(PieceI, PieceO)
	s.LinesCleared = 9
	fillRow(&s.Board, BoardHeight-1, 3, 4, 5, 6)

	dropped := Apply(s, CmdHardDrop, testRand())
	if dropped.LinesCleared != 10 {
		t.Fatalf("lines = %d, want 10", dropped.LinesCleared)
	}
	if dropped.Level != 2 {
		t.Errorf("level = %d, want 2 at 10 lines", dropped.Level)
	}
}

func TestApply_HoldFirstUse(t *testing.T) {
	s := playingState(PieceZ, PieceJ)
	held := Apply(s, CmdHold, testRand())

	if held.HoldPiece == nil || held.HoldPiece.Kind != PieceZ {
		t.Fatal("hold slot does not contain the former current piece")
	}
	if held.HoldPiece.X != SpawnX || held.HoldPiece.Y != SpawnY || held.HoldPiece.Rotation != 0 {
		t.Error("held piece was not reset to the spawn pose")
	}
	if held.CurrentPiece.Kind != PieceJ {
		t.Errorf("current after hold = %s, want former next J", held.CurrentPiece.Kind)
	}
	if held.NextPiece.Kind != PieceI {
		t.Errorf("next after hold = %s, want drawn I", held.NextPiece.Kind)
	}
	if held.CanHold {
		t.Error("hold did not latch canHold off")
	}

	again := Apply(held, CmdHold, testRand())
	if again.HoldPiece.Kind != held.HoldPiece.Kind || again.CurrentPiece.Kind != held.CurrentPiece.Kind {
		t.Error("second hold before lock-in was not a no-op")
	}
}

func TestApply_HoldSwapsWhenOccupied(t *testing.T) {
	s := playingState(PieceZ, PieceJ)
	heldPiece := NewPiece(PieceL)
	s.HoldPiece = &heldPiece

	swapped := Apply(s, CmdHold, testRand())
	if swapped.CurrentPiece.Kind != PieceL {
		t.Errorf("current after swap = %s, want L", swapped.CurrentPiece.Kind)
	}
	if swapped.CurrentPiece.X != SpawnX || swapped.CurrentPiece.Y != SpawnY {
		t.Error("swapped-in piece not at spawn pose")
	}
	if swapped.HoldPiece.Kind != PieceZ {
		t.Errorf("hold after swap = %s, want Z", swapped.HoldPiece.Kind)
	}
	if swapped.NextPiece.Kind != PieceJ {
		t.Error("swap must not consume the next piece")
	}
}

func TestApply_HoldGameOverOnBlockedPromotion(t *testing.T) {
	// An O at spawn covers row 0 cols 4-5, so a single block at col 3 leaves
	// it placeable while denying a horizontal I (cols 3-6) swapped in by hold.
	t.Run("empty slot promotes next", func(t *testing.T) {
		s := playingState(PieceO, PieceI)
		s.Board[0][3] = PieceJ.Cell()
		if !CanPlace(s.Board, *s.CurrentPiece, s.CurrentPiece.X, s.CurrentPiece.Y) {
			t.Fatal("setup: the O must still fit at spawn")
		}

		held := Apply(s, CmdHold, testRand())
		if !held.GameOver {
			t.Fatal("promoting an unplaceable next piece did not end the game")
		}
		if held.HoldPiece == nil || held.HoldPiece.Kind != PieceO {
			t.Error("hold slot does not contain the banked O")
		}
	})

	t.Run("swap with held piece", func(t *testing.T) {
		s := playingState(PieceO, PieceT)
		heldPiece := NewPiece(PieceI)
		s.HoldPiece = &heldPiece
		s.Board[0][3] = PieceJ.Cell()

		swapped := Apply(s, CmdHold, testRand())
		if !swapped.GameOver {
			t.Fatal("swapping in an unplaceable held piece did not end the game")
		}
		if swapped.NextPiece.Kind != PieceT {
			t.Error("swap must not consume the next piece")
		}
	})
}

func TestApply_HoldReArmsAfterLockIn(t *testing.T) {
	s := playingState(PieceO, PieceT)
	s.CanHold = false
	p := *s.CurrentPiece
	p.Y = BoardHeight - 2
	s.CurrentPiece = &p

	noop := Apply(s, CmdHold, testRand())
	if noop.HoldPiece != nil {
		t.Error("hold with canHold=false was not a no-op")
	}

	locked := Apply(s, CmdSoftDrop, testRand())
	if !locked.CanHold {
		t.Fatal("lock-in did not re-arm hold")
	}
	held := Apply(locked, CmdHold, testRand())
	if held.HoldPiece == nil {
		t.Error("hold after lock-in rejected")
	}
}

func TestApply_GameOverOnBlockedSpawn(t *testing.T) {
	s := playingState(PieceT, PieceO)

	// Park the T against a partial floor so it locks without clearing, and
	// block the O spawn columns at the top of the board.
	fillRow(&s.Board, BoardHeight-1, 0)
	p := *s.CurrentPiece
	p.X, p.Y = 0, BoardHeight-3
	s.CurrentPiece = &p
	s.Board[0][4] = PieceS.Cell()
	s.Board[0][5] = PieceS.Cell()

	ended := Apply(s, CmdSoftDrop, testRand())
	if !ended.GameOver {
		t.Fatal("blocked spawn did not end the game")
	}
	if CountFilledCells(ended.Board) == 0 {
		t.Error("final board evidence was discarded")
	}

	// Terminal state accepts no piece-affecting commands.
	for _, cmd := range []Command{CmdMoveLeft, CmdMoveRight, CmdRotateCW, CmdSoftDrop, CmdHardDrop, CmdHold, CmdTick} {
		after := Apply(ended, cmd, testRand())
		if after.Board != ended.Board || !piecesEqual(after.CurrentPiece, ended.CurrentPiece) || after.Score != ended.Score {
			t.Errorf("command %s altered a terminal state", cmd)
		}
	}
}

func TestApply_PauseGatesPieceCommands(t *testing.T) {
	s := playingState(PieceT, PieceO)
	paused := Apply(s, CmdPause, testRand())
	if !paused.Paused {
		t.Fatal("pause rejected in playing state")
	}

	for _, cmd := range []Command{CmdMoveLeft, CmdRotateCW, CmdSoftDrop, CmdHardDrop, CmdHold, CmdTick} {
		after := Apply(paused, cmd, testRand())
		if !piecesEqual(after.CurrentPiece, paused.CurrentPiece) || after.Score != paused.Score {
			t.Errorf("command %s acted while paused", cmd)
		}
	}

	resumed := Apply(paused, CmdResume, testRand())
	if resumed.Paused {
		t.Error("resume did not clear pause")
	}
}

func TestApply_PauseNoOpWhenGameOver(t *testing.T) {
	s := playingState(PieceT, PieceO)
	s.GameOver = true
	if Apply(s, CmdPause, testRand()).Paused {
		t.Error("pause accepted in terminal state")
	}
}

func TestApply_UnknownCommandIsNoOp(t *testing.T) {
	s := playingState(PieceT, PieceO)
	after := Apply(s, Command("teleport"), testRand())
	if !piecesEqual(after.CurrentPiece, s.CurrentPiece) || after.Score != s.Score || after.Board != s.Board {
		t.Error("unknown command changed the state")
	}
}

func TestApply_IdleStateRejectsPieceCommands(t *testing.T) {
	idle := NewGameState(1)
	for _, cmd := range []Command{CmdMoveLeft, CmdSoftDrop, CmdHardDrop, CmdHold, CmdTick, CmdRotateCCW} {
		after := Apply(idle, cmd, testRand())
		if after.Playing || after.CurrentPiece != nil {
			t.Errorf("command %s acted on idle state", cmd)
		}
	}
}

func TestApply_ResetReturnsToIdle(t *testing.T) {
	s := Apply(NewGameState(3), CmdStart, testRand())
	s = Apply(s, CmdSoftDrop, testRand())

	reset := Apply(s, CmdReset, testRand())
	if reset.Playing || reset.GameOver || reset.CurrentPiece != nil {
		t.Error("reset did not return to idle")
	}
	if reset.Score != 0 || reset.LinesCleared != 0 {
		t.Error("reset did not clear counters")
	}
	if reset.Level != 3 {
		t.Errorf("reset level = %d, want starting level 3", reset.Level)
	}
	if CountFilledCells(reset.Board) != 0 {
		t.Error("reset did not clear the board")
	}
}

func TestApply_BagRefillsWhenExhausted(t *testing.T) {
	// Lock-in draws a replacement next piece; with the bag fully consumed
	// that draw must refill it with a fresh permutation first.
	s := playingState(PieceO, PieceT)
	s.BagIndex = len(s.Bag)
	p := *s.CurrentPiece
	p.Y = BoardHeight - 2
	s.CurrentPiece = &p

	locked := Apply(s, CmdSoftDrop, testRand())
	if len(locked.Bag) != PieceKindCount {
		t.Fatalf("refilled bag has %d entries, want %d", len(locked.Bag), PieceKindCount)
	}
	if locked.BagIndex != 1 {
		t.Errorf("bag index = %d, want 1 after one draw from the fresh bag", locked.BagIndex)
	}
	seen := map[PieceKind]bool{}
	for _, kind := range locked.Bag {
		if seen[kind] {
			t.Fatalf("refilled bag repeats kind %s", kind)
		}
		seen[kind] = true
	}
	if locked.NextPiece.Kind != locked.Bag[0] {
		t.Errorf("new next = %s, want first entry of refilled bag %s", locked.NextPiece.Kind, locked.Bag[0])
	}
}

func TestApply_IsPureWithRespectToInput(t *testing.T) {
	s := playingState(PieceI, PieceO)
	fillRow(&s.Board, BoardHeight-1, 3, 4, 5, 6)
	snapshot := s
	snapshotPiece := *s.CurrentPiece

	_ = Apply(s, CmdHardDrop, testRand())

	if s.Board != snapshot.Board || s.Score != snapshot.Score || s.BagIndex != snapshot.BagIndex {
		t.Error("Apply mutated its input state")
	}
	if *s.CurrentPiece != snapshotPiece {
		t.Error("Apply mutated the input's current piece")
	}
}

func TestGhostPiece(t *testing.T) {
	s := playingState(PieceO, PieceT)
	ghost := GhostPiece(s)
	if ghost == nil {
		t.Fatal("no ghost for an active piece")
	}
	if ghost.Y != BoardHeight-2 {
		t.Errorf("ghost rests at y=%d, want %d", ghost.Y, BoardHeight-2)
	}
	if s.CurrentPiece.Y != SpawnY {
		t.Error("ghost projection moved the real piece")
	}
	if GhostPiece(NewGameState(1)) != nil {
		t.Error("ghost reported for idle state")
	}
}

func TestBoardWithPiece(t *testing.T) {
	s := playingState(PieceO, PieceT)
	p := *s.CurrentPiece
	p.Y = 5
	s.CurrentPiece = &p

	overlay := BoardWithPiece(s)
	if CountFilledCells(overlay) != 4 {
		t.Errorf("overlay has %d filled cells, want 4", CountFilledCells(overlay))
	}
	if CountFilledCells(s.Board) != 0 {
		t.Error("overlay stamped the underlying board")
	}
}
