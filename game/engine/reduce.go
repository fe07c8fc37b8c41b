package engine

// Apply is the transition function of the game: it consumes a command and
// returns the resulting state. It is total and pure with respect to its
// inputs; commands that are illegal in the current state return the state
// unchanged, and the only source of randomness is the injected rng, consumed
// when a fresh bag is needed.
func Apply(s GameState, cmd Command, rng Rand) GameState {
	switch cmd {
	case CmdStart:
		return start(s, rng)
	case CmdReset:
		return NewGameState(s.StartLevel)
	case CmdPause:
		if s.Playing && !s.GameOver {
			s.Paused = true
		}
		return s
	case CmdResume:
		if s.Playing && !s.GameOver {
			s.Paused = false
		}
		return s
	}

	// Everything below moves the current piece. Paused, terminal, and idle
	// states reject these outright.
	if !s.Playing || s.GameOver || s.Paused || s.CurrentPiece == nil {
		return s
	}

	switch cmd {
	case CmdMoveLeft:
		return move(s, -1)
	case CmdMoveRight:
		return move(s, 1)
	case CmdRotateCW:
		return rotate(s, RotateCW)
	case CmdRotateCCW:
		return rotate(s, RotateCCW)
	case CmdSoftDrop:
		return descend(s, rng, true)
	case CmdTick:
		return descend(s, rng, false)
	case CmdHardDrop:
		return hardDrop(s, rng)
	case CmdHold:
		return hold(s, rng)
	}

	// Unknown command tags are no-ops, never faults.
	return s
}

// start begins a fresh game: new bag, first two pieces drawn, counters and
// board reset. It works from the idle state and also restarts after game
// over.
func start(s GameState, rng Rand) GameState {
	ns := NewGameState(s.StartLevel)
	ns.Bag = NewBag(rng)
	ns.BagIndex = 0
	current := draw(&ns, rng)
	next := draw(&ns, rng)
	ns.CurrentPiece = &current
	ns.NextPiece = &next
	ns.Playing = true
	return ns
}

// draw consumes the next kind from the bag, refilling it first when
// exhausted, and returns a piece of that kind at the spawn anchor.
func draw(s *GameState, rng Rand) Piece {
	if s.BagIndex >= len(s.Bag) {
		s.Bag = NewBag(rng)
		s.BagIndex = 0
	}
	kind := s.Bag[s.BagIndex]
	s.BagIndex++
	return NewPiece(kind)
}

// move shifts the current piece horizontally; a colliding move is silently
// rejected.
func move(s GameState, dx int) GameState {
	p := *s.CurrentPiece
	if !CanPlace(s.Board, p, p.X+dx, p.Y) {
		return s
	}
	p.X += dx
	s.CurrentPiece = &p
	return s
}

// rotate applies the rotation and keeps it only if the rotated piece fits at
// its current anchor. No wall-kick positions are tried.
func rotate(s GameState, rotateFn func(Piece) Piece) GameState {
	p := rotateFn(*s.CurrentPiece)
	if !CanPlace(s.Board, p, p.X, p.Y) {
		return s
	}
	s.CurrentPiece = &p
	return s
}

// descend moves the current piece down one row. scored distinguishes a
// player soft drop (1 point per cell) from the gravity tick. A piece that
// cannot descend locks in instead.
func descend(s GameState, rng Rand, scored bool) GameState {
	p := *s.CurrentPiece
	if CanPlace(s.Board, p, p.X, p.Y+1) {
		p.Y++
		s.CurrentPiece = &p
		if scored {
			s.Score += SoftDropScore(1)
		}
		return s
	}
	return lockIn(s, rng)
}

// hardDrop drops the piece as far as it can go, scores the distance, and
// locks it in.
func hardDrop(s GameState, rng Rand) GameState {
	p := *s.CurrentPiece
	distance := HardDropDistance(s.Board, p)
	s.Score += HardDropScore(distance)
	p.Y += distance
	s.CurrentPiece = &p
	return lockIn(s, rng)
}

// lockIn stamps the current piece, clears and scores completed lines,
// recomputes the level, re-arms hold, and promotes the next piece. The game
// ends here, and only here: when the promoted piece cannot be placed at its
// spawn position.
func lockIn(s GameState, rng Rand) GameState {
	s.Board = Place(s.Board, *s.CurrentPiece)

	board, cleared := ClearLines(s.Board)
	if cleared > 0 {
		s.Score += LineScore(cleared, s.Level)
		s.LinesCleared += cleared
		s.Board = board
		if level := LevelForLines(s.LinesCleared); level > s.StartLevel {
			s.Level = level
		}
	}

	s.CanHold = true

	current := *s.NextPiece
	next := draw(&s, rng)
	s.CurrentPiece = &current
	s.NextPiece = &next

	if !CanPlace(s.Board, current, current.X, current.Y) {
		s.GameOver = true
	}
	return s
}

// hold banks the current piece. With an empty hold slot the next piece is
// promoted and a replacement drawn; otherwise current and held swap, both
// reset to the spawn pose. Hold stays disabled until the next lock-in.
// Promotion goes through the same spawn check as lock-in: kinds occupy
// different spawn cells, so a piece swapped in can fail where the banked
// one fit.
func hold(s GameState, rng Rand) GameState {
	if !s.CanHold {
		return s
	}

	held := NewPiece(s.CurrentPiece.Kind)
	if s.HoldPiece == nil {
		current := *s.NextPiece
		next := draw(&s, rng)
		s.CurrentPiece = &current
		s.NextPiece = &next
	} else {
		current := NewPiece(s.HoldPiece.Kind)
		s.CurrentPiece = &current
	}
	s.HoldPiece = &held
	s.CanHold = false

	if !CanPlace(s.Board, *s.CurrentPiece, s.CurrentPiece.X, s.CurrentPiece.Y) {
		s.GameOver = true
	}
	return s
}
