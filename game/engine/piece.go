package engine

// Rand is the random source consumed by bag generation. *math/rand.Rand
// satisfies it; tests inject seeded sources for reproducible sequences.
type Rand interface {
	Intn(n int) int
}

// NewPiece creates a piece of the given kind at the spawn anchor with
// rotation 0.
func NewPiece(kind PieceKind) Piece {
	return Piece{
		Kind:     kind,
		Rotation: 0,
		X:        SpawnX,
		Y:        SpawnY,
	}
}

// RotateCW returns a copy of the piece rotated one step clockwise. It does
// not check collisions; callers validate placement and discard the result
// when it does not fit.
func RotateCW(p Piece) Piece {
	p.Rotation = (p.Rotation + 1) % 4
	return p
}

// RotateCCW returns a copy of the piece rotated one step counter-clockwise.
func RotateCCW(p Piece) Piece {
	p.Rotation = (p.Rotation + 3) % 4
	return p
}

// NewBag returns a fresh bag: a uniformly random permutation of the seven
// piece kinds, via Fisher-Yates over the identity order. Every permutation
// is reachable with equal probability for a uniform source.
func NewBag(rng Rand) []PieceKind {
	bag := []PieceKind{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}
	for i := len(bag) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	return bag
}
