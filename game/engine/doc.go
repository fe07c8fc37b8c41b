// Package engine provides the core game logic for the falling-block puzzle.
//
// The engine package implements the game mechanics including:
//   - The piece catalog (rotation masks for the 7 tetromino kinds)
//   - 7-bag randomization with an injectable random source
//   - Board collision detection, piece stamping, and line clearing
//   - Scoring, leveling, and the gravity cadence
//   - A pure command reducer over immutable GameState values
//
// Core Types:
//
// GameState is a plain serializable value describing one game. Apply is the
// transition function: it consumes a Command and returns a new GameState,
// never mutating its input. Illegal commands are silent no-ops, so Apply is
// total. The Engine interface, implemented by GameEngine, wraps the reducer
// with an owned state value and a seeded random source for callers that
// prefer a stateful handle (sessions, transports).
//
// Usage:
//
//	eng := engine.NewEngineWithDefaults()
//	eng.Apply(engine.CmdStart)
//	eng.Apply(engine.CmdMoveLeft)
//	eng.Apply(engine.CmdHardDrop)
//	state := eng.GetState()
//
// Game Rules:
//
// Pieces spawn above the visible board and fall at a level-dependent cadence
// driven by the caller issuing CmdTick. Completed rows are cleared and scored,
// every 10 cleared lines raises the level, and the game ends when a freshly
// promoted piece cannot be placed at its spawn position.
package engine
