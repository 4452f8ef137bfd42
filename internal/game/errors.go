package game

import "errors"

// Typed failures surfaced by the engine. Everything a player can legally
// trigger is recovered at the operation boundary and returned as one of
// these; only snapshot corruption is unrecoverable for that load.
var (
	// ErrInvalidMove rejects a throw/draw/pass that is out of turn, not in
	// hand, illegal against the pile top, or blocked by an undeclared wild.
	ErrInvalidMove = errors.New("invalid move")

	// ErrUnresolvedForcedDraw rejects a throw while the player still owes a
	// pending forced draw.
	ErrUnresolvedForcedDraw = errors.New("unresolved forced draw")

	// ErrEmptyDeck is returned by Deck.Draw when the draw stack is empty.
	// The game recovers internally by reshuffling the pile; it only escapes
	// when the pile cannot supply cards either, which the card-conservation
	// invariant makes unreachable in a healthy game.
	ErrEmptyDeck = errors.New("empty deck")

	// ErrPlayerNotFound is returned by identity lookups into the turn ring.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrCorruptSnapshot aborts a load whose record is structurally
	// inconsistent. No partial game is ever registered.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrGameNotFound is returned by registry lookups for unknown keys.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameFull rejects a join once the configured seat count is reached.
	ErrGameFull = errors.New("game is full")

	// ErrGameNotStarted rejects play operations while the game is still
	// waiting for players, and joins/starts after it has left the lobby.
	ErrGameNotStarted = errors.New("game not in progress")
)
