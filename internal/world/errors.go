package world

import "errors"

var (
	// ErrQueryUnavailable indicates the world cannot answer queries yet.
	ErrQueryUnavailable = errors.New("world: spatial query unavailable")

	// ErrUnknownBody indicates a body id that is not in the world.
	ErrUnknownBody = errors.New("world: unknown body")
)
