package apperror

import "errors"

var (
	ErrInvalidPosition  = errors.New("invalid position")
	ErrPositionOccupied = errors.New("position is already occupied")
	ErrInvalidMarker    = errors.New("invalid marker")
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrUnknownSide      = errors.New("unknown side")
	ErrNoLegalMove      = errors.New("no legal move available")

	ErrMatchComplete = errors.New("match is already complete")
	ErrInvalidState  = errors.New("operation not allowed in current match state")
	ErrInvalidConfig = errors.New("invalid match configuration")
	ErrNotFound      = errors.New("not found")
)
