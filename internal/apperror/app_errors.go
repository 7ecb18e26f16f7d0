package apperror

import "errors"

var (
	ErrGameFull         = errors.New("game is full")
	ErrNotEnoughPlayers = errors.New("game needs two players")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrEmptyMessage     = errors.New("chat message is empty")
)
