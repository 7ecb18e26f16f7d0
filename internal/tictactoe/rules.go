package tictactoe

import (
	"fmt"

	"github.com/pocketarcade/tictactoe-live/internal/apperror"
	"github.com/pocketarcade/tictactoe-live/internal/entity"
)

// WinCombos enumerates the 8 winning triples in a fixed order: rows,
// columns, diagonals. Detection order must stay deterministic.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// ValidateMove - checks whether a move is legal against the current
// state without touching it.
func ValidateMove(state *entity.State, team string, cell int) error {
	if cell < 0 || cell >= len(state.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !state.IsFull() {
		return apperror.ErrNotEnoughPlayers
	}

	if state.IsFinished() {
		return apperror.ErrGameFinished
	}

	if state.Turn != team {
		return apperror.ErrNotYourTurn
	}

	if state.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// ApplyMove - places the mark, flips the turn and runs terminal
// detection. The caller must have validated the move first.
func ApplyMove(state *entity.State, team string, cell int) {
	state.Board[cell] = team
	state.Turn = toggleMark(team)

	if winner, ok := DetectWin(state.Board); ok {
		state.Winner = winner
		return
	}

	if DetectDraw(state.Board) {
		state.Winner = entity.PlayerTie
	}
}

// DetectWin - reports the team completing a triple, if any.
func DetectWin(board [9]string) (string, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a, true
		}
	}

	return entity.EmptyCell, false
}

// DetectDraw - true iff every cell is occupied. Only meaningful when
// DetectWin found nothing.
func DetectDraw(board [9]string) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// CellCoords - converts a cell index into 1-indexed (column, row),
// left-to-right and top-to-bottom. Used for chat move descriptions.
func CellCoords(cell int) (int, int) {
	return cell%3 + 1, cell/3 + 1
}

func toggleMark(currentMark string) string {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}
