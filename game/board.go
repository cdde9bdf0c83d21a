package game

import "github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"

const BoardCells = 9

// Scan order is fixed: rows, then columns, then diagonals. Outcome evaluation
// must be deterministic regardless of which line completed "first".
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// ReconstructBoard folds the move log left to right, writing each symbol at
// its cell index. A later move at a duplicate index overwrites the earlier
// one; rejecting duplicates is the orchestrator's job, not the fold's.
func ReconstructBoard(moves []domain.Move) []string {
	board := make([]string, BoardCells)
	for _, m := range moves {
		if m.Index < 0 || m.Index >= BoardCells {
			continue
		}
		board[m.Index] = m.Symbol
	}
	return board
}

// EvaluateOutcome returns the winning symbol, domain.WinnerDraw on a full
// board with no line, or "" while the game is still in progress.
func EvaluateOutcome(board []string) string {
	for _, line := range winningLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != "" && a == b && a == c {
			return a
		}
	}
	for _, cell := range board {
		if cell == "" {
			return ""
		}
	}
	return domain.WinnerDraw
}
