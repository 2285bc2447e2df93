package bot

import (
	"math"

	"ctchen222/tictactoe-engine/internal/game"
)

// Minimax returns the optimal action for the player to move, or false when
// the board is terminal. X maximizes the utility and O minimizes it.
//
// Actions are explored in row-major order and only a strictly better value
// replaces the current best, so among equally good moves the first one in
// row-major order is returned.
func Minimax(board game.Board) (game.Action, bool) {
	if game.Terminal(board) {
		return game.Action{}, false
	}

	var nodes int64
	if game.Player(board) == game.PlayerX {
		_, action, ok := maxValue(board, &nodes)
		return action, ok
	}
	_, action, ok := minValue(board, &nodes)
	return action, ok
}

// MaxValue returns the best utility X can force from board and the action
// reaching it. The bool reports whether board still had moves to search:
// it is false exactly when board is terminal, in which case the value is
// Utility(board) and the action is the zero Action.
func MaxValue(board game.Board) (int, game.Action, bool) {
	var nodes int64
	return maxValue(board, &nodes)
}

// MinValue returns the best utility O can force from board, the lowest
// reachable under optimal replies, and the action reaching it. As with
// MaxValue the bool is false exactly when board is terminal; the value is
// then Utility(board) and the action is the zero Action.
func MinValue(board game.Board) (int, game.Action, bool) {
	var nodes int64
	return minValue(board, &nodes)
}

func maxValue(board game.Board, nodes *int64) (int, game.Action, bool) {
	*nodes++
	if game.Terminal(board) {
		return game.Utility(board), game.Action{}, false
	}

	best := math.MinInt
	var bestAction game.Action
	for _, action := range game.Actions(board) {
		child, _ := game.Result(board, action) // action comes from Actions(board)
		candidate, _, _ := minValue(child, nodes)
		if candidate > best {
			best = candidate
			bestAction = action
		}
	}
	return best, bestAction, true
}

func minValue(board game.Board, nodes *int64) (int, game.Action, bool) {
	*nodes++
	if game.Terminal(board) {
		return game.Utility(board), game.Action{}, false
	}

	best := math.MaxInt
	var bestAction game.Action
	for _, action := range game.Actions(board) {
		child, _ := game.Result(board, action)
		candidate, _, _ := maxValue(child, nodes)
		if candidate < best {
			best = candidate
			bestAction = action
		}
	}
	return best, bestAction, true
}
