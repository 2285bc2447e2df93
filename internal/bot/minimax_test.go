package bot

import (
	"testing"

	"ctchen222/tictactoe-engine/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

func TestMinimax_WinningMoveIsTaken(t *testing.T) {
	// Given: X holds (0,0),(0,1) and O holds (1,0),(1,1), X to move
	board := game.Board{
		{X, X, E},
		{O, O, E},
		{E, E, E},
	}

	// When: searching
	action, ok := Minimax(board)

	// Then: X completes the top row
	require.True(t, ok)
	assert.Equal(t, game.Action{Row: 0, Col: 2}, action)

	value, _, _ := MaxValue(board)
	assert.Equal(t, game.UtilityXWins, value)
}

func TestMinimax_ForcedBlock(t *testing.T) {
	// Given: O threatens the top row, X to move
	board := game.Board{
		{O, O, E},
		{E, X, E},
		{E, E, X},
	}

	// When: searching
	action, ok := Minimax(board)

	// Then: blocking at (0,2) is the only move that does not lose, and it
	// creates a double threat for X
	require.True(t, ok)
	assert.Equal(t, game.Action{Row: 0, Col: 2}, action)

	value, _, _ := MaxValue(board)
	assert.Equal(t, game.UtilityXWins, value)
}

func TestMinimax_OToMoveMinimizes(t *testing.T) {
	// Given: O to move with an immediate win on the middle row
	board := game.Board{
		{X, X, E},
		{O, O, E},
		{E, E, X},
	}
	require.Equal(t, O, game.Player(board))

	// When: searching
	action, ok := Minimax(board)
	require.True(t, ok)

	// Then: the chosen action keeps the forced O win
	value, _, _ := MinValue(board)
	assert.Equal(t, game.UtilityOWins, value)

	next, err := game.Result(board, action)
	require.NoError(t, err)
	childValue, _, _ := MaxValue(next)
	assert.Equal(t, game.UtilityOWins, childValue)
}

func TestMinimax_TerminalBoard(t *testing.T) {
	tests := []struct {
		name  string
		board game.Board
	}{
		{
			name: "X has won",
			board: game.Board{
				{X, X, X},
				{O, O, E},
				{E, E, E},
			},
		},
		{
			name: "Full board draw",
			board: game.Board{
				{X, O, X},
				{X, O, O},
				{O, X, X},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Minimax(tt.board)
			assert.False(t, ok)

			value, action, found := MaxValue(tt.board)
			assert.False(t, found)
			assert.Equal(t, game.Utility(tt.board), value)
			assert.Equal(t, game.Action{}, action)

			value, action, found = MinValue(tt.board)
			assert.False(t, found)
			assert.Equal(t, game.Utility(tt.board), value)
			assert.Equal(t, game.Action{}, action)
		})
	}
}

func TestMinimax_ValueFunctionsReportSearch(t *testing.T) {
	// One move left for X, and it does not complete a line.
	board := game.Board{
		{X, O, X},
		{X, O, O},
		{O, X, E},
	}

	value, action, found := MaxValue(board)
	assert.True(t, found)
	assert.Equal(t, game.Action{Row: 2, Col: 2}, action)
	assert.Equal(t, game.UtilityDraw, value)

	// Searching for O from the same position still reports a move.
	value, action, found = MinValue(board)
	assert.True(t, found)
	assert.Equal(t, game.Action{Row: 2, Col: 2}, action)
	assert.Equal(t, game.UtilityDraw, value)
}

func TestMinimax_EmptyBoard(t *testing.T) {
	board := game.InitialState()

	action, ok := Minimax(board)
	require.True(t, ok)
	assert.Contains(t, game.Actions(board), action)

	value, _, _ := MaxValue(board)
	assert.Equal(t, game.UtilityDraw, value, "perfect play from the empty board is a draw")
}

func TestMinimax_SelfPlayIsADraw(t *testing.T) {
	board := game.InitialState()
	for !game.Terminal(board) {
		action, ok := Minimax(board)
		require.True(t, ok)

		next, err := game.Result(board, action)
		require.NoError(t, err)
		board = next
	}

	assert.Equal(t, game.None, game.Winner(board))
	assert.Equal(t, game.UtilityDraw, game.Utility(board))
}

func TestMinimax_DoesNotMutateInput(t *testing.T) {
	board := game.Board{
		{X, E, E},
		{E, O, E},
		{E, E, E},
	}
	before := board

	_, _ = Minimax(board)

	assert.Equal(t, before, board)
}
