package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"ctchen222/tictactoe-engine/internal/game"
)

// Difficulty levels understood by NewBotMoveCalculator.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNoAvailableMoves  = errors.New("no available moves")
)

//go:generate mockgen -source=logic.go -destination=mocks/mock_move_calculator.go -package=mocks

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(ctx context.Context, board game.Board) (game.Action, error)
}

// BotMoveCalculator picks moves for the player to move at a fixed difficulty.
type BotMoveCalculator struct {
	Difficulty string
	searcher   *Searcher
}

// NewBotMoveCalculator validates the difficulty. The searcher is only
// consulted at DifficultyHard and may be nil otherwise.
func NewBotMoveCalculator(difficulty string, searcher *Searcher) (*BotMoveCalculator, error) {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium:
	case DifficultyHard:
		if searcher == nil {
			return nil, fmt.Errorf("difficulty %q requires a searcher", difficulty)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
	return &BotMoveCalculator{Difficulty: difficulty, searcher: searcher}, nil
}

// CalculateNextMove determines the bot's next move based on its difficulty.
func (c *BotMoveCalculator) CalculateNextMove(ctx context.Context, board game.Board) (game.Action, error) {
	if game.Terminal(board) {
		return game.Action{}, ErrNoAvailableMoves
	}

	switch c.Difficulty {
	case DifficultyEasy:
		return easyMove(board), nil
	case DifficultyMedium:
		return mediumMove(board), nil
	default:
		return c.hardMove(ctx, board)
	}
}

// easyMove makes a completely random move.
func easyMove(board game.Board) game.Action {
	availableMoves := game.Actions(board)
	return availableMoves[rand.IntN(len(availableMoves))]
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board) game.Action {
	botMark := game.Player(board)

	// 1. Win: Check if the bot can win in the next move
	if action, canWin := findWinningMove(board, botMark); canWin {
		return action
	}

	// 2. Block: Check if the opponent is about to win and block them
	if action, canBlock := findWinningMove(board, game.Opponent(botMark)); canBlock {
		return action
	}

	// 3. Random: Otherwise, make a random move
	return easyMove(board)
}

// hardMove plays the minimax-optimal move.
func (c *BotMoveCalculator) hardMove(ctx context.Context, board game.Board) (game.Action, error) {
	res, err := c.searcher.BestMove(ctx, board)
	if err != nil {
		return game.Action{}, fmt.Errorf("search failed: %w", err)
	}
	if !res.Found {
		return game.Action{}, ErrNoAvailableMoves
	}
	return res.Action, nil
}

// findWinningMove checks if a player has two in a line with an empty third cell.
func findWinningMove(board game.Board, mark game.PlayerMark) (game.Action, bool) {
	for _, combo := range game.WinCombos {
		marked := 0
		var empty []game.Action
		for _, cell := range combo {
			switch board[cell.Row][cell.Col] {
			case mark:
				marked++
			case game.None:
				empty = append(empty, cell)
			}
		}
		if marked == 2 && len(empty) == 1 {
			return empty[0], true
		}
	}
	return game.Action{}, false
}
