package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2
)

// Utility values of a finished game, seen from X.
const (
	UtilityOWins = -1
	UtilityDraw  = 0
	UtilityXWins = 1
)

var ErrInvalidAction = errors.New("invalid action")

// Board is a 3x3 grid addressed as Board[row][col]. It is a value type:
// Result always returns a fresh copy.
type Board [3][3]PlayerMark

// Action is a (row, col) placement on an empty cell.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (a Action) String() string {
	return fmt.Sprintf("(%d,%d)", a.Row, a.Col)
}

func (a Action) inBounds() bool {
	return a.Row >= BorderMin && a.Row <= BorderMax && a.Col >= BorderMin && a.Col <= BorderMax
}

// WinCombos holds every three-in-a-row: rows, columns, then both diagonals.
var WinCombos = [8][3]Action{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// InitialState returns the empty board.
func InitialState() Board {
	return Board{}
}

// Player returns the mark whose turn it is. X moves first, so X is to move
// whenever it has not placed more marks than O.
func Player(board Board) PlayerMark {
	xCount, oCount := board.Count()
	if xCount <= oCount {
		return PlayerX
	}
	return PlayerO
}

// Actions returns every empty cell in row-major order.
func Actions(board Board) []Action {
	actions := make([]Action, 0, 9)
	for r := range [3]int{} {
		for c := range [3]int{} {
			if board[r][c] == None {
				actions = append(actions, Action{Row: r, Col: c})
			}
		}
	}
	return actions
}

// Result returns the board produced by the player to move taking action.
// The input board is left untouched.
func Result(board Board, action Action) (Board, error) {
	if !action.inBounds() {
		return board, fmt.Errorf("%w: %v is off the board", ErrInvalidAction, action)
	}
	if board[action.Row][action.Col] != None {
		return board, fmt.Errorf("%w: %v is already occupied", ErrInvalidAction, action)
	}

	next := board
	next[action.Row][action.Col] = Player(board)
	return next, nil
}

// Winner returns the mark holding a full line, or None. X's lines are
// checked before O's.
func Winner(board Board) PlayerMark {
	for _, mark := range [2]PlayerMark{PlayerX, PlayerO} {
		if board.hasLine(mark) {
			return mark
		}
	}
	return None
}

// Terminal reports whether the game is over, by a win or a full board.
func Terminal(board Board) bool {
	return Winner(board) != None || board.IsFull()
}

// Utility scores a terminal board: 1 if X won, -1 if O won, 0 otherwise.
func Utility(board Board) int {
	switch Winner(board) {
	case PlayerX:
		return UtilityXWins
	case PlayerO:
		return UtilityOWins
	default:
		return UtilityDraw
	}
}

func (b Board) hasLine(mark PlayerMark) bool {
	for _, line := range WinCombos {
		if b[line[0].Row][line[0].Col] == mark &&
			b[line[1].Row][line[1].Col] == mark &&
			b[line[2].Row][line[2].Col] == mark {
			return true
		}
	}
	return false
}
