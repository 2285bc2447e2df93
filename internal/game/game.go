package game

import (
	"errors"
	"strings"
)

var ErrGameFinished = errors.New("game already finished")

// Game tracks a single match from the empty board. Every move replaces
// Board with the value returned by Result; earlier boards stay intact in
// History.
type Game struct {
	Board   Board
	History []Board
	Moves   []Action
}

func NewGame() *Game {
	return &Game{
		Board:   InitialState(),
		History: make([]Board, 0, 10),
		Moves:   make([]Action, 0, 9),
	}
}

func (g *Game) Move(row, col int) error {
	if g.IsOver() {
		return ErrGameFinished
	}

	next, err := Result(g.Board, Action{Row: row, Col: col})
	if err != nil {
		return err
	}

	g.History = append(g.History, g.Board)
	g.Moves = append(g.Moves, Action{Row: row, Col: col})
	g.Board = next
	return nil
}

// CurrentTurn returns the mark to move, or None once the game is over.
func (g *Game) CurrentTurn() PlayerMark {
	if g.IsOver() {
		return None
	}
	return Player(g.Board)
}

func (g *Game) Winner() PlayerMark {
	return Winner(g.Board)
}

func (g *Game) IsOver() bool {
	return Terminal(g.Board)
}

// IsDraw checks if the game is a draw.
func (g *Game) IsDraw() bool {
	return g.Winner() == None && g.Board.IsFull()
}

// Opponent returns the other player's mark.
func Opponent(mark PlayerMark) PlayerMark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Count returns the number of X and O marks on the board.
func (b Board) Count() (xCount, oCount int) {
	for r := range [3]int{} {
		for c := range [3]int{} {
			switch b[r][c] {
			case PlayerX:
				xCount++
			case PlayerO:
				oCount++
			}
		}
	}
	return xCount, oCount
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	xCount, oCount := b.Count()
	return xCount+oCount == 9
}

// Rows converts the board to a slice of slices, the shape the JSON records use.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, 3)
	for i := range [3]int{} {
		rows[i] = make([]PlayerMark, 3)
		copy(rows[i], b[i][:])
	}
	return rows
}

// String renders the board as three lines, empty cells shown as '.'.
func (b Board) String() string {
	var sb strings.Builder
	for r := range [3]int{} {
		for c := range [3]int{} {
			if b[r][c] == None {
				sb.WriteByte('.')
			} else {
				sb.WriteString(string(b[r][c]))
			}
		}
		if r < BorderMax {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
