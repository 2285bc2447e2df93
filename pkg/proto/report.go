package proto

import (
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/match"
)

// Message types written by the self-play binary.
const (
	TypeGame    = "game"
	TypeSummary = "summary"
)

// GameMessage reports one finished game.
type GameMessage struct {
	Type    string              `json:"type" validate:"required"`
	ID      string              `json:"id" validate:"required"`
	Moves   [][]int             `json:"moves"`
	Board   [][]game.PlayerMark `json:"board"`
	Winner  game.PlayerMark     `json:"winner,omitempty"`
	Utility int                 `json:"utility"`
}

// SummaryMessage reports a whole self-play series.
type SummaryMessage struct {
	Type  string        `json:"type" validate:"required"`
	Games int           `json:"games"`
	XWins int           `json:"xWins"`
	OWins int           `json:"oWins"`
	Draws int           `json:"draws"`
	Log   []GameMessage `json:"log,omitempty" validate:"dive"`
}

func NewGameMessage(record *match.Record) GameMessage {
	moves := make([][]int, len(record.Moves))
	for i, m := range record.Moves {
		moves[i] = []int{m.Row, m.Col}
	}
	return GameMessage{
		Type:    TypeGame,
		ID:      record.ID,
		Moves:   moves,
		Board:   record.Final.Rows(),
		Winner:  record.Winner,
		Utility: record.Utility,
	}
}

// NewSummaryMessage converts a summary, including every game when withLog is set.
func NewSummaryMessage(summary match.Summary, withLog bool) SummaryMessage {
	msg := SummaryMessage{
		Type:  TypeSummary,
		Games: summary.Games,
		XWins: summary.XWins,
		OWins: summary.OWins,
		Draws: summary.Draws,
	}
	if withLog {
		for _, record := range summary.Records {
			msg.Log = append(msg.Log, NewGameMessage(record))
		}
	}
	return msg
}
