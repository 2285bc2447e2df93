package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "ctchen222/tictactoe-engine/internal/match"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)
)

var ErrInvalidGameCount = errors.New("game count must be positive")

// Record describes one finished game.
type Record struct {
	ID      string          `json:"id"`
	Moves   []game.Action   `json:"moves"`
	Final   game.Board      `json:"final"`
	Winner  game.PlayerMark `json:"winner"`
	Utility int             `json:"utility"`
}

// Summary aggregates the games played by a MatchManager.
type Summary struct {
	Games   int       `json:"games"`
	XWins   int       `json:"x_wins"`
	OWins   int       `json:"o_wins"`
	Draws   int       `json:"draws"`
	Records []*Record `json:"records"`
}

// Play runs a single game from the empty board, asking x or o for a move
// depending on whose turn it is.
func Play(ctx context.Context, x, o bot.MoveCalculator) (*Record, error) {
	id := uuid.New().String()
	ctx, span := tracer.Start(ctx, "match.Play", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	g := game.NewGame()
	for !g.IsOver() {
		calculator := x
		if g.CurrentTurn() == game.PlayerO {
			calculator = o
		}

		action, err := calculator.CalculateNextMove(ctx, g.Board)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to calculate move")
			return nil, fmt.Errorf("%s failed to move: %w", g.CurrentTurn(), err)
		}

		if err := g.Move(action.Row, action.Col); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Calculator returned an illegal move")
			return nil, fmt.Errorf("%s played %v: %w", g.CurrentTurn(), action, err)
		}
		slog.DebugContext(ctx, "move played", "game.id", id, "action.row", action.Row, "action.col", action.Col)
	}

	record := &Record{
		ID:      id,
		Moves:   g.Moves,
		Final:   g.Board,
		Winner:  g.Winner(),
		Utility: game.Utility(g.Board),
	}
	span.SetAttributes(
		attribute.String("game.winner", string(record.Winner)),
		attribute.Int("game.moves", len(record.Moves)),
	)
	return record, nil
}

// MatchManager plays a series of games between two calculators on a fixed
// number of workers. Run may be called concurrently; each call keeps its own
// tally.
type MatchManager struct {
	x        bot.MoveCalculator
	o        bot.MoveCalculator
	workers  int
	gamesCnt metric.Int64Counter
}

// tally collects the records of one Run.
type tally struct {
	mu      sync.Mutex
	summary Summary
}

func NewMatchManager(x, o bot.MoveCalculator, workers int) (*MatchManager, error) {
	gamesCnt, err := meter.Int64Counter("match.games",
		metric.WithDescription("Finished self-play games by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}

	return &MatchManager{
		x:        x,
		o:        o,
		workers:  max(workers, 1),
		gamesCnt: gamesCnt,
	}, nil
}

// Run plays games games and returns the aggregated summary. Records are
// ordered by game index, not by completion time. The first failing game
// cancels the rest.
func (m *MatchManager) Run(ctx context.Context, games int) (Summary, error) {
	if games <= 0 {
		return Summary{}, ErrInvalidGameCount
	}

	t := &tally{summary: Summary{Records: make([]*Record, games)}}

	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range games {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range m.workers {
		g.Go(func() error {
			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				record, err := Play(gctx, m.x, m.o)
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				m.record(gctx, t, i, record)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	slog.InfoContext(ctx, "Match series finished",
		"games", t.summary.Games, "x_wins", t.summary.XWins, "o_wins", t.summary.OWins, "draws", t.summary.Draws)
	return t.summary, nil
}

func (m *MatchManager) record(ctx context.Context, t *tally, index int, record *Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.summary.Records[index] = record
	t.summary.Games++

	outcome := "draw"
	switch record.Winner {
	case game.PlayerX:
		t.summary.XWins++
		outcome = "x"
	case game.PlayerO:
		t.summary.OWins++
		outcome = "o"
	default:
		t.summary.Draws++
	}
	m.gamesCnt.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
