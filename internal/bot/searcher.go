package bot

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"ctchen222/tictactoe-engine/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "ctchen222/tictactoe-engine/internal/bot"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)
)

// SearchResult is the outcome of a full minimax search from one board.
type SearchResult struct {
	Action game.Action
	// Value is the utility reached under optimal play, seen from X.
	Value int
	// Nodes counts every board visited, the root included.
	Nodes int64
	// Found is false when the root board is terminal.
	Found bool
}

// Searcher runs minimax with tracing and metrics. With Parallel set, the
// root's branches are searched concurrently; the reduction still walks them
// in row-major order, so the chosen action matches Minimax.
type Searcher struct {
	Parallel bool

	nodeCounter metric.Int64Counter
	durationMs  metric.Float64Histogram
}

func NewSearcher(parallel bool) (*Searcher, error) {
	nodeCounter, err := meter.Int64Counter("bot.search.nodes",
		metric.WithDescription("Boards visited by minimax searches"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create node counter: %w", err)
	}

	durationMs, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Wall time of a minimax search"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Searcher{
		Parallel:    parallel,
		nodeCounter: nodeCounter,
		durationMs:  durationMs,
	}, nil
}

// BestMove searches the whole remaining game tree from board. The context is
// checked before the search and around every root branch: sequentially
// before each branch, in parallel mode before a branch starts and again when
// it finishes. A branch already being searched runs to completion.
func (s *Searcher) BestMove(ctx context.Context, board game.Board) (SearchResult, error) {
	ctx, span := tracer.Start(ctx, "bot.BestMove", trace.WithAttributes(
		attribute.String("board", board.String()),
		attribute.Bool("search.parallel", s.Parallel),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search cancelled before start")
		return SearchResult{}, err
	}

	start := time.Now()
	var (
		res SearchResult
		err error
	)
	if s.Parallel {
		res, err = s.searchParallel(ctx, board)
	} else {
		res, err = s.searchSequential(ctx, board)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search interrupted")
		return SearchResult{}, err
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	mode := attribute.String("mode", modeName(s.Parallel))
	s.nodeCounter.Add(ctx, res.Nodes, metric.WithAttributes(mode))
	s.durationMs.Record(ctx, elapsed, metric.WithAttributes(mode))

	span.SetAttributes(
		attribute.Int64("search.nodes", res.Nodes),
		attribute.Int("search.value", res.Value),
	)
	if res.Found {
		span.SetAttributes(
			attribute.Int("action.row", res.Action.Row),
			attribute.Int("action.col", res.Action.Col),
		)
	}

	slog.DebugContext(ctx, "minimax search finished",
		"nodes", res.Nodes, "value", res.Value, "found", res.Found,
		"action", res.Action.String(), "elapsed_ms", elapsed)
	return res, nil
}

func (s *Searcher) searchSequential(ctx context.Context, board game.Board) (SearchResult, error) {
	if game.Terminal(board) {
		return SearchResult{Value: game.Utility(board), Nodes: 1}, nil
	}

	maximizing := game.Player(board) == game.PlayerX
	res := SearchResult{Value: initialBest(maximizing), Nodes: 1}
	for _, action := range game.Actions(board) {
		if err := ctx.Err(); err != nil {
			return SearchResult{}, err
		}

		child, _ := game.Result(board, action)
		candidate := replyValue(child, maximizing, &res.Nodes)
		if improves(candidate, res.Value, maximizing) {
			res.Value = candidate
			res.Action = action
			res.Found = true
		}
	}
	return res, nil
}

func (s *Searcher) searchParallel(ctx context.Context, board game.Board) (SearchResult, error) {
	if game.Terminal(board) {
		return SearchResult{Value: game.Utility(board), Nodes: 1}, nil
	}

	maximizing := game.Player(board) == game.PlayerX
	actions := game.Actions(board)
	values := make([]int, len(actions))
	nodes := make([]int64, len(actions))

	// At most GOMAXPROCS branches run at once, so queued branches see a
	// cancellation before they start. Running branches check again before
	// their value is kept.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, action := range actions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child, _ := game.Result(board, action)
			value := replyValue(child, maximizing, &nodes[i])
			if err := ctx.Err(); err != nil {
				return err
			}
			values[i] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{Value: initialBest(maximizing), Nodes: 1}
	for i, action := range actions {
		res.Nodes += nodes[i]
		if improves(values[i], res.Value, maximizing) {
			res.Value = values[i]
			res.Action = action
			res.Found = true
		}
	}
	return res, nil
}

// replyValue scores child assuming the opponent of the root player moves next.
func replyValue(child game.Board, maximizing bool, nodes *int64) int {
	if maximizing {
		v, _, _ := minValue(child, nodes)
		return v
	}
	v, _, _ := maxValue(child, nodes)
	return v
}

func initialBest(maximizing bool) int {
	if maximizing {
		return math.MinInt
	}
	return math.MaxInt
}

func improves(candidate, best int, maximizing bool) bool {
	if maximizing {
		return candidate > best
	}
	return candidate < best
}

func modeName(parallel bool) string {
	if parallel {
		return "parallel"
	}
	return "sequential"
}
