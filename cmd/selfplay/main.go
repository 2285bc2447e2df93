package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/config"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/logger"
	"ctchen222/tictactoe-engine/internal/match"
	"ctchen222/tictactoe-engine/internal/telemetry"
	"ctchen222/tictactoe-engine/pkg/proto"

	"github.com/muesli/termenv"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file; environment variables override it")
	jsonOut := flag.Bool("json", false, "write the summary and every game as JSON instead of a styled board")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.ServiceName, cfg.OTel)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if err := run(ctx, cfg, *jsonOut); err != nil {
		slog.ErrorContext(ctx, "Self-play failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, jsonOut bool) error {
	searcher, err := bot.NewSearcher(cfg.SelfPlay.Parallel)
	if err != nil {
		return err
	}

	x, err := bot.NewBotMoveCalculator(cfg.SelfPlay.X, searcher)
	if err != nil {
		return fmt.Errorf("player X: %w", err)
	}
	o, err := bot.NewBotMoveCalculator(cfg.SelfPlay.O, searcher)
	if err != nil {
		return fmt.Errorf("player O: %w", err)
	}

	mm, err := match.NewMatchManager(x, o, cfg.SelfPlay.Workers)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Starting self-play",
		"games", cfg.SelfPlay.Games, "x", cfg.SelfPlay.X, "o", cfg.SelfPlay.O,
		"workers", cfg.SelfPlay.Workers, "parallel_search", cfg.SelfPlay.Parallel)

	summary, err := mm.Run(ctx, cfg.SelfPlay.Games)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(proto.NewSummaryMessage(summary, true))
	}

	out := termenv.NewOutput(os.Stdout)
	fmt.Fprintf(out, "X wins: %d  O wins: %d  draws: %d\n", summary.XWins, summary.OWins, summary.Draws)
	if len(summary.Records) > 0 {
		first := summary.Records[0]
		fmt.Fprintf(out, "game %s\n%s\n", first.ID, renderBoard(out, first.Final))
	}
	return nil
}

// renderBoard colours X and O marks when the terminal supports it.
func renderBoard(out *termenv.Output, board game.Board) string {
	var sb strings.Builder
	for i, line := range strings.Split(board.String(), "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range line {
			s := string(cell)
			switch game.PlayerMark(s) {
			case game.PlayerX:
				sb.WriteString(out.String(s).Foreground(out.Color("1")).Bold().String())
			case game.PlayerO:
				sb.WriteString(out.String(s).Foreground(out.Color("4")).Bold().String())
			default:
				sb.WriteString(out.String(s).Faint().String())
			}
		}
	}
	return sb.String()
}
