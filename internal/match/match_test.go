package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/bot/mocks"
	"ctchen222/tictactoe-engine/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCalculator(t *testing.T, difficulty string) bot.MoveCalculator {
	t.Helper()
	searcher, err := bot.NewSearcher(false)
	require.NoError(t, err)
	calc, err := bot.NewBotMoveCalculator(difficulty, searcher)
	require.NoError(t, err)
	return calc
}

func TestPlay_ScriptedWinForX(t *testing.T) {
	ctrl := gomock.NewController(t)
	x := mocks.NewMockMoveCalculator(ctrl)
	o := mocks.NewMockMoveCalculator(ctrl)

	gomock.InOrder(
		x.EXPECT().CalculateNextMove(gomock.Any(), game.InitialState()).Return(game.Action{Row: 0, Col: 0}, nil),
		o.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).Return(game.Action{Row: 1, Col: 0}, nil),
		x.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).Return(game.Action{Row: 0, Col: 1}, nil),
		o.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).Return(game.Action{Row: 1, Col: 1}, nil),
		x.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).Return(game.Action{Row: 0, Col: 2}, nil),
	)

	record, err := Play(context.Background(), x, o)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, game.PlayerX, record.Winner)
	assert.Equal(t, game.UtilityXWins, record.Utility)
	assert.Len(t, record.Moves, 5)
	assert.Equal(t, game.PlayerO, record.Final[1][1])
}

func TestPlay_IllegalMove(t *testing.T) {
	ctrl := gomock.NewController(t)
	x := mocks.NewMockMoveCalculator(ctrl)
	o := mocks.NewMockMoveCalculator(ctrl)

	x.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).Return(game.Action{Row: 1, Col: 1}, nil)
	o.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).Return(game.Action{Row: 1, Col: 1}, nil)

	_, err := Play(context.Background(), x, o)
	require.ErrorIs(t, err, game.ErrInvalidAction)
}

func TestPlay_CalculatorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	x := mocks.NewMockMoveCalculator(ctrl)
	o := mocks.NewMockMoveCalculator(ctrl)

	boom := errors.New("boom")
	x.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).Return(game.Action{}, boom)

	_, err := Play(context.Background(), x, o)
	require.ErrorIs(t, err, boom)
}

func TestMatchManager_OptimalPlayDraws(t *testing.T) {
	hard := newCalculator(t, bot.DifficultyHard)
	mm, err := NewMatchManager(hard, hard, 2)
	require.NoError(t, err)

	summary, err := mm.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Games)
	assert.Equal(t, 3, summary.Draws)
	require.Len(t, summary.Records, 3)
	for _, record := range summary.Records {
		require.NotNil(t, record)
		assert.Equal(t, game.UtilityDraw, record.Utility)
		assert.Len(t, record.Moves, 9)
	}
}

func TestMatchManager_OptimalNeverLoses(t *testing.T) {
	hard := newCalculator(t, bot.DifficultyHard)
	easy := newCalculator(t, bot.DifficultyEasy)

	t.Run("Optimal as X", func(t *testing.T) {
		mm, err := NewMatchManager(hard, easy, 4)
		require.NoError(t, err)

		summary, err := mm.Run(context.Background(), 8)
		require.NoError(t, err)
		assert.Zero(t, summary.OWins)
		assert.Equal(t, 8, summary.XWins+summary.Draws)
	})

	t.Run("Optimal as O", func(t *testing.T) {
		mm, err := NewMatchManager(easy, hard, 4)
		require.NoError(t, err)

		summary, err := mm.Run(context.Background(), 8)
		require.NoError(t, err)
		assert.Zero(t, summary.XWins)
	})
}

func TestMatchManager_ConcurrentRuns(t *testing.T) {
	// Given one manager shared by two series of different lengths
	easy := newCalculator(t, bot.DifficultyEasy)
	mm, err := NewMatchManager(easy, easy, 4)
	require.NoError(t, err)

	for range 20 {
		var (
			wg                sync.WaitGroup
			long, short       Summary
			longErr, shortErr error
		)

		// When both series run at the same time
		wg.Add(2)
		go func() {
			defer wg.Done()
			long, longErr = mm.Run(context.Background(), 40)
		}()
		go func() {
			defer wg.Done()
			short, shortErr = mm.Run(context.Background(), 2)
		}()
		wg.Wait()

		// Then each summary only counts its own games
		require.NoError(t, longErr)
		require.NoError(t, shortErr)
		assert.Equal(t, 40, long.Games)
		assert.Equal(t, 40, long.XWins+long.OWins+long.Draws)
		assert.Len(t, long.Records, 40)
		assert.Equal(t, 2, short.Games)
		assert.Equal(t, 2, short.XWins+short.OWins+short.Draws)
		assert.Len(t, short.Records, 2)
		for _, record := range append(long.Records, short.Records...) {
			assert.NotNil(t, record)
		}
	}
}

func TestMatchManager_Errors(t *testing.T) {
	easy := newCalculator(t, bot.DifficultyEasy)

	t.Run("Zero games", func(t *testing.T) {
		mm, err := NewMatchManager(easy, easy, 1)
		require.NoError(t, err)

		_, err = mm.Run(context.Background(), 0)
		assert.ErrorIs(t, err, ErrInvalidGameCount)
	})

	t.Run("Failing game stops the series", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		broken := mocks.NewMockMoveCalculator(ctrl)
		broken.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any()).
			Return(game.Action{}, bot.ErrNoAvailableMoves).AnyTimes()

		mm, err := NewMatchManager(broken, easy, 2)
		require.NoError(t, err)

		_, err = mm.Run(context.Background(), 5)
		assert.ErrorIs(t, err, bot.ErrNoAvailableMoves)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mm, err := NewMatchManager(easy, easy, 2)
		require.NoError(t, err)

		_, err = mm.Run(ctx, 5)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
