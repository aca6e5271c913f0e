package gamemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/domain/repository"
)

func newTestAggregator() (*StatsAggregator, *MockUserRepo, *MockGameRepo) {
	userRepo := new(MockUserRepo)
	gameRepo := new(MockGameRepo)
	config := &Config{
		MaxUpdateAttempts: 3,
		MaxRetries:        3,
		RetryInterval:     time.Millisecond,
	}
	sa := NewStatsAggregator(config, &Dependencies{UserRepo: userRepo, GameRepo: gameRepo})
	return sa, userRepo, gameRepo
}

func finishedGame() *entity.GameSession {
	now := time.Now()
	return &entity.GameSession{
		ID:          1,
		GameID:      "11111111-2222-3333-4444-555555555555",
		Status:      entity.GameStatusFinished,
		BoardConfig: entity.DefaultBoardConfig(),
		Players: entity.PlayerList{
			{UserID: 10, Username: "alice", Score: 130, Position: 20},
			{UserID: 20, Username: "bob", Score: 85, Position: 12},
			{UserID: 30, Username: "carol", Score: 40, Position: 7},
		},
		FinishedAt: &now,
		Version:    3,
	}
}

func TestRecordFinish_UpdatesEveryPlayerAndMarksRecorded(t *testing.T) {
	// Arrange: победитель определяется по достигнутой финишной клетке
	sa, userRepo, gameRepo := newTestAggregator()
	game := finishedGame()

	userRepo.On("ApplyGameResult", uint(10), int64(130), true).Return(nil).Once()
	userRepo.On("ApplyGameResult", uint(20), int64(85), false).Return(nil).Once()
	userRepo.On("ApplyGameResult", uint(30), int64(40), false).Return(nil).Once()
	gameRepo.On("UpdateWithVersion", game).Return(nil).Once()

	// Act
	err := sa.RecordFinish(context.Background(), game)

	// Assert
	require.NoError(t, err)
	assert.True(t, game.StatsRecorded)
	userRepo.AssertExpectations(t)
	gameRepo.AssertExpectations(t)
}

func TestRecordFinish_AlreadyRecordedSkips(t *testing.T) {
	// Arrange: флаг уже взведен, повторная агрегация не выполняется
	sa, userRepo, gameRepo := newTestAggregator()
	game := finishedGame()
	game.StatsRecorded = true

	// Act
	err := sa.RecordFinish(context.Background(), game)

	// Assert
	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "ApplyGameResult", mock.Anything, mock.Anything, mock.Anything)
	gameRepo.AssertNotCalled(t, "UpdateWithVersion", mock.Anything)
}

func TestRecordFinish_RetriesTransientFailure(t *testing.T) {
	// Arrange: первая попытка по победителю падает, вторая проходит
	sa, userRepo, gameRepo := newTestAggregator()
	game := finishedGame()
	transient := errors.New("deadlock detected")

	userRepo.On("ApplyGameResult", uint(10), int64(130), true).Return(transient).Once()
	userRepo.On("ApplyGameResult", uint(10), int64(130), true).Return(nil).Once()
	userRepo.On("ApplyGameResult", uint(20), int64(85), false).Return(nil).Once()
	userRepo.On("ApplyGameResult", uint(30), int64(40), false).Return(nil).Once()
	gameRepo.On("UpdateWithVersion", game).Return(nil).Once()

	// Act
	err := sa.RecordFinish(context.Background(), game)

	// Assert
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestRecordFinish_FailedPlayerLeavesFlagUnset(t *testing.T) {
	// Arrange: обновление одного игрока падает на всех попытках
	sa, userRepo, gameRepo := newTestAggregator()
	game := finishedGame()
	persistent := errors.New("connection refused")

	userRepo.On("ApplyGameResult", uint(10), int64(130), true).Return(nil)
	userRepo.On("ApplyGameResult", uint(20), int64(85), false).Return(persistent)
	userRepo.On("ApplyGameResult", uint(30), int64(40), false).Return(nil)

	// Act
	err := sa.RecordFinish(context.Background(), game)

	// Assert: ошибка возвращается, остальные игроки обновлены, флаг снят
	require.Error(t, err)
	assert.ErrorIs(t, err, persistent)
	assert.False(t, game.StatsRecorded)
	userRepo.AssertCalled(t, "ApplyGameResult", uint(10), int64(130), true)
	userRepo.AssertCalled(t, "ApplyGameResult", uint(30), int64(40), false)
	userRepo.AssertNumberOfCalls(t, "ApplyGameResult", 5) // 1 + 3 повтора + 1
	gameRepo.AssertNotCalled(t, "UpdateWithVersion", mock.Anything)
}

func TestRecordFinish_CancelledContextStopsRetries(t *testing.T) {
	// Arrange
	sa, userRepo, _ := newTestAggregator()
	game := finishedGame()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	userRepo.On("ApplyGameResult", uint(10), int64(130), true).Return(errors.New("timeout"))
	userRepo.On("ApplyGameResult", uint(20), int64(85), false).Return(errors.New("timeout"))
	userRepo.On("ApplyGameResult", uint(30), int64(40), false).Return(errors.New("timeout"))

	// Act
	err := sa.RecordFinish(ctx, game)

	// Assert: после отмены контекста повторы не продолжаются
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	userRepo.AssertNumberOfCalls(t, "ApplyGameResult", 3)
}

func TestRecordFinish_FlagConflictResolvedByConcurrentWriter(t *testing.T) {
	// Arrange: запись флага проигрывает гонку, но конкурент уже взвел его
	sa, userRepo, gameRepo := newTestAggregator()
	game := finishedGame()
	recorded := finishedGame()
	recorded.StatsRecorded = true
	recorded.Version = 4

	userRepo.On("ApplyGameResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	gameRepo.On("UpdateWithVersion", game).Return(repository.ErrVersionConflict).Once()
	gameRepo.On("GetByGameID", game.GameID).Return(recorded, nil).Once()

	// Act
	err := sa.RecordFinish(context.Background(), game)

	// Assert
	require.NoError(t, err)
	gameRepo.AssertExpectations(t)
}

func TestRecoverPending_RecordsUnfinishedStats(t *testing.T) {
	// Arrange: после перезапуска осталась завершенная сессия без статистики
	sa, userRepo, gameRepo := newTestAggregator()
	pending := finishedGame()

	gameRepo.On("ListUnrecordedFinished").Return([]entity.GameSession{*pending}, nil)
	userRepo.On("ApplyGameResult", uint(10), int64(130), true).Return(nil).Once()
	userRepo.On("ApplyGameResult", uint(20), int64(85), false).Return(nil).Once()
	userRepo.On("ApplyGameResult", uint(30), int64(40), false).Return(nil).Once()
	gameRepo.On("UpdateWithVersion", mock.AnythingOfType("*entity.GameSession")).Return(nil).Once()

	// Act
	err := sa.RecoverPending(context.Background())

	// Assert
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
	gameRepo.AssertExpectations(t)
}

func TestRecoverPending_NothingToRecover(t *testing.T) {
	// Arrange
	sa, userRepo, gameRepo := newTestAggregator()
	gameRepo.On("ListUnrecordedFinished").Return([]entity.GameSession{}, nil)

	// Act
	err := sa.RecoverPending(context.Background())

	// Assert
	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "ApplyGameResult", mock.Anything, mock.Anything, mock.Anything)
}
