package gamemanager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/domain/repository"
	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
)

// StatsAggregator переносит итоги завершенной игры в накопленную статистику
// пользователей. Работает строго после фиксации финиша: сбои здесь не
// влияют на уже завершенную сессию.
type StatsAggregator struct {
	config *Config
	deps   *Dependencies
}

// NewStatsAggregator создает новый агрегатор статистики
func NewStatsAggregator(config *Config, deps *Dependencies) *StatsAggregator {
	return &StatsAggregator{
		config: config,
		deps:   deps,
	}
}

// RecordFinish обновляет статистику каждого участника завершенной игры:
// total_games, wins, total_points и производный average_score. Сессии с уже
// взведенным stats_recorded пропускаются; флаг взводится версионированной
// записью только после успешного применения результатов всех игроков.
// Обновление по каждому игроку повторяется до MaxRetries раз; ошибки
// отдельных игроков не прерывают обработку остальных и возвращаются
// объединенными.
func (sa *StatsAggregator) RecordFinish(ctx context.Context, game *entity.GameSession) error {
	if game.StatsRecorded {
		return nil
	}

	var winnerID uint
	if winner := game.Winner(); winner != nil {
		winnerID = winner.UserID
	}

	var errs []error
	for i := range game.Players {
		player := &game.Players[i]
		won := player.UserID == winnerID

		err := sa.applyWithRetry(ctx, player.UserID, int64(player.Score), won)
		if err != nil {
			log.Printf("[StatsAggregator] Не удалось обновить статистику пользователя #%d по игре %s: %v",
				player.UserID, game.GameID, err)
			errs = append(errs, err)
			continue
		}
	}

	if len(errs) > 0 {
		// Флаг остается снятым: сессия будет дозаписана восстановлением
		return errors.Join(errs...)
	}

	if err := sa.markRecorded(game); err != nil {
		return err
	}

	log.Printf("[StatsAggregator] Статистика по игре %s записана для %d игроков (победитель #%d)",
		game.GameID, len(game.Players), winnerID)
	return nil
}

// markRecorded взводит stats_recorded версионированной записью. При
// конфликте версии сессия перечитывается: если флаг уже взведен
// конкурентом, повторная запись не нужна.
func (sa *StatsAggregator) markRecorded(game *entity.GameSession) error {
	for attempt := 0; attempt < sa.config.MaxUpdateAttempts; attempt++ {
		if attempt > 0 {
			fresh, err := sa.deps.GameRepo.GetByGameID(game.GameID)
			if err != nil {
				return err
			}
			if fresh.StatsRecorded {
				game.StatsRecorded = true
				return nil
			}
			game = fresh
		}

		game.StatsRecorded = true
		err := sa.deps.GameRepo.UpdateWithVersion(game)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: game %s stats flag update contention", apperrors.ErrConflict, game.GameID)
}

// RecoverPending дозаписывает статистику завершенных сессий, у которых
// stats_recorded не взведен, например после падения процесса между
// фиксацией финиша и агрегацией. Вызывается при старте сервиса.
func (sa *StatsAggregator) RecoverPending(ctx context.Context) error {
	games, err := sa.deps.GameRepo.ListUnrecordedFinished()
	if err != nil {
		return err
	}

	var errs []error
	for i := range games {
		if err := sa.RecordFinish(ctx, &games[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if len(games) > 0 {
		log.Printf("[StatsAggregator] Дозаписана статистика по %d завершенным играм", len(games))
	}
	return nil
}

// applyWithRetry применяет результат игры к одному пользователю с повторами
func (sa *StatsAggregator) applyWithRetry(ctx context.Context, userID uint, points int64, won bool) error {
	var lastErr error
	for attempt := 0; attempt < sa.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sa.config.RetryInterval):
			}
		}

		lastErr = sa.deps.UserRepo.ApplyGameResult(userID, points, won)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
