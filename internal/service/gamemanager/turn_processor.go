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

// TurnProcessor обрабатывает ходы игроков: проверяет допустимость ответа,
// начисляет очки, двигает фишку по полю, фиксирует победу и выбирает
// следующий вопрос. Все изменения одной сессии линеаризуются: блокировка
// в Redis сериализует ходы между инстансами, а оптимистичная запись по
// version страхует от потерянных обновлений.
type TurnProcessor struct {
	config *Config
	deps   *Dependencies

	stats *StatsAggregator
}

// NewTurnProcessor создает новый процессор ходов
func NewTurnProcessor(config *Config, deps *Dependencies) *TurnProcessor {
	return &TurnProcessor{
		config: config,
		deps:   deps,
		stats:  NewStatsAggregator(config, deps),
	}
}

// TurnResult — итог одного хода, возвращаемый клиенту
type TurnResult struct {
	Correct      bool             `json:"correct"`
	ScoreChange  int              `json:"score_change"`
	NewPosition  int              `json:"new_position"`
	NextQuestion *entity.Question `json:"next_question"`
	GameOver     bool             `json:"game_over"`
}

// ProcessTurn обрабатывает один ответ игрока от начала до конца.
// Порядок проверок фиксирован: сессия не найдена -> NotFound; сессия не
// active -> InvalidState; вопрос не найден -> NotFound; отправитель не
// участник -> Forbidden. Для вызывающего весь ход выглядит как одно
// атомарное обновление сессии.
func (tp *TurnProcessor) ProcessTurn(ctx context.Context, gameID string, userID uint, questionID uint, answer string) (*TurnResult, error) {
	unlock, err := tp.acquireTurnLock(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		result   *TurnResult
		game     *entity.GameSession
		question *entity.Question
		elapsed  *float64
		hasWon   bool
	)

	// Цикл оптимистичной записи: при конфликте версии перечитываем сессию
	// и повторяем вычисление поверх свежего состояния
	for attempt := 0; attempt < tp.config.MaxUpdateAttempts; attempt++ {
		game, err = tp.deps.GameRepo.GetByGameID(gameID)
		if err != nil {
			return nil, err
		}

		if !game.IsActive() {
			return nil, fmt.Errorf("%w: game %s is %s", apperrors.ErrInvalidState, gameID, game.Status)
		}

		if question == nil {
			question, err = tp.deps.QuestionRepo.GetByID(questionID)
			if err != nil {
				return nil, err
			}
		}

		player := game.FindPlayer(userID)
		if player == nil {
			return nil, fmt.Errorf("%w: user #%d is not a player in game %s", apperrors.ErrForbidden, userID, gameID)
		}

		now := time.Now()
		isCorrect := question.IsCorrect(answer)

		// Время ответа определено только когда отвечают на текущий вопрос
		// сессии и у него зафиксировано время выдачи
		elapsed = nil
		if !game.CurrentQuestion.Empty() && game.CurrentQuestion.Question.ID == questionID {
			sec := now.Sub(game.CurrentQuestion.IssuedAt).Seconds()
			if sec < 0 {
				sec = 0
			}
			elapsed = &sec
		}

		scoreDelta := question.CalculatePoints(isCorrect, elapsed)
		newPosition, cellAdjustment := game.BoardConfig.Advance(player.Position, isCorrect)

		// Суммарная дельта клампится так, чтобы накопленный счет игрока
		// никогда не опускался ниже нуля
		totalDelta := scoreDelta + cellAdjustment
		if player.Score+totalDelta < 0 {
			totalDelta = -player.Score
		}

		hasWon = newPosition >= game.BoardConfig.Cells
		if hasWon {
			// В ответе и состоянии позиция ограничена длиной трека
			newPosition = game.BoardConfig.Cells
		}

		player.Score += totalDelta
		player.Position = newPosition
		player.LastAnswer = &now

		var nextQuestion *entity.Question
		if hasWon {
			// stats_recorded остается снятым до успешной агрегации:
			// незаписанные сессии дозаписываются при старте сервиса
			game.Finish(now)
		} else {
			nextQuestion = tp.pickQuestion(game)
			if nextQuestion != nil {
				game.CurrentQuestion = entity.CurrentQuestionSlot{Question: *nextQuestion, IssuedAt: now}
			} else {
				game.CurrentQuestion = entity.CurrentQuestionSlot{}
			}
		}

		err = tp.deps.GameRepo.UpdateWithVersion(game)
		if err == nil {
			result = &TurnResult{
				Correct:      isCorrect,
				ScoreChange:  totalDelta,
				NewPosition:  newPosition,
				NextQuestion: nextQuestion,
				GameOver:     hasWon,
			}
			break
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}

		log.Printf("[TurnProcessor] Конфликт версии сессии %s (попытка %d/%d), перечитываем", gameID, attempt+1, tp.config.MaxUpdateAttempts)
		question = nil // Состояние могло уйти вперед, перечитываем и вопрос
	}

	if result == nil {
		return nil, fmt.Errorf("%w: game %s update contention, retry later", apperrors.ErrConflict, gameID)
	}

	// Новый минимум времени ответа сохраняется сразу, независимо от
	// завершения игры
	if result.Correct && elapsed != nil {
		if err := tp.deps.UserRepo.UpdateFastestAnswer(userID, *elapsed); err != nil {
			log.Printf("[TurnProcessor] Не удалось обновить fastest_answer пользователя #%d: %v", userID, err)
		}
	}

	if hasWon {
		// Статистика — производное представление; зафиксированный finish
		// не откатывается при ее сбоях
		if err := tp.stats.RecordFinish(ctx, game); err != nil {
			log.Printf("[TurnProcessor] Ошибка агрегации статистики для игры %s: %v", gameID, err)
		}
		tp.broadcast(gameID, "game:finished", map[string]interface{}{
			"game_id": gameID,
			"winner":  userID,
			"players": game.Players,
		})
	} else {
		tp.broadcast(gameID, "game:turn_played", map[string]interface{}{
			"game_id":      gameID,
			"user_id":      userID,
			"correct":      result.Correct,
			"score_change": result.ScoreChange,
			"new_position": result.NewPosition,
		})
	}

	return result, nil
}

// StartGame выдает сессии первый вопрос и переводит ее из waiting в active.
// Запускать игру может любой участник сессии.
func (tp *TurnProcessor) StartGame(ctx context.Context, gameID string, userID uint) (*entity.GameSession, error) {
	unlock, err := tp.acquireTurnLock(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 0; attempt < tp.config.MaxUpdateAttempts; attempt++ {
		game, err := tp.deps.GameRepo.GetByGameID(gameID)
		if err != nil {
			return nil, err
		}

		if !game.IsWaiting() {
			return nil, fmt.Errorf("%w: game %s is %s", apperrors.ErrInvalidState, gameID, game.Status)
		}
		if !game.HasPlayer(userID) {
			return nil, fmt.Errorf("%w: user #%d is not a player in game %s", apperrors.ErrForbidden, userID, gameID)
		}

		question := tp.pickQuestion(game)
		if question == nil {
			return nil, fmt.Errorf("%w: no questions match the session filters", apperrors.ErrNotFound)
		}

		now := time.Now()
		game.Activate(now)
		game.CurrentQuestion = entity.CurrentQuestionSlot{Question: *question, IssuedAt: now}

		err = tp.deps.GameRepo.UpdateWithVersion(game)
		if err == nil {
			tp.broadcast(gameID, "game:started", map[string]interface{}{
				"game_id":    gameID,
				"started_by": userID,
			})
			return game, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: game %s update contention, retry later", apperrors.ErrConflict, gameID)
}

// pickQuestion выбирает следующий вопрос равномерно случайно из всего
// множества, удовлетворяющего фильтрам сессии. Возвращает nil, если
// подходящих вопросов нет.
func (tp *TurnProcessor) pickQuestion(game *entity.GameSession) *entity.Question {
	questions, err := tp.deps.QuestionRepo.Find(game.QuestionFilters.Categories, game.QuestionFilters.Difficulties)
	if err != nil {
		log.Printf("[TurnProcessor] Ошибка выборки вопросов для игры %s: %v", game.GameID, err)
		return nil
	}
	if len(questions) == 0 {
		return nil
	}
	q := questions[tp.deps.Rand.Intn(len(questions))]
	return &q
}

// acquireTurnLock захватывает короткую межпроцессную блокировку сессии.
// TTL страхует от вечной блокировки при падении процесса.
func (tp *TurnProcessor) acquireTurnLock(gameID string) (func(), error) {
	lockKey := fmt.Sprintf("lock:game:%s", gameID)

	deadline := time.Now().Add(tp.config.TurnLockTTL)
	for {
		ok, err := tp.deps.CacheRepo.SetNX(lockKey, "1", tp.config.TurnLockTTL)
		if err != nil {
			return nil, fmt.Errorf("redis error acquiring turn lock for game %s: %w", gameID, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: game %s is busy, retry later", apperrors.ErrConflict, gameID)
		}
		time.Sleep(tp.config.RetryInterval)
	}

	return func() {
		if err := tp.deps.CacheRepo.Delete(lockKey); err != nil {
			log.Printf("[TurnProcessor] WARNING: не удалось снять блокировку %s: %v", lockKey, err)
		}
	}, nil
}

// broadcast отправляет событие подписчикам игры, если EventSink настроен
func (tp *TurnProcessor) broadcast(gameID string, eventType string, data interface{}) {
	if tp.deps.EventSink == nil {
		return
	}
	if err := tp.deps.EventSink.BroadcastToGame(gameID, eventType, data); err != nil {
		log.Printf("[TurnProcessor] Ошибка рассылки события %s для игры %s: %v", eventType, gameID, err)
	}
}
