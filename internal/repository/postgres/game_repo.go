package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/domain/repository"
	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игровых сессий
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create создает новую игровую сессию
func (r *GameRepo) Create(game *entity.GameSession) error {
	return r.db.Create(game).Error
}

// GetByGameID возвращает сессию по публичному идентификатору
func (r *GameRepo) GetByGameID(gameID string) (*entity.GameSession, error) {
	var game entity.GameSession
	err := r.db.Where("game_id = ?", gameID).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// ListOpen возвращает сессии, к которым можно присоединиться или в которых идет игра
func (r *GameRepo) ListOpen() ([]entity.GameSession, error) {
	var games []entity.GameSession
	err := r.db.
		Where("status IN ?", []string{entity.GameStatusWaiting, entity.GameStatusActive}).
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

// ListUnrecordedFinished возвращает завершенные сессии с незаписанной
// статистикой. Используется при старте для дозаписи после сбоя.
func (r *GameRepo) ListUnrecordedFinished() ([]entity.GameSession, error) {
	var games []entity.GameSession
	err := r.db.
		Where("status = ? AND stats_recorded = ?", entity.GameStatusFinished, false).
		Order("finished_at ASC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

// UpdateWithVersion записывает изменяемые поля сессии c проверкой version.
// Ноль затронутых строк означает, что сессия была конкурентно изменена:
// возвращается ErrVersionConflict, и вызывающий повторяет цикл
// чтение-модификация-запись.
func (r *GameRepo) UpdateWithVersion(game *entity.GameSession) error {
	result := r.db.Model(&entity.GameSession{}).
		Where("id = ? AND version = ?", game.ID, game.Version).
		Updates(map[string]interface{}{
			"status":           game.Status,
			"players":          game.Players,
			"current_question": game.CurrentQuestion,
			"stats_recorded":   game.StatsRecorded,
			"started_at":       game.StartedAt,
			"finished_at":      game.FinishedAt,
			"version":          game.Version + 1,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrVersionConflict
	}

	game.Version++
	return nil
}
