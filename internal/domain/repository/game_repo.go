package repository

import (
	"github.com/yourusername/triviago-api/internal/domain/entity"
)

// GameRepository определяет методы для работы с игровыми сессиями.
// Каждая сессия хранится одной записью; конкурентные обновления
// линеаризуются оптимистичной блокировкой по колонке version.
type GameRepository interface {
	Create(game *entity.GameSession) error
	GetByGameID(gameID string) (*entity.GameSession, error)

	// ListOpen возвращает сессии в статусах waiting и active
	ListOpen() ([]entity.GameSession, error)

	// ListUnrecordedFinished возвращает завершенные сессии, по которым
	// статистика игроков еще не зафиксирована
	ListUnrecordedFinished() ([]entity.GameSession, error)

	// UpdateWithVersion записывает все изменяемые поля сессии при условии,
	// что version в базе совпадает с game.Version. При успехе инкрементирует
	// game.Version. Если запись изменилась конкурентно, возвращает
	// ErrVersionConflict — вызывающий перечитывает сессию и повторяет попытку.
	UpdateWithVersion(game *entity.GameSession) error
}
