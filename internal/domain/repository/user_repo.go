package repository

import (
	"github.com/yourusername/triviago-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями и их статистикой
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UpdateLastLogin(userID uint) error

	// ApplyGameResult инкрементально обновляет бегущую статистику пользователя
	// после завершения игры: total_games, опционально wins, total_points,
	// затем пересчитывает average_score. Инкремент и пересчет выполняются
	// одной атомарной операцией чтения-модификации-записи.
	ApplyGameResult(userID uint, points int64, won bool) error

	// UpdateFastestAnswer сохраняет новое минимальное время ответа.
	// Значение записывается только если оно меньше сохраненного (или ничего
	// еще не записано).
	UpdateFastestAnswer(userID uint, seconds float64) error

	// GetLeaderboard возвращает пользователей для лидерборда с пагинацией и
	// общим количеством, отсортированных по total_points
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}
