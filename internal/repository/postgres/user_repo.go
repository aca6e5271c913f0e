package postgres

import (
	"errors"
	"log"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя.
// Дубликат email или username по уникальному индексу превращается в ErrConflict.
func (r *UserRepo) Create(user *entity.User) error {
	err := r.db.Create(user).Error
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // 23505 - unique_violation
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени пользователя
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin обновляет время последнего входа
func (r *UserRepo) UpdateLastLogin(userID uint) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", time.Now()).
		Error
}

// ApplyGameResult инкрементально обновляет статистику пользователя после
// завершения игры. Инкремент счетчиков и пересчет average_score выполняются
// внутри одной транзакции с блокировкой строки, чтобы конкурентные
// завершения игр не испортили среднее значение.
func (r *UserRepo) ApplyGameResult(userID uint, points int64, won bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user entity.User
		if err := tx.Clauses(forUpdateClause()).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		user.TotalGames++
		user.TotalPoints += points
		if won {
			user.Wins++
		}
		// Среднее пересчитывается из уже инкрементированных счетчиков
		user.AverageScore = float64(user.TotalPoints) / float64(user.TotalGames)

		return tx.Model(&entity.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"total_games":   user.TotalGames,
				"wins":          user.Wins,
				"total_points":  user.TotalPoints,
				"average_score": user.AverageScore,
				"updated_at":    time.Now(),
			}).Error
	})
}

// UpdateFastestAnswer сохраняет новый минимум времени ответа.
// Условие в WHERE гарантирует, что существующий минимум не будет перезаписан
// большим значением при конкурентных обновлениях.
func (r *UserRepo) UpdateFastestAnswer(userID uint, seconds float64) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ? AND (fastest_answer IS NULL OR fastest_answer > ?)", userID, seconds).
		UpdateColumn("fastest_answer", seconds)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Либо пользователь не найден, либо минимум уже меньше — не ошибка
		log.Printf("[UserRepo.UpdateFastestAnswer] Минимум для пользователя ID=%d не обновлен (%.2fs не лучше сохраненного)", userID, seconds)
	}
	return nil
}

// GetLeaderboard возвращает пользователей для лидерборда с пагинацией и общим
// количеством, отсортированных по сумме набранных очков.
func (r *UserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	// Используем транзакцию для согласованности чтения данных и общего количества
	tx := r.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	err := tx.Model(&entity.User{}).Count(&total).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	// Сортируем по total_points DESC, затем wins DESC, и ID для стабильности
	err = tx.Order("total_points DESC, wins DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Select("id", "username", "total_games", "wins", "total_points", "average_score", "fastest_answer").
		Find(&users).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
