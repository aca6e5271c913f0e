package service

import (
	"fmt"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/domain/repository"
)

const maxLeaderboardPageSize = 100

// UserService предоставляет методы для работы с пользователями и их статистикой
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUserByID возвращает пользователя по ID
func (s *UserService) GetUserByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// GetLeaderboard возвращает страницу лидерборда по total_points и общее
// количество пользователей. page нумеруется с единицы.
func (s *UserService) GetLeaderboard(page, pageSize int) ([]entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > maxLeaderboardPageSize {
		pageSize = maxLeaderboardPageSize
	}

	offset := (page - 1) * pageSize
	users, total, err := s.userRepo.GetLeaderboard(pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return users, total, nil
}
