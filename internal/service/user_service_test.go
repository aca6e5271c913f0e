package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/triviago-api/internal/domain/entity"
)

func TestGetLeaderboard_PaginationNormalized(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	s := NewUserService(userRepo)
	users := []entity.User{{ID: 1, TotalPoints: 500}, {ID: 2, TotalPoints: 300}}
	// Невалидные значения страницы приводятся к первым 10 записям
	userRepo.On("GetLeaderboard", 10, 0).Return(users, int64(2), nil)

	// Act
	result, total, err := s.GetLeaderboard(0, -5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, result, 2)
	userRepo.AssertExpectations(t)
}

func TestGetLeaderboard_PageSizeClamped(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	s := NewUserService(userRepo)
	userRepo.On("GetLeaderboard", maxLeaderboardPageSize, maxLeaderboardPageSize).Return([]entity.User{}, int64(0), nil)

	// Act
	_, _, err := s.GetLeaderboard(2, 1000)

	// Assert
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}
