package dto

import (
	"time"

	"github.com/yourusername/triviago-api/internal/domain/entity"
)

// UserResponse представляет пользователя в ответах API
type UserResponse struct {
	ID            uint       `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email,omitempty"` // Только в ответах о собственном профиле
	TotalGames    int64      `json:"total_games"`
	Wins          int64      `json:"wins"`
	TotalPoints   int64      `json:"total_points"`
	AverageScore  float64    `json:"average_score"`
	FastestAnswer *float64   `json:"fastest_answer"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

// NewUserResponse строит ответ о собственном профиле (включая email)
func NewUserResponse(user *entity.User) *UserResponse {
	resp := NewPublicUserResponse(user)
	resp.Email = user.Email
	resp.LastLogin = user.LastLogin
	return resp
}

// NewPublicUserResponse строит публичный профиль без приватных полей
func NewPublicUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		TotalGames:    user.TotalGames,
		Wins:          user.Wins,
		TotalPoints:   user.TotalPoints,
		AverageScore:  user.AverageScore,
		FastestAnswer: user.FastestAnswer,
		CreatedAt:     user.CreatedAt,
	}
}

// LeaderboardEntryDTO представляет одного пользователя в лидерборде
type LeaderboardEntryDTO struct {
	Rank         int     `json:"rank"`          // Место пользователя в рейтинге
	UserID       uint    `json:"user_id"`       // ID пользователя
	Username     string  `json:"username"`      // Имя пользователя
	TotalPoints  int64   `json:"total_points"`  // Суммарные очки за все игры
	Wins         int64   `json:"wins"`          // Количество побед
	TotalGames   int64   `json:"total_games"`   // Количество сыгранных игр
	AverageScore float64 `json:"average_score"` // Средний счет за игру
}

// PaginatedLeaderboardResponse представляет пагинированный ответ для лидерборда
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardEntryDTO `json:"users"`    // Список пользователей на странице
	Total   int64                  `json:"total"`    // Общее количество пользователей в лидерборде
	Page    int                    `json:"page"`     // Текущая страница
	PerPage int                    `json:"per_page"` // Количество пользователей на странице
}

// NewPaginatedLeaderboardResponse строит страницу лидерборда; ранги
// сквозные относительно всего рейтинга
func NewPaginatedLeaderboardResponse(users []entity.User, total int64, page, perPage int) *PaginatedLeaderboardResponse {
	entries := make([]*LeaderboardEntryDTO, len(users))
	for i := range users {
		entries[i] = &LeaderboardEntryDTO{
			Rank:         (page-1)*perPage + i + 1,
			UserID:       users[i].ID,
			Username:     users[i].Username,
			TotalPoints:  users[i].TotalPoints,
			Wins:         users[i].Wins,
			TotalGames:   users[i].TotalGames,
			AverageScore: users[i].AverageScore,
		}
	}
	return &PaginatedLeaderboardResponse{
		Users:   entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
