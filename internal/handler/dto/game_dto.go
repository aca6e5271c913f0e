package dto

import (
	"time"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/service/gamemanager"
)

// CreateGameRequest — запрос на создание игровой сессии.
// Все поля опциональны: нулевые значения заменяются значениями по умолчанию.
type CreateGameRequest struct {
	MaxPlayers   int                 `json:"max_players"`
	BoardConfig  *entity.BoardConfig `json:"board_config"`
	Categories   []string            `json:"categories"`
	Difficulties []string            `json:"difficulties"`
}

// PlayTurnRequest — ответ игрока на вопрос
type PlayTurnRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// PlayerDTO представляет участника сессии в ответах API
type PlayerDTO struct {
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username"`
	Score      int        `json:"score"`
	Position   int        `json:"position"`
	Color      string     `json:"color"`
	LastAnswer *time.Time `json:"last_answer,omitempty"`
}

// GameResponse представляет игровую сессию в ответах API
type GameResponse struct {
	GameID          string                 `json:"game_id"`
	CreatorID       uint                   `json:"creator_id"`
	Status          string                 `json:"status"`
	MaxPlayers      int                    `json:"max_players"`
	Players         []PlayerDTO            `json:"players"`
	Board           []entity.BoardCell     `json:"board"`
	QuestionFilters entity.QuestionFilters `json:"question_filters"`
	CurrentQuestion *QuestionResponse      `json:"current_question"`
	CreatedAt       time.Time              `json:"created_at"`
	StartedAt       *time.Time             `json:"started_at,omitempty"`
	FinishedAt      *time.Time             `json:"finished_at,omitempty"`
}

// NewGameResponse строит полное представление сессии, включая производное
// состояние поля. Текущий вопрос отдается без правильного ответа.
func NewGameResponse(game *entity.GameSession) *GameResponse {
	players := make([]PlayerDTO, len(game.Players))
	for i, p := range game.Players {
		players[i] = PlayerDTO{
			UserID:     p.UserID,
			Username:   p.Username,
			Score:      p.Score,
			Position:   p.Position,
			Color:      p.Color,
			LastAnswer: p.LastAnswer,
		}
	}

	resp := &GameResponse{
		GameID:          game.GameID,
		CreatorID:       game.CreatorID,
		Status:          game.Status,
		MaxPlayers:      game.MaxPlayers,
		Players:         players,
		Board:           game.BoardState(),
		QuestionFilters: game.QuestionFilters,
		CreatedAt:       game.CreatedAt,
		StartedAt:       game.StartedAt,
		FinishedAt:      game.FinishedAt,
	}
	if !game.CurrentQuestion.Empty() {
		q := game.CurrentQuestion.Question
		resp.CurrentQuestion = NewQuestionResponse(&q)
	}
	return resp
}

// GameListItemDTO — краткое представление сессии в списках
type GameListItemDTO struct {
	GameID     string    `json:"game_id"`
	Status     string    `json:"status"`
	MaxPlayers int       `json:"max_players"`
	Players    int       `json:"players"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewGameListResponse строит список кратких представлений
func NewGameListResponse(games []entity.GameSession) []GameListItemDTO {
	result := make([]GameListItemDTO, len(games))
	for i := range games {
		result[i] = GameListItemDTO{
			GameID:     games[i].GameID,
			Status:     games[i].Status,
			MaxPlayers: games[i].MaxPlayers,
			Players:    len(games[i].Players),
			CreatedAt:  games[i].CreatedAt,
		}
	}
	return result
}

// TurnResultResponse — результат обработанного хода
type TurnResultResponse struct {
	Correct      bool              `json:"correct"`
	ScoreChange  int               `json:"score_change"`
	NewPosition  int               `json:"new_position"`
	NextQuestion *QuestionResponse `json:"next_question"`
	GameOver     bool              `json:"game_over"`
}

// NewTurnResultResponse строит ответ по итогу хода
func NewTurnResultResponse(result *gamemanager.TurnResult) *TurnResultResponse {
	resp := &TurnResultResponse{
		Correct:     result.Correct,
		ScoreChange: result.ScoreChange,
		NewPosition: result.NewPosition,
		GameOver:    result.GameOver,
	}
	if result.NextQuestion != nil {
		resp.NextQuestion = NewQuestionResponse(result.NextQuestion)
	}
	return resp
}
