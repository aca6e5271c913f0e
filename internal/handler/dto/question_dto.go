package dto

import (
	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/handler/helper"
)

// CreateQuestionRequest — запрос на создание одного вопроса
type CreateQuestionRequest struct {
	Category      string   `json:"category" binding:"required"`
	Difficulty    string   `json:"difficulty" binding:"required"`
	Prompt        string   `json:"prompt" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
}

// ToEntity преобразует запрос в доменную сущность
func (r *CreateQuestionRequest) ToEntity() *entity.Question {
	return &entity.Question{
		Category:      r.Category,
		Difficulty:    r.Difficulty,
		Prompt:        r.Prompt,
		Options:       entity.StringArray(r.Options),
		CorrectAnswer: r.CorrectAnswer,
	}
}

// QuestionResponse представляет вопрос в ответах API.
// Правильный ответ никогда не попадает в ответ.
type QuestionResponse struct {
	ID         uint                    `json:"id"`
	Category   string                  `json:"category"`
	Difficulty string                  `json:"difficulty"`
	Prompt     string                  `json:"prompt"`
	Options    []helper.QuestionOption `json:"options"`
	BasePoints int                     `json:"base_points"`
}

// NewQuestionResponse строит публичное представление вопроса
func NewQuestionResponse(q *entity.Question) *QuestionResponse {
	return &QuestionResponse{
		ID:         q.ID,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Prompt:     q.Prompt,
		Options:    helper.ConvertOptionsToObjects(q.Options),
		BasePoints: q.BasePoints(),
	}
}

// NewQuestionListResponse строит список публичных представлений
func NewQuestionListResponse(questions []entity.Question) []*QuestionResponse {
	result := make([]*QuestionResponse, len(questions))
	for i := range questions {
		result[i] = NewQuestionResponse(&questions[i])
	}
	return result
}

// ImportResultResponse — итог пакетного импорта вопросов
type ImportResultResponse struct {
	Imported int `json:"imported"`
}
