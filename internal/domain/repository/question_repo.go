package repository

import (
	"github.com/yourusername/triviago-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с каталогом вопросов
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)

	// Find возвращает вопросы, удовлетворяющие фильтрам по категориям и
	// сложностям. Пустые срезы означают отсутствие ограничения.
	Find(categories, difficulties []string) ([]entity.Question, error)
}
