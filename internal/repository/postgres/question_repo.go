package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает пакет вопросов
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Устанавливаем кодировку UTF-8 внутри транзакции
		if err := tx.Exec("SET CLIENT_ENCODING TO 'UTF8'").Error; err != nil {
			return err
		}
		return tx.Create(&questions).Error
	})
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// Find возвращает вопросы, удовлетворяющие фильтрам по категориям и сложностям.
// Пустые срезы не ограничивают выборку.
func (r *QuestionRepo) Find(categories, difficulties []string) ([]entity.Question, error) {
	query := r.db.Model(&entity.Question{})
	if len(categories) > 0 {
		query = query.Where("category IN ?", categories)
	}
	if len(difficulties) > 0 {
		query = query.Where("difficulty IN ?", difficulties)
	}

	var questions []entity.Question
	if err := query.Order("id").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
