package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/domain/repository"
	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
	"github.com/yourusername/triviago-api/internal/service/gamemanager"
)

const maxListQuestions = 100

// QuestionService предоставляет методы для работы с каталогом вопросов
type QuestionService struct {
	questionRepo repository.QuestionRepository
	rand         gamemanager.Rand
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(questionRepo repository.QuestionRepository, rand gamemanager.Rand) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		rand:         rand,
	}
}

// CreateQuestion валидирует и сохраняет один вопрос
func (s *QuestionService) CreateQuestion(question *entity.Question) error {
	if err := validateQuestion(question); err != nil {
		return err
	}
	return s.questionRepo.Create(question)
}

// GetQuestionByID возвращает вопрос по ID
func (s *QuestionService) GetQuestionByID(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// ListQuestions возвращает до limit вопросов, удовлетворяющих фильтрам.
// Выборка равновероятна по всему множеству подходящих вопросов: сначала
// перемешивается весь результат, затем берется префикс.
func (s *QuestionService) ListQuestions(categories, difficulties []string, limit int) ([]entity.Question, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > maxListQuestions {
		limit = maxListQuestions
	}

	questions, err := s.questionRepo.Find(categories, difficulties)
	if err != nil {
		return nil, err
	}

	// Тасование Фишера-Йетса
	for i := len(questions) - 1; i > 0; i-- {
		j := s.rand.Intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}

	if len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// ImportQuestions загружает вопросы пакетом из CSV или XLSX.
// Ожидаемые колонки: category, difficulty, prompt, correct_answer,
// затем два и более вариантов ответа. Строка заголовка опциональна.
// Файл применяется целиком или не применяется вовсе.
func (s *QuestionService) ImportQuestions(r io.Reader, format string) (int, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(format) {
	case "csv":
		rows, err = readCSVRows(r)
	case "xlsx":
		rows, err = readXLSXRows(r)
	default:
		return 0, fmt.Errorf("%w: unsupported import format %q, expected csv or xlsx", apperrors.ErrValidation, format)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	questions := make([]entity.Question, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if isEmptyRow(row) {
			continue
		}

		q, err := parseQuestionRow(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		questions = append(questions, *q)
	}

	if len(questions) == 0 {
		return 0, fmt.Errorf("%w: file contains no questions", apperrors.ErrValidation)
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return 0, err
	}

	log.Printf("[QuestionService] Импортировано %d вопросов (%s)", len(questions), format)
	return len(questions), nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // число вариантов ответа в строках различается
	return reader.ReadAll()
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func parseQuestionRow(row []string) (*entity.Question, error) {
	if len(row) < 6 {
		return nil, fmt.Errorf("%w: expected at least 6 columns (category, difficulty, prompt, correct_answer, 2+ options), got %d", apperrors.ErrValidation, len(row))
	}

	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	options := make(entity.StringArray, 0, len(row)-4)
	for _, opt := range row[4:] {
		if opt != "" {
			options = append(options, opt)
		}
	}

	q := &entity.Question{
		Category:      row[0],
		Difficulty:    strings.ToLower(row[1]),
		Prompt:        row[2],
		CorrectAnswer: row[3],
		Options:       options,
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func validateQuestion(q *entity.Question) error {
	if q.Category == "" || q.Prompt == "" || q.CorrectAnswer == "" {
		return fmt.Errorf("%w: category, prompt and correct_answer are required", apperrors.ErrValidation)
	}
	switch q.Difficulty {
	case entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", apperrors.ErrValidation, q.Difficulty)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: a question needs at least 2 options", apperrors.ErrValidation)
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer must be one of the options", apperrors.ErrValidation)
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "category")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
