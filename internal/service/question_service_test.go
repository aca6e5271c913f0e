package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
)

func newTestQuestionService(rand *seqRand) (*QuestionService, *MockQuestionRepository) {
	repo := new(MockQuestionRepository)
	if rand == nil {
		rand = &seqRand{}
	}
	return NewQuestionService(repo, rand), repo
}

func TestCreateQuestion_Valid(t *testing.T) {
	// Arrange
	s, repo := newTestQuestionService(nil)
	q := &entity.Question{
		Category:      "geography",
		Difficulty:    entity.DifficultyEasy,
		Prompt:        "Столица Франции?",
		Options:       entity.StringArray{"Париж", "Лион"},
		CorrectAnswer: "Париж",
	}
	repo.On("Create", q).Return(nil)

	// Act + Assert
	require.NoError(t, s.CreateQuestion(q))
	repo.AssertExpectations(t)
}

func TestCreateQuestion_ValidationErrors(t *testing.T) {
	s, repo := newTestQuestionService(nil)

	testCases := []struct {
		name     string
		question entity.Question
	}{
		{
			name: "неизвестная сложность",
			question: entity.Question{
				Category: "geo", Difficulty: "impossible", Prompt: "?",
				Options: entity.StringArray{"a", "b"}, CorrectAnswer: "a",
			},
		},
		{
			name: "правильный ответ вне вариантов",
			question: entity.Question{
				Category: "geo", Difficulty: entity.DifficultyEasy, Prompt: "?",
				Options: entity.StringArray{"a", "b"}, CorrectAnswer: "c",
			},
		},
		{
			name: "меньше двух вариантов",
			question: entity.Question{
				Category: "geo", Difficulty: entity.DifficultyEasy, Prompt: "?",
				Options: entity.StringArray{"a"}, CorrectAnswer: "a",
			},
		},
		{
			name: "пустой текст вопроса",
			question: entity.Question{
				Category: "geo", Difficulty: entity.DifficultyEasy,
				Options: entity.StringArray{"a", "b"}, CorrectAnswer: "a",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.question
			assert.ErrorIs(t, s.CreateQuestion(&q), apperrors.ErrValidation)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestListQuestions_ShufflesBeforeSlicing(t *testing.T) {
	// Arrange: детерминированная последовательность задает перестановку
	s, repo := newTestQuestionService(&seqRand{values: []int{2, 0, 1}})
	all := []entity.Question{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	repo.On("Find", []string(nil), []string(nil)).Return(all, nil)

	// Act
	result, err := s.ListQuestions(nil, nil, 2)

	// Assert: выбраны вопросы из всего множества, не только префикс
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.NotEqual(t, uint(0), result[0].ID)
	assert.NotEqual(t, result[0].ID, result[1].ID)
}

func TestListQuestions_LimitDefaultsAndClamps(t *testing.T) {
	s, repo := newTestQuestionService(nil)
	repo.On("Find", []string(nil), []string(nil)).Return([]entity.Question{{ID: 1}}, nil)

	result, err := s.ListQuestions(nil, nil, 0)

	require.NoError(t, err)
	assert.Len(t, result, 1)
}

const validCSV = `category,difficulty,prompt,correct_answer,option1,option2,option3
geography,easy,Столица Франции?,Париж,Париж,Лион,Марсель
history,medium,Год основания Рима?,753 до н.э.,753 до н.э.,509 до н.э.,27 до н.э.
`

func TestImportQuestions_CSV(t *testing.T) {
	// Arrange
	s, repo := newTestQuestionService(nil)
	repo.On("CreateBatch", mock.MatchedBy(func(qs []entity.Question) bool {
		return len(qs) == 2 &&
			qs[0].Category == "geography" &&
			qs[0].CorrectAnswer == "Париж" &&
			qs[1].Difficulty == entity.DifficultyMedium
	})).Return(nil)

	// Act
	count, err := s.ImportQuestions(strings.NewReader(validCSV), "csv")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	repo.AssertExpectations(t)
}

func TestImportQuestions_CSVBadRowRejectsWholeFile(t *testing.T) {
	// Arrange: вторая строка со сложностью вне словаря
	bad := `geography,easy,Столица Франции?,Париж,Париж,Лион
history,impossible,Год основания Рима?,753,753,509
`
	s, repo := newTestQuestionService(nil)

	// Act
	count, err := s.ImportQuestions(strings.NewReader(bad), "csv")

	// Assert
	assert.Zero(t, count)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "CreateBatch", mock.Anything)
}

func TestImportQuestions_XLSX(t *testing.T) {
	// Arrange: собираем книгу в памяти
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"category", "difficulty", "prompt", "correct_answer", "option1", "option2"},
		{"science", "hard", "Число Авогадро?", "6.02e23", "6.02e23", "3.14"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	s, repo := newTestQuestionService(nil)
	repo.On("CreateBatch", mock.MatchedBy(func(qs []entity.Question) bool {
		return len(qs) == 1 && qs[0].Difficulty == entity.DifficultyHard
	})).Return(nil)

	// Act
	count, err := s.ImportQuestions(bytes.NewReader(buf.Bytes()), "xlsx")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
}

func TestImportQuestions_UnsupportedFormat(t *testing.T) {
	s, _ := newTestQuestionService(nil)

	_, err := s.ImportQuestions(strings.NewReader(""), "pdf")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
