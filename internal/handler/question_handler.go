package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/triviago-api/internal/handler/dto"
	"github.com/yourusername/triviago-api/internal/service"
)

// Лимит размера импортируемого файла с вопросами
const maxImportFileSize = 10 << 20 // 10 MiB

// QuestionHandler обрабатывает запросы каталога вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// CreateQuestion создает один вопрос
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.ToEntity()
	if err := h.questionService.CreateQuestion(question); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question))
}

// ListQuestions возвращает случайную подборку вопросов по фильтрам.
// Фильтры передаются повторяющимися query-параметрами category и difficulty.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	questions, err := h.questionService.ListQuestions(
		c.QueryArray("category"),
		c.QueryArray("difficulty"),
		limit,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionListResponse(questions))
}

// ImportQuestions загружает вопросы пакетом из CSV- или XLSX-файла
// (multipart-поле file)
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if fileHeader.Size > maxImportFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is too large"})
		return
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	count, err := h.questionService.ImportQuestions(file, format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ImportResultResponse{Imported: count})
}
