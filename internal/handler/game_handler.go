package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/handler/dto"
	"github.com/yourusername/triviago-api/internal/service"
)

// GameHandler обрабатывает запросы игровых сессий
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик игровых сессий
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// CreateGame создает новую сессию; создатель становится первым участником
func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(userID, service.CreateGameInput{
		MaxPlayers:  req.MaxPlayers,
		BoardConfig: req.BoardConfig,
		Filters: entity.QuestionFilters{
			Categories:   req.Categories,
			Difficulties: req.Difficulties,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewGameResponse(game))
}

// ListGames возвращает открытые сессии (waiting и active)
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.ListOpenGames()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameListResponse(games))
}

// GetGame возвращает полное состояние сессии, включая раскладку поля
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.MustGet("param_game_id").(string)

	game, err := h.gameService.GetGame(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

// JoinGame добавляет аутентифицированного пользователя в сессию
func (h *GameHandler) JoinGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	gameID := c.MustGet("param_game_id").(string)

	game, err := h.gameService.JoinGame(gameID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

// StartGame выдает первый вопрос и запускает сессию
func (h *GameHandler) StartGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	gameID := c.MustGet("param_game_id").(string)

	game, err := h.gameService.StartGame(c.Request.Context(), gameID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

// PlayTurn обрабатывает ответ игрока на вопрос
func (h *GameHandler) PlayTurn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	gameID := c.MustGet("param_game_id").(string)

	var req dto.PlayTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gameService.PlayTurn(c.Request.Context(), gameID, userID, req.QuestionID, req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTurnResultResponse(result))
}
