package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/triviago-api/internal/service"
	"github.com/yourusername/triviago-api/internal/websocket"
	"github.com/yourusername/triviago-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket соединения наблюдателей игровых сессий
type WSHandler struct {
	hub         *websocket.Hub
	gameService *service.GameService
	jwtService  *auth.JWTService
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *websocket.Hub, gameService *service.GameService, jwtService *auth.JWTService) *WSHandler {
	return &WSHandler{
		hub:         hub,
		gameService: gameService,
		jwtService:  jwtService,
	}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Браузер не позволяет ставить заголовки на WebSocket-рукопожатие,
		// пустой Origin означает небраузерного клиента
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		// Список разрешенных origin (синхронизирован с CORS в main.go)
		allowedOrigins := []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://localhost:8000",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("[WS] Отклонен неразрешенный origin: %s", origin)
		return false
	},
	EnableCompression: true,
}

// HandleConnection подключает пользователя к комнате игры.
// JWT передается query-параметром token: браузерный WebSocket API
// не умеет ставить заголовок Authorization.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "query parameter 'token' is required"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	gameID := c.MustGet("param_game_id").(string)
	if _, err := h.gameService.GetGame(gameID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		log.Printf("[WS] Ошибка рукопожатия для пользователя #%d: %v", claims.UserID, err)
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID, gameID)
	client.Start()
}
