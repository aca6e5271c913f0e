package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту
	writeWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 512

	// Размер буфера канала отправки сообщений клиенту
	clientBufferSize = 128
)

// Client представляет одно WebSocket-соединение, подписанное на игру
type Client struct {
	UserID uint

	hub    *Hub
	gameID string
	conn   *websocket.Conn
	send   chan []byte
}

// NewClient создает клиента и регистрирует его в комнате игры
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, gameID string) *Client {
	client := &Client{
		UserID: userID,
		hub:    hub,
		gameID: gameID,
		conn:   conn,
		send:   make(chan []byte, clientBufferSize),
	}
	hub.register <- client
	return client
}

// Start запускает горутины чтения и записи соединения
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump читает входящие сообщения до разрыва соединения.
// Сервер не принимает команды по WebSocket: канал используется только
// для отдачи событий, чтение нужно для обработки pong и закрытия.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS Client] Неожиданный разрыв соединения пользователя #%d: %v", c.UserID, err)
			}
			return
		}
	}
}

// writePump пишет события из канала send и поддерживает соединение ping-ами
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Хаб закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
