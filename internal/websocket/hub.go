package websocket

import (
	"log"
	"sync/atomic"
)

// Hub ведет комнаты игровых сессий: какие клиенты подписаны на какую игру.
// Вся работа с картой комнат сериализована через каналы в Run.
type Hub struct {
	// Комнаты: game_id -> подписанные клиенты
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan gameMessage
	done       chan struct{}

	clientCount int64
}

type gameMessage struct {
	gameID  string
	payload []byte
}

// NewHub создает новый хаб комнат
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan gameMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run обрабатывает регистрацию, отключение и рассылку.
// Запускается одной горутиной из main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			room, ok := h.rooms[client.gameID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.gameID] = room
			}
			room[client] = true
			atomic.AddInt64(&h.clientCount, 1)
			log.Printf("[WS Hub] Пользователь #%d подключился к игре %s (%d в комнате)", client.UserID, client.gameID, len(room))

		case client := <-h.unregister:
			if room, ok := h.rooms[client.gameID]; ok {
				if room[client] {
					delete(room, client)
					close(client.send)
					atomic.AddInt64(&h.clientCount, -1)
					if len(room) == 0 {
						delete(h.rooms, client.gameID)
					}
				}
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.gameID] {
				select {
				case client.send <- msg.payload:
				default:
					// Медленный клиент: буфер полон, отключаем
					delete(h.rooms[msg.gameID], client)
					close(client.send)
					atomic.AddInt64(&h.clientCount, -1)
					log.Printf("[WS Hub] Отключен медленный клиент пользователя #%d (игра %s)", client.UserID, client.gameID)
				}
			}

		case <-h.done:
			for gameID, room := range h.rooms {
				for client := range room {
					close(client.send)
				}
				delete(h.rooms, gameID)
			}
			return
		}
	}
}

// Shutdown закрывает все комнаты и останавливает Run
func (h *Hub) Shutdown() {
	close(h.done)
}

// ClientCount возвращает текущее число подключенных клиентов
func (h *Hub) ClientCount() int64 {
	return atomic.LoadInt64(&h.clientCount)
}
