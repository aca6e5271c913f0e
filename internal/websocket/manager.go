package websocket

import (
	"encoding/json"
	"fmt"
)

// Event — конверт исходящего события для подписчиков игры
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Manager публикует игровые события в комнаты хаба.
// Реализует gamemanager.EventSink.
type Manager struct {
	hub *Hub
}

// NewManager создает новый менеджер событий
func NewManager(hub *Hub) *Manager {
	return &Manager{hub: hub}
}

// BroadcastToGame отправляет событие всем подписчикам игры
func (m *Manager) BroadcastToGame(gameID string, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	select {
	case m.hub.broadcast <- gameMessage{gameID: gameID, payload: payload}:
		return nil
	default:
		return fmt.Errorf("hub broadcast buffer is full, event %s for game %s dropped", eventType, gameID)
	}
}
