package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Статусы игровой сессии. Жизненный цикл строго однонаправленный:
// waiting -> active -> finished. Возврат из finished невозможен.
const (
	GameStatusWaiting  = "waiting"
	GameStatusActive   = "active"
	GameStatusFinished = "finished"
)

// DefaultMaxPlayers — размер комнаты по умолчанию
const DefaultMaxPlayers = 4

// PlayerInGame представляет участника в рамках одной сессии.
// Мутируется только обработчиком хода владеющей сессии.
type PlayerInGame struct {
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username"`
	Score      int        `json:"score"`
	Position   int        `json:"position"`
	Color      string     `json:"color"`
	LastAnswer *time.Time `json:"last_answer"`
}

// PlayerList - пользовательский тип для хранения состава игроков как JSONB
type PlayerList []PlayerInGame

// Scan реализует интерфейс sql.Scanner для PlayerList
func (p *PlayerList) Scan(value interface{}) error {
	if value == nil {
		*p = PlayerList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*p = PlayerList{}
		return nil
	}
	return json.Unmarshal(bytes, p)
}

// Value реализует интерфейс driver.Valuer для PlayerList
func (p PlayerList) Value() (driver.Value, error) {
	if p == nil || len(p) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// QuestionFilters описывает фильтры каталога вопросов для сессии.
// Пустые множества означают отсутствие ограничения.
type QuestionFilters struct {
	Categories   []string `json:"categories,omitempty"`
	Difficulties []string `json:"difficulties,omitempty"`
}

// Scan реализует интерфейс sql.Scanner для QuestionFilters
func (f *QuestionFilters) Scan(value interface{}) error {
	if value == nil {
		*f = QuestionFilters{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*f = QuestionFilters{}
		return nil
	}
	return json.Unmarshal(bytes, f)
}

// Value реализует интерфейс driver.Valuer для QuestionFilters
func (f QuestionFilters) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// CurrentQuestionSlot хранит текущий вопрос сессии вместе с временем его
// выдачи. Пустой слот сериализуется в NULL.
type CurrentQuestionSlot struct {
	Question Question  `json:"question"`
	IssuedAt time.Time `json:"issued_at"`
}

// Empty проверяет, что слот не содержит вопроса
func (s CurrentQuestionSlot) Empty() bool {
	return s.Question.ID == 0
}

// Scan реализует интерфейс sql.Scanner для CurrentQuestionSlot
func (s *CurrentQuestionSlot) Scan(value interface{}) error {
	if value == nil {
		*s = CurrentQuestionSlot{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*s = CurrentQuestionSlot{}
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Value реализует интерфейс driver.Valuer для CurrentQuestionSlot
func (s CurrentQuestionSlot) Value() (driver.Value, error) {
	if s.Empty() {
		return nil, nil
	}
	return json.Marshal(s)
}

// GameSession представляет одну партию настольной викторины: агрегат с
// собственным составом игроков, полем и потоком вопросов. Обновляется
// целиком через оптимистичную блокировку по колонке version (см. GameRepo).
type GameSession struct {
	ID              uint                `gorm:"primaryKey" json:"-"`
	GameID          string              `gorm:"size:36;not null;uniqueIndex" json:"game_id"`
	CreatorID       uint                `gorm:"not null;index" json:"creator_id"`
	Status          string              `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	BoardConfig     BoardConfig         `gorm:"type:jsonb;not null" json:"board_config"`
	QuestionFilters QuestionFilters     `gorm:"type:jsonb;not null" json:"question_filters"`
	MaxPlayers      int                 `gorm:"not null;default:4" json:"max_players"`
	Players         PlayerList          `gorm:"type:jsonb;not null" json:"players"`
	CurrentQuestion CurrentQuestionSlot `gorm:"type:jsonb" json:"-"`
	StatsRecorded   bool                `gorm:"not null;default:false" json:"-"`
	Version         int64               `gorm:"not null;default:0" json:"-"`
	CreatedAt       time.Time           `json:"created_at"`
	StartedAt       *time.Time          `json:"started_at"`
	FinishedAt      *time.Time          `json:"finished_at"`
	UpdatedAt       time.Time           `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (GameSession) TableName() string {
	return "game_sessions"
}

// IsWaiting проверяет, принимает ли сессия новых игроков
func (g *GameSession) IsWaiting() bool {
	return g.Status == GameStatusWaiting
}

// IsActive проверяет, идет ли игра
func (g *GameSession) IsActive() bool {
	return g.Status == GameStatusActive
}

// IsFinished проверяет, завершена ли игра
func (g *GameSession) IsFinished() bool {
	return g.Status == GameStatusFinished
}

// IsFull проверяет, заполнена ли комната
func (g *GameSession) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// HasPlayer проверяет, есть ли пользователь в составе сессии
func (g *GameSession) HasPlayer(userID uint) bool {
	return g.FindPlayer(userID) != nil
}

// Ошибки изменения состава сессии. Сервисный слой транслирует их в
// ошибки уровня API.
var (
	ErrGameNotJoinable = errors.New("game is not accepting new players")
	ErrGameFull        = errors.New("game is full")
	ErrAlreadyJoined   = errors.New("player is already in the game")
)

// AddPlayer добавляет участника в состав. Разрешено только в статусе
// waiting, без дубликатов и в пределах вместимости комнаты.
func (g *GameSession) AddPlayer(p PlayerInGame) error {
	if !g.IsWaiting() {
		return ErrGameNotJoinable
	}
	if g.HasPlayer(p.UserID) {
		return ErrAlreadyJoined
	}
	if g.IsFull() {
		return ErrGameFull
	}
	g.Players = append(g.Players, p)
	return nil
}

// FindPlayer возвращает указатель на запись участника для мутации на месте.
// Поиск по user_id, а не по позиционному индексу, чтобы исключить ошибки
// устаревших индексов при конкурентных присоединениях.
func (g *GameSession) FindPlayer(userID uint) *PlayerInGame {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return &g.Players[i]
		}
	}
	return nil
}

// Activate переводит сессию в статус active при выдаче первого вопроса
func (g *GameSession) Activate(now time.Time) {
	g.Status = GameStatusActive
	g.StartedAt = &now
}

// Winner возвращает игрока, достигшего финишной клетки, или nil
func (g *GameSession) Winner() *PlayerInGame {
	for i := range g.Players {
		if g.Players[i].Position >= g.BoardConfig.Cells {
			return &g.Players[i]
		}
	}
	return nil
}

// Finish переводит сессию в терминальный статус finished.
// После этого состав и позиции игроков неизменяемы.
func (g *GameSession) Finish(now time.Time) {
	g.Status = GameStatusFinished
	g.FinishedAt = &now
	g.CurrentQuestion = CurrentQuestionSlot{}
}

// BoardCell описывает одну клетку производного состояния поля
type BoardCell struct {
	Position int    `json:"position"`
	Type     string `json:"type"`
	Players  []uint `json:"players"`
}

// BoardState строит производное состояние поля: тип каждой клетки
// и user_id игроков, занимающих ее.
func (g *GameSession) BoardState() []BoardCell {
	state := make([]BoardCell, 0, g.BoardConfig.Cells)
	for i := 0; i < g.BoardConfig.Cells; i++ {
		cell := BoardCell{
			Position: i,
			Type:     g.BoardConfig.CellType(i),
			Players:  []uint{},
		}
		for _, p := range g.Players {
			if p.Position == i {
				cell.Players = append(cell.Players, p.UserID)
			}
		}
		state = append(state, cell)
	}
	return state
}
