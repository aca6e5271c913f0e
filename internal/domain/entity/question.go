package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"
)

// Уровни сложности вопроса
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// SpeedBonusWindowSec — окно (в секундах), внутри которого начисляется бонус за скорость
const SpeedBonusWindowSec = 5.0

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос викторины в каталоге.
// Вопросы неизменяемы после сохранения и принадлежат каталогу.
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Category      string      `gorm:"size:50;not null;index" json:"category"`
	Difficulty    string      `gorm:"size:20;not null;index" json:"difficulty"` // easy, medium, hard
	Prompt        string      `gorm:"size:500;not null" json:"prompt"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer string      `gorm:"size:255;not null" json:"-"` // Скрыто от клиента
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, совпадает ли переданный ответ с правильным
func (q *Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// BasePoints возвращает базовые очки за правильный ответ по сложности.
// Неизвестная сложность трактуется как easy.
func (q *Question) BasePoints() int {
	switch q.Difficulty {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 20
	case DifficultyHard:
		return 30
	default:
		return 10
	}
}

// CalculatePoints рассчитывает очки за ответ на вопрос.
// Неправильный ответ всегда дает 0. Правильный — базовые очки по сложности
// плюс бонус за скорость floor((5 - elapsed) * 2), если время ответа известно
// и меньше пяти секунд. elapsedSec == nil означает, что у сессии не было
// активного вопроса с временем выдачи, и бонус не начисляется.
func (q *Question) CalculatePoints(isCorrect bool, elapsedSec *float64) int {
	if !isCorrect {
		return 0
	}

	points := q.BasePoints()

	if elapsedSec != nil && *elapsedSec < SpeedBonusWindowSec {
		points += int(math.Floor((SpeedBonusWindowSec - *elapsedSec) * 2))
	}

	return points
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}
