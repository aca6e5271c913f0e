package gamemanager

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/yourusername/triviago-api/internal/domain/repository"
)

// Constants for default values
const (
	DefaultTurnLockTTL       = 5 * time.Second
	DefaultMaxUpdateAttempts = 3
	DefaultMaxRetries        = 3
)

// Config содержит настройки для компонентов игрового движка
type Config struct {
	// TurnLockTTL — время жизни межпроцессной блокировки хода в Redis.
	// Страховка на случай падения процесса с невыпущенной блокировкой.
	TurnLockTTL time.Duration

	// MaxUpdateAttempts — число попыток цикла чтение-модификация-запись
	// при конфликте версий строки сессии, после чего вызывающему
	// возвращается Conflict
	MaxUpdateAttempts int

	// MaxRetries — число повторов записи статистики одного участника
	MaxRetries int

	// RetryInterval — пауза между повторными попытками
	RetryInterval time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		TurnLockTTL:       DefaultTurnLockTTL,
		MaxUpdateAttempts: DefaultMaxUpdateAttempts,
		MaxRetries:        DefaultMaxRetries,
		RetryInterval:     100 * time.Millisecond,
	}
}

// EventSink определяет интерфейс для рассылки игровых событий подписчикам
// сессии (реализуется websocket.Manager)
type EventSink interface {
	BroadcastToGame(gameID string, eventType string, data interface{}) error
}

// Rand — инжектируемый источник случайности для выбора следующего вопроса
// и цвета игрока. В тестах подменяется детерминированной последовательностью.
type Rand interface {
	Intn(n int) int
}

// defaultRand использует потокобезопасный глобальный генератор math/rand
type defaultRand struct{}

func (defaultRand) Intn(n int) int { return rand.Intn(n) }

// NewDefaultRand возвращает источник случайности по умолчанию
func NewDefaultRand() Rand { return defaultRand{} }

// RandomColor возвращает случайный цвет игрока в формате #RRGGBB
func RandomColor(r Rand) string {
	return fmt.Sprintf("#%06x", r.Intn(0x1000000))
}

// Dependencies содержит зависимости игрового движка
type Dependencies struct {
	GameRepo     repository.GameRepository
	QuestionRepo repository.QuestionRepository
	UserRepo     repository.UserRepository
	CacheRepo    repository.CacheRepository
	EventSink    EventSink
	Rand         Rand
}
