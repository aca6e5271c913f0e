package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	Increment(key string) (int64, error)
	Exists(key string) (bool, error)

	// SetNX устанавливает значение ключа, только если ключ не существует.
	// Используется как короткая межпроцессная блокировка хода в сессии.
	SetNX(key string, value interface{}, expiration time.Duration) (bool, error)
}
