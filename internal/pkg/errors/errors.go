package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверные учетные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия
	// (например, попытка сделать ход в игре, участником которой он не является).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (двойное присоединение,
	// заполненная комната, исчерпанные попытки оптимистичной записи).
	ErrConflict = errors.New("resource state conflict")

	// ErrInvalidState используется, когда действие недопустимо для текущего
	// статуса игровой сессии (например, ответ в ожидающей или завершенной игре).
	ErrInvalidState = errors.New("invalid session state")
)
