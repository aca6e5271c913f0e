package repository

import "errors"

// ErrVersionConflict возвращается GameRepository.UpdateWithVersion, когда
// строка сессии была конкурентно изменена между чтением и записью.
// Транзиентная ошибка: вызывающий повторяет цикл чтение-модификация-запись
// ограниченное число раз.
var ErrVersionConflict = errors.New("game session version conflict")
