package postgres

import "gorm.io/gorm/clause"

// forUpdateClause возвращает выражение SELECT ... FOR UPDATE для блокировки
// строки на время транзакции чтения-модификации-записи
func forUpdateClause() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
