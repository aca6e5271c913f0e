package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Типы клеток игрового поля
const (
	CellTypeNormal  = "normal"
	CellTypeBonus   = "bonus"
	CellTypePenalty = "penalty"
)

// Корректировки очков за попадание на специальные клетки
const (
	BonusCellAdjustment   = 5
	PenaltyCellAdjustment = -5
)

// BoardConfig описывает фиксированную раскладку игрового поля сессии:
// длину трека и множества бонусных/штрафных клеток. Неизменяема на
// протяжении жизни сессии. Хранится как JSONB в строке сессии.
type BoardConfig struct {
	Cells        int   `json:"cells"`
	BonusCells   []int `json:"bonus_cells"`
	PenaltyCells []int `json:"penalty_cells"`
}

// DefaultBoardConfig возвращает раскладку поля по умолчанию:
// 20 клеток, бонусные {3,7,12,17}, штрафные {2,5,9,15}.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Cells:        20,
		BonusCells:   []int{3, 7, 12, 17},
		PenaltyCells: []int{2, 5, 9, 15},
	}
}

// Scan реализует интерфейс sql.Scanner для BoardConfig
func (b *BoardConfig) Scan(value interface{}) error {
	if value == nil {
		*b = BoardConfig{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*b = BoardConfig{}
		return nil
	}
	return json.Unmarshal(bytes, b)
}

// Value реализует интерфейс driver.Valuer для BoardConfig
func (b BoardConfig) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Validate проверяет инварианты раскладки: позиции специальных клеток
// находятся в [0, cells), а множества бонусных и штрафных клеток не пересекаются.
func (b BoardConfig) Validate() error {
	if b.Cells <= 0 {
		return fmt.Errorf("board must have at least one cell, got %d", b.Cells)
	}

	bonus := make(map[int]bool, len(b.BonusCells))
	for _, pos := range b.BonusCells {
		if pos < 0 || pos >= b.Cells {
			return fmt.Errorf("bonus cell %d is outside the board [0, %d)", pos, b.Cells)
		}
		bonus[pos] = true
	}

	for _, pos := range b.PenaltyCells {
		if pos < 0 || pos >= b.Cells {
			return fmt.Errorf("penalty cell %d is outside the board [0, %d)", pos, b.Cells)
		}
		if bonus[pos] {
			return fmt.Errorf("cell %d cannot be both bonus and penalty", pos)
		}
	}

	return nil
}

// IsBonusCell проверяет, является ли позиция бонусной клеткой
func (b BoardConfig) IsBonusCell(position int) bool {
	for _, pos := range b.BonusCells {
		if pos == position {
			return true
		}
	}
	return false
}

// IsPenaltyCell проверяет, является ли позиция штрафной клеткой
func (b BoardConfig) IsPenaltyCell(position int) bool {
	for _, pos := range b.PenaltyCells {
		if pos == position {
			return true
		}
	}
	return false
}

// CellType возвращает тип клетки на позиции
func (b BoardConfig) CellType(position int) string {
	switch {
	case b.IsBonusCell(position):
		return CellTypeBonus
	case b.IsPenaltyCell(position):
		return CellTypePenalty
	default:
		return CellTypeNormal
	}
}

// Advance вычисляет новую позицию игрока и корректировку очков за клетку.
// Чистая функция без побочных эффектов. Неправильный ответ оставляет игрока
// на месте. Правильный продвигает на одну клетку; попадание на бонусную
// клетку двигает еще на одну вперед (+5 очков), на штрафную — на одну назад,
// но не ниже нуля (-5 очков). Проверка победы остается за вызывающим:
// он сравнивает результат с Cells. Клампинг суммарного счета игрока на нуле
// также выполняется вызывающим.
func (b BoardConfig) Advance(position int, isCorrect bool) (newPosition, cellAdjustment int) {
	if !isCorrect {
		return position, 0
	}

	tentative := position + 1

	switch {
	case b.IsBonusCell(tentative):
		return tentative + 1, BonusCellAdjustment
	case b.IsPenaltyCell(tentative):
		back := tentative - 1
		if back < 0 {
			back = 0
		}
		return back, PenaltyCellAdjustment
	default:
		return tentative, 0
	}
}
