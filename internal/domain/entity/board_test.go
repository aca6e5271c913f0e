package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardConfig_Advance_IncorrectNeverMoves(t *testing.T) {
	cfg := DefaultBoardConfig()

	// Неправильный ответ не двигает игрока и не меняет очки — с любой позиции
	for pos := 0; pos <= cfg.Cells; pos++ {
		newPos, adj := cfg.Advance(pos, false)
		assert.Equal(t, pos, newPos)
		assert.Equal(t, 0, adj)
	}
}

func TestBoardConfig_Advance_NormalCell(t *testing.T) {
	cfg := DefaultBoardConfig()

	// Позиция 0 -> 1: обычная клетка
	newPos, adj := cfg.Advance(0, true)
	assert.Equal(t, 1, newPos)
	assert.Equal(t, 0, adj)
}

func TestBoardConfig_Advance_BonusCell(t *testing.T) {
	cfg := DefaultBoardConfig()

	// Позиция 2 -> 3 (бонус) -> дополнительный шаг на 4, +5 очков
	newPos, adj := cfg.Advance(2, true)
	assert.Equal(t, 4, newPos)
	assert.Equal(t, 5, adj)
}

func TestBoardConfig_Advance_PenaltyCell(t *testing.T) {
	cfg := DefaultBoardConfig()

	// Позиция 4 -> 5 (штраф) -> откат на 4, -5 очков
	newPos, adj := cfg.Advance(4, true)
	assert.Equal(t, 4, newPos)
	assert.Equal(t, -5, adj)
}

func TestBoardConfig_Advance_PenaltyNeverBelowZero(t *testing.T) {
	cfg := BoardConfig{Cells: 10, PenaltyCells: []int{0, 1}}

	// Откат со штрафной клетки 1 ведет на 0, не в минус
	newPos, adj := cfg.Advance(0, true)
	assert.Equal(t, 0, newPos)
	assert.Equal(t, -5, adj)
}

func TestBoardConfig_Advance_WinCheckIsExternal(t *testing.T) {
	cfg := DefaultBoardConfig()

	// Advance не ограничивает позицию длиной трека: сравнение с Cells — забота вызывающего
	newPos, adj := cfg.Advance(19, true)
	assert.Equal(t, 20, newPos)
	assert.Equal(t, 0, adj)
	assert.GreaterOrEqual(t, newPos, cfg.Cells)
}

func TestBoardConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultBoardConfig().Validate())

	// Пересечение бонусных и штрафных клеток запрещено
	overlap := BoardConfig{Cells: 10, BonusCells: []int{3}, PenaltyCells: []int{3}}
	assert.Error(t, overlap.Validate())

	// Клетки за пределами поля запрещены
	outside := BoardConfig{Cells: 10, BonusCells: []int{10}}
	assert.Error(t, outside.Validate())

	negative := BoardConfig{Cells: 10, PenaltyCells: []int{-1}}
	assert.Error(t, negative.Validate())

	empty := BoardConfig{Cells: 0}
	assert.Error(t, empty.Validate())
}

func TestBoardConfig_CellType(t *testing.T) {
	cfg := DefaultBoardConfig()

	assert.Equal(t, CellTypeBonus, cfg.CellType(3))
	assert.Equal(t, CellTypePenalty, cfg.CellType(5))
	assert.Equal(t, CellTypeNormal, cfg.CellType(0))
}
