package puzzle

import (
	game_constants "Palindra/constants/game"
)

// Empty marks an unfilled grid cell.
const Empty int8 = -1

// Cell is a (row, col) coordinate on the board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameState is the full board state of one player. It lives only in memory:
// the backend persists the seed and the derived score, never the grid.
// All fields are plain arrays so the state copies by value, which keeps
// ApplyMove pure.
type GameState struct {
	Seed       string
	Grid       [game_constants.GridSize][game_constants.GridSize]int8
	Inventory  [game_constants.ColorCount]int
	BonusCells [game_constants.BonusCellCount]Cell
	Score      int
	Moves      int
}

// reservedCells is the plus-shaped band at the grid's center that bonus cells
// may never occupy: the middle row between cols 2..8 and the middle column
// between rows 3..7 (11 cells in total).
var reservedCells = buildReservedBand()

func buildReservedBand() map[Cell]bool {
	band := make(map[Cell]bool, 11)
	for col := game_constants.CenterIndex - 3; col <= game_constants.CenterIndex+3; col++ {
		band[Cell{Row: game_constants.CenterIndex, Col: col}] = true
	}
	for row := game_constants.CenterIndex - 2; row <= game_constants.CenterIndex+2; row++ {
		band[Cell{Row: row, Col: game_constants.CenterIndex}] = true
	}
	return band
}

// IsReservedCell reports whether (row, col) belongs to the central band
// excluded from bonus-cell placement.
func IsReservedCell(row, col int) bool {
	return reservedCells[Cell{Row: row, Col: col}]
}

// NewGameState derives the initial board from a seed. Called independently on
// both clients of a match; for a fixed seed the result is always identical.
//
// Derivation order matters (it consumes the generator): first the 5 bonus
// cells by rejection sampling outside the reserved band, then the colors of
// the 3 pre-placed cells.
func NewGameState(seed string) GameState {
	rng := NewRand(seed)

	var st GameState
	st.Seed = seed
	for r := range st.Grid {
		for c := range st.Grid[r] {
			st.Grid[r][c] = Empty
		}
	}
	for i := range st.Inventory {
		st.Inventory[i] = game_constants.BlocksPerColor
	}

	// Bonus cells: keep sampling until 5 distinct, unreserved cells are found.
	picked := make(map[Cell]bool, game_constants.BonusCellCount)
	count := 0
	for count < game_constants.BonusCellCount {
		cell := Cell{
			Row: rng.Intn(game_constants.GridSize),
			Col: rng.Intn(game_constants.GridSize),
		}
		if picked[cell] || IsReservedCell(cell.Row, cell.Col) {
			continue
		}
		picked[cell] = true
		st.BonusCells[count] = cell
		count++
	}

	// Pre-placed cells: fixed positions, seed-drawn colors.
	for _, pos := range game_constants.PrePlacedCells {
		color := int8(rng.Intn(game_constants.ColorCount))
		st.Grid[pos[0]][pos[1]] = color
		st.Inventory[color]--
	}

	return st
}

// IsBonusCell reports whether (row, col) is one of the state's bonus cells.
func (st *GameState) IsBonusCell(row, col int) bool {
	for _, b := range st.BonusCells {
		if b.Row == row && b.Col == col {
			return true
		}
	}
	return false
}

// HasBlocksLeft reports whether any color still has inventory.
func HasBlocksLeft(st *GameState) bool {
	for _, n := range st.Inventory {
		if n > 0 {
			return true
		}
	}
	return false
}

// HasEmptyCell reports whether the board still has room for a move.
func HasEmptyCell(st *GameState) bool {
	for r := range st.Grid {
		for c := range st.Grid[r] {
			if st.Grid[r][c] == Empty {
				return true
			}
		}
	}
	return false
}
