package puzzle

import (
	game_constants "Palindra/constants/game"
)

// Move is a hypothetical or applied placement.
type Move struct {
	Row   int  `json:"row"`
	Col   int  `json:"col"`
	Color int8 `json:"color"`
}

// PalindromeResult is the outcome of checking the row and column segments
// through one placement.
type PalindromeResult struct {
	Score         int `json:"score"`
	SegmentLength int `json:"segment_length,omitempty"`
}

// CanPlace reports whether placing color at (row, col) is legal: coordinates
// in bounds, cell empty, color valid, inventory remaining.
func CanPlace(st *GameState, row, col int, color int8) bool {
	if row < 0 || row >= game_constants.GridSize || col < 0 || col >= game_constants.GridSize {
		return false
	}
	if color < 0 || int(color) >= game_constants.ColorCount {
		return false
	}
	if st.Grid[row][col] != Empty {
		return false
	}
	return st.Inventory[color] > 0
}

// ApplyMove validates and applies a placement, returning the successor state
// and the score gained. The input state is never mutated; an optimistic UI can
// keep the old state around and replay against the authoritative one.
func ApplyMove(st GameState, row, col int, color int8) (GameState, int, bool) {
	if !CanPlace(&st, row, col, color) {
		return st, 0, false
	}

	st.Grid[row][col] = color
	st.Inventory[color]--
	st.Moves++

	result := CheckPalindromes(&st.Grid, row, col, st.BonusCells[:], game_constants.MinPalindromeLength)
	st.Score += result.Score

	return st, result.Score, true
}

// CheckPalindromes scores the move at (row, col): for the row and the column
// independently, take the maximal contiguous filled segment containing the
// cell; a segment of length >= minLength whose color sequence reads the same
// reversed contributes its length, plus the bonus when any of its cells is a
// bonus cell. Row and column score independently; there is no credit for
// sub-segments.
func CheckPalindromes(grid *[game_constants.GridSize][game_constants.GridSize]int8,
	row, col int, bonusCells []Cell, minLength int) PalindromeResult {

	var res PalindromeResult

	score, length := scoreSegment(grid, row, col, 0, 1, bonusCells, minLength)
	if score > 0 {
		res.Score += score
		res.SegmentLength = length
	}

	score, length = scoreSegment(grid, row, col, 1, 0, bonusCells, minLength)
	if score > 0 {
		res.Score += score
		if length > res.SegmentLength {
			res.SegmentLength = length
		}
	}

	return res
}

// scoreSegment walks outward from (row, col) along one axis (dr, dc) while
// cells are filled, then scores the resulting segment.
func scoreSegment(grid *[game_constants.GridSize][game_constants.GridSize]int8,
	row, col, dr, dc int, bonusCells []Cell, minLength int) (int, int) {

	startR, startC := row, col
	for inBounds(startR-dr, startC-dc) && grid[startR-dr][startC-dc] != Empty {
		startR -= dr
		startC -= dc
	}
	endR, endC := row, col
	for inBounds(endR+dr, endC+dc) && grid[endR+dr][endC+dc] != Empty {
		endR += dr
		endC += dc
	}

	var colors []int8
	var cells []Cell
	for r, c := startR, startC; ; r, c = r+dr, c+dc {
		colors = append(colors, grid[r][c])
		cells = append(cells, Cell{Row: r, Col: c})
		if r == endR && c == endC {
			break
		}
	}

	if len(colors) < minLength || !isPalindrome(colors) {
		return 0, 0
	}

	score := len(colors)
	for _, cell := range cells {
		if containsCell(bonusCells, cell) {
			score += game_constants.BonusCellScore
			break
		}
	}
	return score, len(colors)
}

func inBounds(row, col int) bool {
	return row >= 0 && row < game_constants.GridSize && col >= 0 && col < game_constants.GridSize
}

func isPalindrome(colors []int8) bool {
	for i, j := 0, len(colors)-1; i < j; i, j = i+1, j-1 {
		if colors[i] != colors[j] {
			return false
		}
	}
	return true
}

func containsCell(cells []Cell, target Cell) bool {
	for _, c := range cells {
		if c == target {
			return true
		}
	}
	return false
}

// FindScoringMove scans empty cells row-major, colors ascending, and returns
// the first hypothetical placement that would score. Used for hints; the
// tie-break is scan order, not best score. Returns nil when no move scores.
func FindScoringMove(st *GameState, minLength int) *Move {
	for row := 0; row < game_constants.GridSize; row++ {
		for col := 0; col < game_constants.GridSize; col++ {
			if st.Grid[row][col] != Empty {
				continue
			}
			for color := int8(0); int(color) < game_constants.ColorCount; color++ {
				if st.Inventory[color] <= 0 {
					continue
				}
				grid := st.Grid
				grid[row][col] = color
				result := CheckPalindromes(&grid, row, col, st.BonusCells[:], minLength)
				if result.Score > 0 {
					return &Move{Row: row, Col: col, Color: color}
				}
			}
		}
	}
	return nil
}
