package puzzle

import (
	"testing"

	game_constants "Palindra/constants/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blankState returns an empty board with full inventories and bonus cells
// pushed into one corner, far away from the cells the tests place on.
func blankState(t *testing.T) GameState {
	t.Helper()
	var st GameState
	st.Seed = "test"
	for r := range st.Grid {
		for c := range st.Grid[r] {
			st.Grid[r][c] = Empty
		}
	}
	for i := range st.Inventory {
		st.Inventory[i] = game_constants.BlocksPerColor
	}
	for i := range st.BonusCells {
		st.BonusCells[i] = Cell{Row: 10, Col: 6 + i}
	}
	return st
}

func TestCanPlaceValidation(t *testing.T) {
	st := blankState(t)

	assert.True(t, CanPlace(&st, 0, 0, 2))
	assert.False(t, CanPlace(&st, -1, 0, 2), "out of bounds row")
	assert.False(t, CanPlace(&st, 0, 11, 2), "out of bounds col")
	assert.False(t, CanPlace(&st, 0, 0, 5), "invalid color")
	assert.False(t, CanPlace(&st, 0, 0, -1), "invalid color")

	st.Grid[0][0] = 1
	assert.False(t, CanPlace(&st, 0, 0, 2), "occupied cell")

	st.Inventory[3] = 0
	assert.False(t, CanPlace(&st, 1, 1, 3), "exhausted inventory")
}

func TestApplyMoveAgreesWithCanPlace(t *testing.T) {
	st := blankState(t)
	st.Grid[2][2] = 0
	st.Grid[2][3] = 1
	st.Inventory[4] = 0

	for row := -1; row <= game_constants.GridSize; row++ {
		for col := -1; col <= game_constants.GridSize; col++ {
			for color := int8(-1); color <= int8(game_constants.ColorCount); color++ {
				_, _, ok := ApplyMove(st, row, col, color)
				assert.Equal(t, CanPlace(&st, row, col, color), ok,
					"disagreement at (%d,%d,%d)", row, col, color)
			}
		}
	}
}

func TestApplyMoveIsPure(t *testing.T) {
	st := blankState(t)
	before := st

	next, _, ok := ApplyMove(st, 4, 4, 1)
	require.True(t, ok)

	assert.Equal(t, before, st, "input state was mutated")
	assert.Equal(t, int8(1), next.Grid[4][4])
	assert.Equal(t, game_constants.BlocksPerColor-1, next.Inventory[1])
	assert.Equal(t, 1, next.Moves)
}

func TestRowPalindromeScoresItsLength(t *testing.T) {
	st := blankState(t)
	// [1, 0, _] -> place 1 at (0,2): segment [1,0,1]
	st.Grid[0][0] = 1
	st.Grid[0][1] = 0

	next, delta, ok := ApplyMove(st, 0, 2, 1)
	require.True(t, ok)
	assert.Equal(t, 3, delta)
	assert.Equal(t, 3, next.Score)
}

func TestNonPalindromeScoresZero(t *testing.T) {
	st := blankState(t)
	// [0, 1, _] -> place 2 at (0,2): segment [0,1,2]
	st.Grid[0][0] = 0
	st.Grid[0][1] = 1

	_, delta, ok := ApplyMove(st, 0, 2, 2)
	require.True(t, ok)
	assert.Equal(t, 0, delta)
}

func TestGapCompletionScoresExactlyThree(t *testing.T) {
	st := blankState(t)
	// [2, _, 2] -> place 2 in the gap: segment [2,2,2]
	st.Grid[3][4] = 2
	st.Grid[3][6] = 2

	_, delta, ok := ApplyMove(st, 3, 5, 2)
	require.True(t, ok)
	assert.Equal(t, 3, delta)
}

func TestBonusCellStacks(t *testing.T) {
	st := blankState(t)
	st.BonusCells[0] = Cell{Row: 0, Col: 1}
	st.Grid[0][0] = 1
	st.Grid[0][1] = 0

	_, delta, ok := ApplyMove(st, 0, 2, 1)
	require.True(t, ok)
	assert.Equal(t, 3+game_constants.BonusCellScore, delta)
}

func TestBonusAppliesOncePerSegment(t *testing.T) {
	st := blankState(t)
	st.BonusCells[0] = Cell{Row: 0, Col: 0}
	st.BonusCells[1] = Cell{Row: 0, Col: 1}
	st.Grid[0][0] = 1
	st.Grid[0][1] = 0

	_, delta, ok := ApplyMove(st, 0, 2, 1)
	require.True(t, ok)
	assert.Equal(t, 13, delta, "two bonus cells in one segment still add a single bonus")
}

func TestRowAndColumnScoreIndependently(t *testing.T) {
	st := blankState(t)
	// Row [3,3,_] and column [3,3,_] both completed by placing 3 at (2,2).
	st.Grid[2][0] = 3
	st.Grid[2][1] = 3
	st.Grid[0][2] = 3
	st.Grid[1][2] = 3

	_, delta, ok := ApplyMove(st, 2, 2, 3)
	require.True(t, ok)
	assert.Equal(t, 6, delta, "both axes score their own palindrome")
}

func TestFailingAxisDoesNotBlockOther(t *testing.T) {
	st := blankState(t)
	// Row would be [0,1,2] (no score); column is [4,4,4].
	st.Grid[5][0] = 0
	st.Grid[5][1] = 1
	st.Grid[3][2] = 4
	st.Grid[4][2] = 4

	_, delta, ok := ApplyMove(st, 5, 2, 4)
	require.True(t, ok)
	assert.Equal(t, 3, delta)
}

func TestScoreMonotonicity(t *testing.T) {
	st := NewGameState("monotonic")
	rng := NewRand("move-sequence")

	last := st.Score
	applied := 0
	for attempts := 0; attempts < 2000 && applied < 60; attempts++ {
		row := rng.Intn(game_constants.GridSize)
		col := rng.Intn(game_constants.GridSize)
		color := int8(rng.Intn(game_constants.ColorCount))

		next, _, ok := ApplyMove(st, row, col, color)
		if !ok {
			continue
		}
		applied++
		assert.GreaterOrEqual(t, next.Score, last)
		last = next.Score
		st = next
	}
	require.Greater(t, applied, 0, "no moves applied, test is vacuous")
}

func TestFindScoringMoveFindsFirstInScanOrder(t *testing.T) {
	st := blankState(t)
	st.Grid[0][0] = 2
	st.Grid[0][2] = 2

	move := FindScoringMove(&st, game_constants.MinPalindromeLength)
	require.NotNil(t, move)
	assert.Equal(t, &Move{Row: 0, Col: 1, Color: 0}, move, "color 0 also completes [2,0,2] and is tried first")

	// The suggested move must actually score.
	_, delta, ok := ApplyMove(st, move.Row, move.Col, move.Color)
	require.True(t, ok)
	assert.Greater(t, delta, 0)
}

func TestFindScoringMoveNilWhenNothingScores(t *testing.T) {
	st := blankState(t)
	move := FindScoringMove(&st, game_constants.MinPalindromeLength)
	assert.Nil(t, move, "empty board has no completable palindrome")
}
