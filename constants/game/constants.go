package game_constants

import "time"

// Board geometry. Both clients rebuild the same board from the match seed,
// so every constant here is part of the shared-determinism contract.
const GridSize = 11
const CenterIndex = GridSize / 2

const ColorCount = 5
const BlocksPerColor = 16

// Bonus cells
const BonusCellCount = 5
const BonusCellScore = 10

const MinPalindromeLength = 3

// Pre-placed cells, identical for every match. Their colors come from the
// seed generator, their positions never change.
var PrePlacedCells = [3][2]int{{3, 3}, {5, 5}, {7, 7}}

// Match coordination
const InviteCodeLength = 6
const InviteCodeMaxAttempts = 5
const DefaultTimeLimitSeconds = 180

// Poll backstop interval for the sync bridge. Push delivery is best-effort,
// the poll guarantees eventual convergence.
const SyncPollInterval = 2500 * time.Millisecond
