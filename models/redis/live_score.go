package redis

// LiveScore is the hot copy of a player's in-progress score. It exists so the
// opponent's display can refresh without hitting Postgres on every move; the
// durable value lives in match_players and wins on any disagreement.
type LiveScore struct {
	MatchID   string `json:"match_id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	UpdatedAt int64  `json:"updated_at"` // Unix timestamp
}
