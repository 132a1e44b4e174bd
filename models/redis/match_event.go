package redis

// Event kinds published on a match's notification channel. Consumers must NOT
// interpret them as diffs: any event just means "refetch the match". Delivery
// is best-effort; the poll backstop covers lost or reordered events.
const (
	EventMatchCreated    = "match_created"
	EventPlayerJoined    = "player_joined"
	EventPlayerLeft      = "player_left"
	EventLiveScore       = "live_score"
	EventScoreSubmitted  = "score_submitted"
	EventMatchFinished   = "match_finished"
	EventMatchCancelled  = "match_cancelled"
	EventChallenge       = "challenge"
	EventRematchRequest  = "rematch_request"
	EventRematchResolved = "rematch_resolved"
)

// MatchEvent is the envelope published on the per-match Redis channel.
type MatchEvent struct {
	MatchID string `json:"match_id"`
	Kind    string `json:"kind"`
	Actor   string `json:"actor,omitempty"`
	At      int64  `json:"at"` // Unix timestamp
}
