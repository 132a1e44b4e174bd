package match

import (
	"log"
	"time"

	"Palindra/models/postgres"
	redis_models "Palindra/models/redis"
	"Palindra/services/redis"

	"gorm.io/gorm"
)

// Notifier is the sync bridge seen from the match service. Implementations
// must treat every call as a "something changed, refetch" trigger; the
// service never describes the change itself.
type Notifier interface {
	MatchChanged(matchID, kind, actor string)
	NotifyUser(username, event string, payload interface{})
}

// Service implements the match lifecycle, the challenge flow and the rematch
// handshake. The database handle and the Redis client are injected; there is
// no package-level state.
type Service struct {
	db       *gorm.DB
	redis    *redis.RedisClient
	notifier Notifier
}

func NewService(db *gorm.DB, redisClient *redis.RedisClient) *Service {
	return &Service{db: db, redis: redisClient}
}

// SetNotifier wires the sync bridge after construction (the bridge needs the
// service for refetching, so the two cannot be built in one step).
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// notify fans a change out through the bridge. Nil-safe so the service can be
// tested without one.
func (s *Service) notify(matchID, kind, actor string) {
	if s.notifier != nil {
		s.notifier.MatchChanged(matchID, kind, actor)
	}
}

func (s *Service) notifyUser(username, event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.NotifyUser(username, event, payload)
	}
}

// Snapshot is the full match object handed to sync consumers. Live scores of
// players that have not submitted yet come from the Redis hot cache when it
// is fresher than the row.
type Snapshot struct {
	Match      *postgres.Match `json:"match"`
	LiveScores map[string]int  `json:"live_scores"`
}

// GetMatch returns a match with its players, or nil when the id is unknown.
// Missing matches are not an error.
func (s *Service) GetMatch(matchID string) (*postgres.Match, error) {
	var m postgres.Match
	err := s.db.Preload("Players").Where("id = ?", matchID).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetSnapshot assembles the refetch payload for the sync bridge.
func (s *Service) GetSnapshot(matchID string) (*Snapshot, error) {
	m, err := s.GetMatch(matchID)
	if err != nil || m == nil {
		return nil, err
	}

	snap := &Snapshot{Match: m, LiveScores: make(map[string]int, len(m.Players))}
	for _, p := range m.Players {
		if p.Score != nil {
			snap.LiveScores[p.Username] = *p.Score
		}
		if p.Submitted() || s.redis == nil {
			continue
		}
		live, err := s.redis.GetLiveScore(matchID, p.Username)
		if err != nil {
			log.Printf("[SNAPSHOT] live score lookup failed for %s: %v", p.Username, err)
			continue
		}
		if live != nil {
			snap.LiveScores[p.Username] = live.Score
		}
	}
	return snap, nil
}

// cacheLiveScore mirrors a live score into Redis, best effort.
func (s *Service) cacheLiveScore(matchID, username string, score int) {
	if s.redis == nil {
		return
	}
	err := s.redis.SaveLiveScore(&redis_models.LiveScore{
		MatchID:   matchID,
		Username:  username,
		Score:     score,
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		log.Printf("[LIVE-SCORE] redis cache write failed: %v", err)
	}
}
