package match

import (
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	game_constants "Palindra/constants/game"
	"Palindra/models/postgres"
	redis_models "Palindra/models/redis"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// createMatch inserts a waiting match with its creator as sole player.
// ID and seed come from the model's BeforeCreate hook.
func createMatch(tx *gorm.DB, username string, mode postgres.MatchMode, inviteCode *string) (*postgres.Match, error) {
	m := postgres.Match{
		Status:     postgres.MatchWaiting,
		Mode:       mode,
		InviteCode: inviteCode,
	}
	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}

	player := postgres.MatchPlayer{MatchID: m.ID, Username: username}
	if err := tx.Create(&player).Error; err != nil {
		return nil, err
	}
	m.Players = []postgres.MatchPlayer{player}
	return &m, nil
}

// addSecondPlayer joins a user to a waiting match and activates it.
// Callers must hold a row lock on the match.
func addSecondPlayer(tx *gorm.DB, m *postgres.Match, username string) error {
	player := postgres.MatchPlayer{MatchID: m.ID, Username: username}
	if err := tx.Create(&player).Error; err != nil {
		return err
	}

	now := time.Now()
	err := tx.Model(&postgres.Match{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"status":     postgres.MatchActive,
			"started_at": now,
		}).Error
	if err != nil {
		return err
	}
	m.Status = postgres.MatchActive
	m.StartedAt = &now
	m.Players = append(m.Players, player)
	return nil
}

// CreateQuickMatch opens a waiting quick match with the caller as its only
// player. Most callers want ClaimQuickMatch instead, which joins an existing
// waiting match when one exists.
func (s *Service) CreateQuickMatch(username string) (*postgres.Match, error) {
	var m *postgres.Match
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		m, err = createMatch(tx, username, postgres.ModeQuick, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notify(m.ID, redis_models.EventMatchCreated, username)
	return m, nil
}

// isUniqueViolation reports whether err is the backend's duplicate-key error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// pgx wraps the SQLSTATE differently depending on protocol mode
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}

// CreateInviteMatch opens a waiting match guarded by a fresh 6-character
// code. Code collisions surface as unique-index violations and are retried
// transparently up to a bounded attempt count.
func (s *Service) CreateInviteMatch(username string) (*postgres.Match, error) {
	for attempt := 0; attempt < game_constants.InviteCodeMaxAttempts; attempt++ {
		code := GenerateInviteCode()

		var m *postgres.Match
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			m, err = createMatch(tx, username, postgres.ModeInvite, &code)
			return err
		})
		if err == nil {
			s.notify(m.ID, redis_models.EventMatchCreated, username)
			return m, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		log.Printf("[INVITE] code collision on %q, retrying (%d/%d)",
			code, attempt+1, game_constants.InviteCodeMaxAttempts)
	}
	return nil, ErrInviteCodeExhausted
}

// ClaimQuickMatch is the one operation that needs true backend atomicity:
// in a single serializable transaction it either joins the oldest waiting
// quick match created by somebody else, or opens a new one. The row lock
// (SKIP LOCKED) guarantees two concurrent claimers never both become the
// second player of the same match, and serializable isolation closes the
// race between one caller creating and another claiming.
func (s *Service) ClaimQuickMatch(username string) (*postgres.Match, bool, error) {
	var claimed *postgres.Match
	joined := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m postgres.Match
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND mode = ?", postgres.MatchWaiting, postgres.ModeQuick).
			Where("id IN (SELECT match_id FROM match_players GROUP BY match_id HAVING COUNT(*) = 1)").
			Where("id NOT IN (SELECT match_id FROM match_players WHERE username = ?)", username).
			Order("created_at ASC").
			First(&m).Error

		if err == nil {
			if err := tx.Where("match_id = ?", m.ID).Find(&m.Players).Error; err != nil {
				return err
			}
			if err := addSecondPlayer(tx, &m, username); err != nil {
				return err
			}
			claimed = &m
			joined = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		claimed, err = createMatch(tx, username, postgres.ModeQuick, nil)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		return nil, false, err
	}

	if joined {
		s.notify(claimed.ID, redis_models.EventPlayerJoined, username)
	} else {
		s.notify(claimed.ID, redis_models.EventMatchCreated, username)
	}
	return claimed, joined, nil
}

// JoinByInviteCode joins the waiting match identified by code. Joining a
// match the caller already belongs to is idempotent; anything else that does
// not resolve to a waiting match is "Invalid or expired invite code".
func (s *Service) JoinByInviteCode(username, code string) (*postgres.Match, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != game_constants.InviteCodeLength {
		return nil, ErrInvalidInviteCode
	}

	var joinedMatch *postgres.Match
	alreadyIn := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m postgres.Match
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("invite_code = ? AND status = ?", code, postgres.MatchWaiting).
			First(&m).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidInviteCode
			}
			return err
		}

		if err := tx.Where("match_id = ?", m.ID).Find(&m.Players).Error; err != nil {
			return err
		}
		for _, p := range m.Players {
			if p.Username == username {
				joinedMatch = &m
				alreadyIn = true
				return nil
			}
		}
		if len(m.Players) >= 2 {
			return ErrInvalidInviteCode
		}

		if err := addSecondPlayer(tx, &m, username); err != nil {
			return err
		}
		joinedMatch = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyIn {
		s.notify(joinedMatch.ID, redis_models.EventPlayerJoined, username)
	}
	return joinedMatch, nil
}

// LeaveMatch removes the caller from a waiting match and cancels it. Leaving
// an active match is rejected: what a half-abandoned active match should look
// like is an open product question, and guessing here would corrupt the
// status lifecycle.
func (s *Service) LeaveMatch(username, matchID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m postgres.Match
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", matchID).First(&m).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if m.Status != postgres.MatchWaiting {
			return ErrMatchNotJoinable
		}

		res := tx.Where("match_id = ? AND username = ?", matchID, username).
			Delete(&postgres.MatchPlayer{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotAParticipant
		}

		return tx.Model(&postgres.Match{}).Where("id = ?", matchID).
			Update("status", postgres.MatchCancelled).Error
	})
	if err != nil {
		return err
	}

	s.notify(matchID, redis_models.EventMatchCancelled, username)
	return nil
}

// UpdateLiveScore overwrites the caller's in-progress score. Purely for the
// opponent's display: it never affects the final outcome and is rejected once
// the caller has submitted.
func (s *Service) UpdateLiveScore(matchID, username string, score int) error {
	var player postgres.MatchPlayer
	err := s.db.Where("match_id = ? AND username = ?", matchID, username).
		First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m, gerr := s.GetMatch(matchID)
			if gerr != nil {
				return gerr
			}
			if m == nil {
				return ErrMatchNotFound
			}
			return ErrNotAParticipant
		}
		return err
	}
	if player.Submitted() {
		return ErrAlreadySubmitted
	}

	err = s.db.Model(&postgres.MatchPlayer{}).
		Where("match_id = ? AND username = ?", matchID, username).
		Update("score", score).Error
	if err != nil {
		return err
	}

	s.cacheLiveScore(matchID, username, score)
	s.notify(matchID, redis_models.EventLiveScore, username)
	return nil
}

// SubmitScore records the caller's final score. Idempotent: once a player's
// submission timestamp is set, later submits (whatever the value) change
// nothing. When the last player submits, the outcome is computed: strictly
// greater score wins, equal scores leave both winner flags false.
func (s *Service) SubmitScore(matchID, username string, score int) (*postgres.Match, error) {
	finished := false
	var result *postgres.Match

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m postgres.Match
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", matchID).First(&m).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if m.Status != postgres.MatchActive {
			return ErrMatchNotActive
		}

		var players []postgres.MatchPlayer
		if err := tx.Where("match_id = ?", matchID).Find(&players).Error; err != nil {
			return err
		}

		var caller *postgres.MatchPlayer
		for i := range players {
			if players[i].Username == username {
				caller = &players[i]
			}
		}
		if caller == nil {
			return ErrNotAParticipant
		}
		if caller.Submitted() {
			// first submit wins, this one is a no-op
			m.Players = players
			result = &m
			return nil
		}

		now := time.Now()
		err = tx.Model(&postgres.MatchPlayer{}).
			Where("match_id = ? AND username = ?", matchID, username).
			Updates(map[string]interface{}{"score": score, "submitted_at": now}).Error
		if err != nil {
			return err
		}
		caller.Score = &score
		caller.SubmittedAt = &now

		allSubmitted := true
		for i := range players {
			if !players[i].Submitted() {
				allSubmitted = false
				break
			}
		}

		if allSubmitted && len(players) == 2 {
			if err := finishMatch(tx, &m, players); err != nil {
				return err
			}
			finished = true
		}

		m.Players = players
		result = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if finished {
		s.cleanupFinished(result)
		s.notify(matchID, redis_models.EventMatchFinished, username)
	} else {
		s.notify(matchID, redis_models.EventScoreSubmitted, username)
	}
	return result, nil
}

// finishMatch computes winner flags and closes the match. Equal final scores
// mark neither player as winner; there is no separate draw signal.
func finishMatch(tx *gorm.DB, m *postgres.Match, players []postgres.MatchPlayer) error {
	a, b := players[0], players[1]
	scoreA, scoreB := 0, 0
	if a.Score != nil {
		scoreA = *a.Score
	}
	if b.Score != nil {
		scoreB = *b.Score
	}

	var winner string
	switch {
	case scoreA > scoreB:
		winner = a.Username
	case scoreB > scoreA:
		winner = b.Username
	}

	if winner != "" {
		err := tx.Model(&postgres.MatchPlayer{}).
			Where("match_id = ? AND username = ?", m.ID, winner).
			Update("winner", true).Error
		if err != nil {
			return err
		}
		for i := range players {
			if players[i].Username == winner {
				players[i].Winner = true
			}
		}
	}

	now := time.Now()
	err := tx.Model(&postgres.Match{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"status":      postgres.MatchFinished,
			"finished_at": now,
		}).Error
	if err != nil {
		return err
	}
	m.Status = postgres.MatchFinished
	m.FinishedAt = &now
	return nil
}

// cleanupFinished drops the Redis hot keys of a finished match.
func (s *Service) cleanupFinished(m *postgres.Match) {
	if s.redis == nil {
		return
	}
	usernames := make([]string, 0, len(m.Players))
	for _, p := range m.Players {
		usernames = append(usernames, p.Username)
	}
	if err := s.redis.DeleteLiveScores(m.ID, usernames); err != nil {
		log.Printf("[CLEANUP] error deleting live scores for match %s: %v", m.ID, err)
	}
}
