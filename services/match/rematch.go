package match

import (
	"database/sql"
	"errors"
	"time"

	"Palindra/models/postgres"
	redis_models "Palindra/models/redis"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RematchOutcome tells a requester what their "play again" click produced.
type RematchOutcome struct {
	// "requested" when the caller is now waiting for the opponent,
	// "matched" when the opponent had already asked and a new match exists.
	Status   string                   `json:"status"`
	Request  *postgres.RematchRequest `json:"request,omitempty"`
	NewMatch *postgres.Match          `json:"new_match,omitempty"`
}

// createRematch builds the successor match of a finished one: fresh seed,
// both original players pre-inserted, active immediately.
func createRematch(tx *gorm.DB, old *postgres.Match) (*postgres.Match, error) {
	now := time.Now()
	m := postgres.Match{
		Status:           postgres.MatchActive,
		Mode:             postgres.ModeRematch,
		TimeLimitSeconds: old.TimeLimitSeconds,
		StartedAt:        &now,
	}
	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}

	for _, p := range old.Players {
		player := postgres.MatchPlayer{MatchID: m.ID, Username: p.Username}
		if err := tx.Create(&player).Error; err != nil {
			return nil, err
		}
		m.Players = append(m.Players, player)
	}
	return &m, nil
}

// RequestRematch is the collapse-on-mutual-request half of the handshake.
// If the opponent's pending request already exists, this call accepts it and
// both players converge on one new match; simultaneous double-clicks cannot
// create two, because whichever insert lands first is discovered by the
// other's lookup inside the same serializable transaction. Repeated clicks by
// the same player are idempotent.
func (s *Service) RequestRematch(finishedMatchID, username string) (*RematchOutcome, error) {
	outcome := &RematchOutcome{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old postgres.Match
		err := tx.Where("id = ?", finishedMatchID).First(&old).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if old.Status != postgres.MatchFinished {
			return ErrMatchNotFinished
		}
		if err := tx.Where("match_id = ?", old.ID).Find(&old.Players).Error; err != nil {
			return err
		}

		opponent := ""
		isPlayer := false
		for _, p := range old.Players {
			if p.Username == username {
				isPlayer = true
			} else {
				opponent = p.Username
			}
		}
		if !isPlayer {
			return ErrNotAParticipant
		}
		if opponent == "" {
			return ErrNotAParticipant
		}

		// Opponent asked first? Then this click is the acceptance.
		var theirs postgres.RematchRequest
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("match_id = ? AND from_username = ? AND to_username = ? AND status = ?",
				old.ID, opponent, username, postgres.RequestPending).
			First(&theirs).Error
		if err == nil {
			newMatch, err := createRematch(tx, &old)
			if err != nil {
				return err
			}
			err = tx.Model(&postgres.RematchRequest{}).Where("id = ?", theirs.ID).
				Updates(map[string]interface{}{
					"status":       postgres.RequestAccepted,
					"new_match_id": newMatch.ID,
				}).Error
			if err != nil {
				return err
			}
			theirs.Status = postgres.RequestAccepted
			theirs.NewMatchID = &newMatch.ID

			outcome.Status = "matched"
			outcome.Request = &theirs
			outcome.NewMatch = newMatch
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Double click by the same player: return the existing pending row.
		var mine postgres.RematchRequest
		err = tx.Where("match_id = ? AND from_username = ?", old.ID, username).
			First(&mine).Error
		if err == nil {
			outcome.Status = "requested"
			outcome.Request = &mine
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		mine = postgres.RematchRequest{
			MatchID:      old.ID,
			FromUsername: username,
			ToUsername:   opponent,
		}
		if err := tx.Create(&mine).Error; err != nil {
			return err
		}
		outcome.Status = "requested"
		outcome.Request = &mine
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		return nil, err
	}

	if outcome.Status == "matched" {
		s.notify(finishedMatchID, redis_models.EventRematchResolved, username)
		s.notify(outcome.NewMatch.ID, redis_models.EventMatchCreated, username)
	} else {
		s.notify(finishedMatchID, redis_models.EventRematchRequest, username)
	}
	return outcome, nil
}

// AcceptRematch resolves a pending request addressed to the caller into a
// brand-new active match and records its id on the request row.
func (s *Service) AcceptRematch(requestID, username string) (*postgres.Match, error) {
	var newMatch *postgres.Match
	var oldMatchID string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var req postgres.RematchRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&req).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if req.ToUsername != username {
			return ErrNotAParticipant
		}
		if req.Status != postgres.RequestPending {
			return ErrRequestAlreadyEnded
		}
		oldMatchID = req.MatchID

		var old postgres.Match
		if err := tx.Where("id = ?", req.MatchID).First(&old).Error; err != nil {
			return err
		}
		if err := tx.Where("match_id = ?", old.ID).Find(&old.Players).Error; err != nil {
			return err
		}

		newMatch, err = createRematch(tx, &old)
		if err != nil {
			return err
		}

		return tx.Model(&postgres.RematchRequest{}).Where("id = ?", req.ID).
			Updates(map[string]interface{}{
				"status":       postgres.RequestAccepted,
				"new_match_id": newMatch.ID,
			}).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		return nil, err
	}

	s.notify(oldMatchID, redis_models.EventRematchResolved, username)
	s.notify(newMatch.ID, redis_models.EventMatchCreated, username)
	return newMatch, nil
}

// DeclineRematch marks the request declined. The requester learns of it
// through the sync bridge on the finished match and is redirected away.
func (s *Service) DeclineRematch(requestID, username string) error {
	var oldMatchID, from string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var req postgres.RematchRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&req).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if req.ToUsername != username {
			return ErrNotAParticipant
		}
		if req.Status != postgres.RequestPending {
			return ErrRequestAlreadyEnded
		}
		oldMatchID = req.MatchID
		from = req.FromUsername

		return tx.Model(&postgres.RematchRequest{}).Where("id = ?", req.ID).
			Update("status", postgres.RequestDeclined).Error
	})
	if err != nil {
		return err
	}

	s.notify(oldMatchID, redis_models.EventRematchResolved, username)
	s.notifyUser(from, "rematch_declined", map[string]interface{}{
		"request_id": requestID,
		"match_id":   oldMatchID,
	})
	return nil
}

// ListIncomingRematchRequests returns the pending rematch requests addressed
// to a user.
func (s *Service) ListIncomingRematchRequests(username string) ([]postgres.RematchRequest, error) {
	var requests []postgres.RematchRequest
	err := s.db.Where("to_username = ? AND status = ?", username, postgres.RequestPending).
		Order("created_at ASC").Find(&requests).Error
	return requests, err
}
