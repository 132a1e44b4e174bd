package match

import (
	"errors"

	"Palindra/models/postgres"
	redis_models "Palindra/models/redis"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeFriend opens a waiting match with the caller as sole player and a
// pending challenge aimed at a mutual friend. Skips the quick-match pool
// entirely.
func (s *Service) ChallengeFriend(from, to string) (*postgres.Challenge, error) {
	if from == to {
		return nil, ErrSelfChallenge
	}

	friends, err := postgres.AreFriends(s.db, from, to)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, ErrNotFriends
	}

	var challenge postgres.Challenge
	err = s.db.Transaction(func(tx *gorm.DB) error {
		m, err := createMatch(tx, from, postgres.ModeFriend, nil)
		if err != nil {
			return err
		}

		challenge = postgres.Challenge{
			FromUsername: from,
			ToUsername:   to,
			MatchID:      m.ID,
		}
		return tx.Create(&challenge).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyUser(to, redis_models.EventChallenge, map[string]interface{}{
		"challenge_id": challenge.ID,
		"from":         from,
		"match_id":     challenge.MatchID,
	})
	return &challenge, nil
}

// AcceptChallenge adds the recipient as second player, activates the match
// and marks the challenge accepted. Only the addressee of a still-pending
// challenge may accept.
func (s *Service) AcceptChallenge(challengeID, username string) (*postgres.Match, error) {
	var joined *postgres.Match
	var from string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ch postgres.Challenge
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", challengeID).First(&ch).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if ch.ToUsername != username {
			return ErrNotAParticipant
		}
		if ch.Status != postgres.RequestPending {
			return ErrRequestAlreadyEnded
		}
		from = ch.FromUsername

		var m postgres.Match
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ch.MatchID).First(&m).Error
		if err != nil {
			return err
		}
		if m.Status != postgres.MatchWaiting {
			// challenger withdrew in the meantime
			return ErrMatchNotJoinable
		}
		if err := tx.Where("match_id = ?", m.ID).Find(&m.Players).Error; err != nil {
			return err
		}

		if err := addSecondPlayer(tx, &m, username); err != nil {
			return err
		}

		err = tx.Model(&postgres.Challenge{}).Where("id = ?", ch.ID).
			Update("status", postgres.RequestAccepted).Error
		if err != nil {
			return err
		}

		joined = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(joined.ID, redis_models.EventPlayerJoined, username)
	s.notifyUser(from, "challenge_accepted", map[string]interface{}{
		"challenge_id": challengeID,
		"match_id":     joined.ID,
	})
	return joined, nil
}

// DeclineChallenge marks the challenge declined. The challenger's waiting
// match is left alone; they withdraw it themselves via LeaveMatch. The
// decline is pushed to the challenger over the same bridge rematch declines
// use, so both flows behave alike.
func (s *Service) DeclineChallenge(challengeID, username string) error {
	var from, matchID string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ch postgres.Challenge
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", challengeID).First(&ch).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if ch.ToUsername != username {
			return ErrNotAParticipant
		}
		if ch.Status != postgres.RequestPending {
			return ErrRequestAlreadyEnded
		}
		from = ch.FromUsername
		matchID = ch.MatchID

		return tx.Model(&postgres.Challenge{}).Where("id = ?", ch.ID).
			Update("status", postgres.RequestDeclined).Error
	})
	if err != nil {
		return err
	}

	s.notify(matchID, redis_models.EventChallenge, username)
	s.notifyUser(from, "challenge_declined", map[string]interface{}{
		"challenge_id": challengeID,
		"match_id":     matchID,
	})
	return nil
}

// ListIncomingChallenges returns the pending challenges addressed to a user.
func (s *Service) ListIncomingChallenges(username string) ([]postgres.Challenge, error) {
	var challenges []postgres.Challenge
	err := s.db.Where("to_username = ? AND status = ?", username, postgres.RequestPending).
		Order("created_at ASC").Find(&challenges).Error
	return challenges, err
}
