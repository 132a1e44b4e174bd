package sync

import (
	"database/sql"
	"fmt"

	"Palindra/services/redis"
)

// SyncManager flushes volatile Redis state back into PostgreSQL. It runs on a
// raw *sql.DB because it touches single columns on known rows and gains
// nothing from the ORM.
type SyncManager struct {
	redisClient *redis.RedisClient
	db          *sql.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(redisClient *redis.RedisClient, db *sql.DB) *SyncManager {
	return &SyncManager{
		redisClient: redisClient,
		db:          db,
	}
}

// SyncPlayerLiveScore flushes a player's cached live score to their
// match_players row. Submitted rows are left alone: a final score must never
// be overwritten by a stale in-progress one.
func (sm *SyncManager) SyncPlayerLiveScore(matchID string, username string) error {
	live, err := sm.redisClient.GetLiveScore(matchID, username)
	if err != nil {
		return fmt.Errorf("error getting live score from Redis: %v", err)
	}
	if live == nil {
		return nil
	}

	scoreQuery := `
		UPDATE match_players
		SET score = $1
		WHERE match_id = $2 AND username = $3 AND submitted_at IS NULL
	`

	_, err = sm.db.Exec(scoreQuery,
		live.Score,
		matchID,
		username)

	if err != nil {
		return fmt.Errorf("error updating live score in PostgreSQL: %v", err)
	}

	return nil
}

// SyncMatchState flushes every player's live score for a match inside one
// transaction.
func (sm *SyncManager) SyncMatchState(matchID string) error {
	tx, err := sm.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %v", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT username FROM match_players WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("error listing match players: %v", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return fmt.Errorf("error scanning match player: %v", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating match players: %v", err)
	}

	for _, username := range usernames {
		live, err := sm.redisClient.GetLiveScore(matchID, username)
		if err != nil {
			return fmt.Errorf("error getting live score from Redis: %v", err)
		}
		if live == nil {
			continue
		}
		_, err = tx.Exec(`
			UPDATE match_players
			SET score = $1
			WHERE match_id = $2 AND username = $3 AND submitted_at IS NULL
		`, live.Score, matchID, username)
		if err != nil {
			return fmt.Errorf("error updating live score in PostgreSQL: %v", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %v", err)
	}

	return nil
}

// CleanupMatchData flushes the final state of a match and drops its Redis
// keys. Called when a match finishes or when its last watcher disconnects.
func (sm *SyncManager) CleanupMatchData(matchID string) error {
	if err := sm.SyncMatchState(matchID); err != nil {
		return fmt.Errorf("error syncing final match state: %v", err)
	}

	rows, err := sm.db.Query(`SELECT username FROM match_players WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("error listing match players: %v", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return fmt.Errorf("error scanning match player: %v", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating match players: %v", err)
	}

	if err := sm.redisClient.DeleteLiveScores(matchID, usernames); err != nil {
		return fmt.Errorf("error cleaning Redis match data: %v", err)
	}

	return nil
}
