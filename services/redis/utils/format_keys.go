package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatLiveScoreKey(matchId string, username string) string {
	return fmt.Sprintf("match:%s:score:%s", matchId, username)
}

func FormatMatchChannel(matchId string) string {
	return fmt.Sprintf("match:%s:events", matchId)
}

func FormatPresenceKey(username string) string {
	return fmt.Sprintf("presence:%s", username)
}
