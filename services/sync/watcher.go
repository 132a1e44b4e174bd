package sync

import (
	"context"
	"encoding/json"
	"log"
	"time"

	game_constants "Palindra/constants/game"
	redis_models "Palindra/models/redis"
	"Palindra/services/match"
	"Palindra/services/redis"
)

// FetchFunc returns the current snapshot of the watched match.
type FetchFunc func() (*match.Snapshot, error)

// Watcher streams match snapshots to a consumer. The Redis change feed
// triggers an immediate refetch; a ticker refetches regardless, so a
// dropped pub/sub message only delays convergence by one poll interval.
type Watcher struct {
	svc         *match.Service
	redisClient *redis.RedisClient
	Interval    time.Duration
}

func NewWatcher(svc *match.Service, redisClient *redis.RedisClient) *Watcher {
	return &Watcher{svc: svc, redisClient: redisClient, Interval: game_constants.SyncPollInterval}
}

// Watch emits a snapshot immediately, then again on every change-feed event
// and every poll tick, until ctx is cancelled. The returned channel is closed
// when the watch ends.
func (w *Watcher) Watch(ctx context.Context, matchID string) <-chan *match.Snapshot {
	out := make(chan *match.Snapshot, 1)

	triggers := make(chan struct{}, 1)
	if w.redisClient != nil {
		pubsub := w.redisClient.SubscribeMatchEvents(ctx, matchID)
		go func() {
			defer pubsub.Close()
			ch := pubsub.Channel()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-ch:
					if !ok {
						return
					}
					var event redis_models.MatchEvent
					if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
						log.Printf("[WATCHER] bad event on match %s: %v", matchID, err)
						continue
					}
					select {
					case triggers <- struct{}{}:
					default:
						// a refetch is already pending, coalesce
					}
				}
			}
		}()
	}

	fetch := func() (*match.Snapshot, error) {
		return w.svc.GetSnapshot(matchID)
	}
	go watchLoop(ctx, triggers, w.Interval, fetch, out)

	return out
}

// watchLoop is the trigger/ticker pump behind Watch, split out so it can be
// driven without Redis or a database.
func watchLoop(ctx context.Context, triggers <-chan struct{}, interval time.Duration, fetch FetchFunc, out chan<- *match.Snapshot) {
	defer close(out)

	emit := func() {
		snapshot, err := fetch()
		if err != nil {
			log.Printf("[WATCHER] fetch failed: %v", err)
			return
		}
		if snapshot == nil {
			return
		}
		select {
		case out <- snapshot:
		case <-ctx.Done():
		}
	}

	emit()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-triggers:
			emit()
		case <-ticker.C:
			emit()
		}
	}
}
