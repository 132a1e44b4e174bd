package sync

import (
	"log"
	"time"

	redis_models "Palindra/models/redis"
	"Palindra/services/match"
	"Palindra/services/redis"
	socketio_types "Palindra/services/socket_io/types"

	"github.com/zishang520/socket.io/v2/socket"
)

// Bridge fans match mutations out to observers. Two overlapping paths reach
// clients: the Redis pub/sub channel consumed by Watchers, and a socket.io
// room emit carrying a freshly refetched full snapshot. Neither path carries
// diffs; every notification means "here is (or go get) the whole match
// again", so duplication, reordering and loss are all harmless.
type Bridge struct {
	svc         *match.Service
	redisClient *redis.RedisClient
	sio         *socketio_types.SocketServer
}

func NewBridge(svc *match.Service, redisClient *redis.RedisClient, sio *socketio_types.SocketServer) *Bridge {
	return &Bridge{svc: svc, redisClient: redisClient, sio: sio}
}

// MatchRoom names the socket.io room of a match.
func MatchRoom(matchID string) string {
	return "match:" + matchID
}

// MatchChanged implements match.Notifier. Publish failures are logged and
// swallowed: the poll backstop converges without them.
func (b *Bridge) MatchChanged(matchID, kind, actor string) {
	if b.redisClient != nil {
		err := b.redisClient.PublishMatchEvent(&redis_models.MatchEvent{
			MatchID: matchID,
			Kind:    kind,
			Actor:   actor,
			At:      time.Now().Unix(),
		})
		if err != nil {
			log.Printf("[BRIDGE] publish failed for match %s: %v", matchID, err)
		}
	}

	if b.sio == nil || b.sio.Sio_server == nil {
		return
	}
	snapshot, err := b.svc.GetSnapshot(matchID)
	if err != nil {
		log.Printf("[BRIDGE] refetch failed for match %s: %v", matchID, err)
		return
	}
	if snapshot == nil {
		return
	}
	b.sio.Sio_server.To(socket.Room(MatchRoom(matchID))).Emit("match_updated", snapshot)
}

// NotifyUser implements match.Notifier for events aimed at one user rather
// than a match room (challenge received/declined, rematch declined).
func (b *Bridge) NotifyUser(username, event string, payload interface{}) {
	if b.sio == nil {
		return
	}
	client, exists := b.sio.GetConnection(username)
	if !exists {
		// offline users pick the change up from the database on next login
		return
	}
	client.Emit(event, payload)
}
