package storage

import "github.com/redis/go-redis/v9"

// Redis-backed pieces: per-project presence sets and the pub/sub channel
// used to relay broadcasts between backend nodes. Both are best-effort; the
// durable entities never live here.

const relayChannelPrefix = "room:"

// AddOnlineUser adds the user to the project's online set in Redis.
func (s *Service) AddOnlineUser(projectID, userID string) error {
	return s.Redis.SAdd(s.Ctx, "online:"+projectID, userID).Err()
}

// RemoveOnlineUser removes the user from the project's online set in Redis.
func (s *Service) RemoveOnlineUser(projectID, userID string) error {
	return s.Redis.SRem(s.Ctx, "online:"+projectID, userID).Err()
}

// GetOnlineUsers returns everyone currently online in the project's room.
func (s *Service) GetOnlineUsers(projectID string) ([]string, error) {
	return s.Redis.SMembers(s.Ctx, "online:"+projectID).Result()
}

// PublishMessage publishes an already-persisted broadcast to the project's
// Redis channel so other backend nodes can deliver it to their local
// subscribers.
func (s *Service) PublishMessage(projectID string, payload []byte) error {
	return s.Redis.Publish(s.Ctx, relayChannelPrefix+projectID, payload).Err()
}

// SubscribeRooms subscribes to every project relay channel.
func (s *Service) SubscribeRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, relayChannelPrefix+"*")
}
