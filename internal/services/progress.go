package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"mentora-backend/internal/models"
)

// ProgressChannel names the per-user Redis pub/sub channel progress
// events travel on. The WebSocket hub subscribes to the same name.
func ProgressChannel(userID string) string {
	return "user_updates:" + userID
}

// ProgressPublisher fans workflow progress out over Redis pub/sub.
// Delivery is best effort: a failed publish is logged, never surfaced.
type ProgressPublisher struct {
	redis *redis.Client
}

func NewProgressPublisher(client *redis.Client) *ProgressPublisher {
	return &ProgressPublisher{redis: client}
}

func (p *ProgressPublisher) Publish(ctx context.Context, userID string, event models.ProgressEvent) {
	if p == nil || p.redis == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode progress event for process %s: %v", event.ProcessID, err)
		return
	}

	if err := p.redis.Publish(ctx, ProgressChannel(userID), data).Err(); err != nil {
		log.Printf("Failed to publish progress event for process %s: %v", event.ProcessID, err)
	}
}
