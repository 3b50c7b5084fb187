package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"mentora-backend/internal/models"
)

func TestProgressChannel(t *testing.T) {
	if got := ProgressChannel("u1"); got != "user_updates:u1" {
		t.Errorf("Expected channel 'user_updates:u1', got %q", got)
	}
}

func TestPublishWithoutRedisIsNoOp(t *testing.T) {
	var p *ProgressPublisher

	// Must not panic with a nil publisher or a nil client.
	p.Publish(context.Background(), "u1", models.ProgressEvent{ProcessID: uuid.New(), Status: "started"})
	NewProgressPublisher(nil).Publish(context.Background(), "u1", models.ProgressEvent{ProcessID: uuid.New(), Status: "started"})
}
