package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileUpdated is emitted after a profile record is saved.
type ProfileUpdated struct {
	RecordID  uuid.UUID `json:"recordId"`
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Score     int       `json:"score"`
	Created   bool      `json:"created"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Publisher delivers domain events. Delivery is best effort.
type Publisher interface {
	PublishProfileUpdated(ctx context.Context, e ProfileUpdated) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishProfileUpdated(context.Context, ProfileUpdated) error { return nil }
