package events

import (
	"context"
	"time"
)

type Type string

const (
	SessionStarted Type = "session.started"
	SessionEnded   Type = "session.ended"
	LevelUp        Type = "player.level_up"
	EffectGranted  Type = "player.effect_granted"
)

// Event is a gauntlet fact published for downstream consumers such as
// leaderboards. Payload keys depend on Type.
type Event struct {
	Type       Type           `json:"type"`
	PlayerID   int64          `json:"player_id"`
	SessionID  string         `json:"session_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Sink delivers events somewhere.
type Sink interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}
