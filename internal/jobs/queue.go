package jobs

import "github.com/vytor/banishment/internal/events"

// EventQueue provides an abstraction for publishing gauntlet events in the background
type EventQueue interface {
	Enqueue(e events.Event) error
}
