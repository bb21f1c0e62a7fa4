package ecs

import "github.com/milk9111/agentmotor/world"

// Event is a tagged payload passed between systems within one tick.
type Event struct {
	Type string
	Data any
}

const (
	EventTriggerEnter = "trigger_enter"
	EventTriggerExit  = "trigger_exit"
)

// TriggerEvent reports Other crossing the detection volume owned by Detector.
// OtherBody identifies Other even after the entity has been destroyed.
type TriggerEvent struct {
	Detector  Entity
	Other     Entity
	OtherBody world.BodyID
}

// EventQueue is a FIFO of events.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	q.items = append(q.items, evt)
}

// Drain returns queued events of the given type, keeping the rest queued.
func (q *EventQueue) Drain(eventType string) []Event {
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == eventType {
			out = append(out, evt)
		} else {
			kept = append(kept, evt)
		}
	}
	q.items = kept
	return out
}

func (q *EventQueue) Len() int {
	return len(q.items)
}

func (q *EventQueue) flush() {
	q.items = nil
}
