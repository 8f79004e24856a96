package engine

// EventType says what changed about an instance.
type EventType string

const (
	EventAdded      EventType = "added"
	EventRemoved    EventType = "removed"
	EventRecomputed EventType = "recomputed"
	EventStyled     EventType = "styled"
	EventMoved      EventType = "moved"
	EventBars       EventType = "bars"
)

// Event is a change notification pushed to subscribers (the websocket
// layer fans these out to connected clients).
type Event struct {
	Type       EventType `json:"type"`
	InstanceID string    `json:"instanceId,omitempty"`
	Kind       string    `json:"kind,omitempty"`
}

// Subscribe registers a listener. The returned channel is buffered; slow
// consumers lose events rather than blocking the engine.
func (e *Engine) Subscribe() chan Event {
	ch := make(chan Event, 64)
	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (e *Engine) Unsubscribe(ch chan Event) {
	e.mu.Lock()
	if _, ok := e.subs[ch]; ok {
		delete(e.subs, ch)
		close(ch)
	}
	e.mu.Unlock()
}

// publish fans an event out to all subscribers. Callers hold e.mu.
func (e *Engine) publish(ev Event) {
	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
