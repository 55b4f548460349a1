package dom

// EventType names a DOM event.
type EventType string

const (
	EventClick   EventType = "click"
	EventKeyDown EventType = "keydown"
	EventResize  EventType = "resize"
)

// KeyEscape is the key value dispatched for the Escape key.
const KeyEscape = "Escape"

// Event is delivered to listeners.
type Event struct {
	Type   EventType
	Key    string   // keydown only
	Target *Element // nil for document and window events
}

// Listener handles an event.
type Listener func(Event)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

type registered struct {
	id ListenerID
	fn Listener
}

// listenerSet holds listeners per event type in registration order.
type listenerSet struct {
	next   ListenerID
	byType map[EventType][]registered
}

func (s *listenerSet) add(typ EventType, fn Listener) ListenerID {
	if s.byType == nil {
		s.byType = make(map[EventType][]registered)
	}
	s.next++
	s.byType[typ] = append(s.byType[typ], registered{id: s.next, fn: fn})
	return s.next
}

func (s *listenerSet) remove(typ EventType, id ListenerID) bool {
	list := s.byType[typ]
	for i, r := range list {
		if r.id == id {
			s.byType[typ] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

func (s *listenerSet) count(typ EventType) int {
	return len(s.byType[typ])
}

// dispatch copies the listener list first so listeners may add or remove
// listeners while the event is delivered.
func (s *listenerSet) dispatch(ev Event) {
	list := s.byType[ev.Type]
	if len(list) == 0 {
		return
	}
	fns := make([]Listener, len(list))
	for i, r := range list {
		fns[i] = r.fn
	}
	for _, fn := range fns {
		fn(ev)
	}
}
