package interact

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/tracking"
	"github.com/san-kum/xrgrab/internal/world"
)

type EventKind uint8

const (
	EventGrabbed EventKind = iota
	EventReleased
	EventTargeted
	EventPulled
	EventLaunched
	EventAborted
)

var eventNames = [...]string{
	EventGrabbed:  "grabbed",
	EventReleased: "released",
	EventTargeted: "targeted",
	EventPulled:   "pulled",
	EventLaunched: "launched",
	EventAborted:  "aborted",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {
	for i, name := range eventNames {
		if name == string(b) {
			*k = EventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", b)
}

// Event is one state transition. Velocity is the object's velocity after the
// transition.
type Event struct {
	Tick     uint64        `json:"tick"`
	Kind     EventKind     `json:"kind"`
	Body     world.BodyID  `json:"body"`
	Hand     tracking.Side `json:"hand"`
	Velocity mgl64.Vec3    `json:"velocity"`
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s %v (%s hand)", e.Tick, e.Kind, e.Body, e.Hand)
}

// Observer receives every event as it happens, for highlight rendering and
// recording.
type Observer interface {
	OnEvent(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }
