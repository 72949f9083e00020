package event

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/trezcool/darasa/core/user"
)

// Kinds pushed on the admin analytics stream. Unknown kinds are buffered but
// never surfaced as notifications.
const (
	KindUserRegistered    = "userRegistered"
	KindCourseCreated     = "courseCreated"
	KindCourseCompleted   = "courseCompleted"
	KindEnrollmentChanged = "enrollmentChanged"
	KindMaterialUploaded  = "materialUploaded"
)

var labels = map[string]string{
	KindUserRegistered:    "A new user registered",
	KindCourseCreated:     "A course was created",
	KindCourseCompleted:   "A course was completed",
	KindEnrollmentChanged: "An enrollment changed",
	KindMaterialUploaded:  "New course material was uploaded",
}

// Label returns the human-readable notification text for a known event kind.
func Label(kind string) (string, bool) {
	label, ok := labels[kind]
	return label, ok
}

// Event is one domain event pushed from the server. Ephemeral: never
// persisted, never reconciled against REST-fetched state.
type Event struct {
	Kind      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	User      *user.User      `json:"user,omitempty"`
}

const feedCap = 10

// Feed is the bounded in-memory event buffer: most-recent-first, oldest
// dropped beyond capacity.
type Feed struct {
	mu     sync.Mutex
	events []Event
}

func NewFeed() *Feed {
	return &Feed{events: make([]Event, 0, feedCap)}
}

// Add prepends evt, dropping the oldest event when the feed is full.
func (f *Feed) Add(evt Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == feedCap {
		f.events = f.events[:feedCap-1]
	}
	f.events = append([]Event{evt}, f.events...)
}

// Events returns a most-recent-first copy of the buffer.
func (f *Feed) Events() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}
