package events

// Category groups decoded events for subscription and dispatch. Every
// registered payload shape maps to exactly one category; everything else
// lands in CategoryUnknown.
type Category string

const (
	CategoryChatMessage    Category = "chat_message"
	CategoryMessageDeleted Category = "message_deleted"
	CategoryMessageSent    Category = "message_sent"
	CategoryStreamStarted  Category = "stream_started"
	CategoryStreamStopped  Category = "stream_stopped"
	CategoryStreamUpdated  Category = "stream_updated"
	CategoryFollowers      Category = "followers_updated"
	CategoryPinnedMessage  Category = "pinned_message"
	CategoryPoll           Category = "poll_update"
	CategoryUnknown        Category = "unknown"
)

// Event is a fully decoded realtime event. Payload holds a pointer to the
// shape registered for the event name, or *Unknown when the name is not
// registered or the payload did not match the registered shape.
type Event struct {
	Name     string
	Channel  string
	Category Category
	Payload  any
}

// Unknown preserves an event this module does not model. The raw payload is
// kept verbatim so callers can still inspect or log it.
type Unknown struct {
	Name    string
	Channel string
	Raw     []byte
	Source  string
}
