package events

import (
	"encoding/json"
	"strings"

	"kicklive/internal/models"
)

const eventNamespace = `App\Events\`

type registryEntry struct {
	category Category
	decode   func([]byte) (any, error)
}

func decodeInto[T any](raw []byte) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// registry maps the platform's namespaced event names to their payload
// shapes. Onboarding a new platform event means adding a row here and a
// model type; dispatch logic never changes.
var registry = map[string]registryEntry{
	eventNamespace + "ChatMessageEvent":          {CategoryChatMessage, decodeInto[models.ChatMessage]},
	eventNamespace + "ChatMessageSentEvent":      {CategoryMessageSent, decodeInto[models.ChatMessage]},
	eventNamespace + "MessageDeletedEvent":       {CategoryMessageDeleted, decodeInto[models.MessageDeleted]},
	eventNamespace + "StreamerIsLive":            {CategoryStreamStarted, decodeInto[models.LivestreamStarted]},
	eventNamespace + "StopStreamBroadcast":       {CategoryStreamStopped, decodeInto[models.LivestreamStopped]},
	eventNamespace + "LivestreamUpdated":         {CategoryStreamUpdated, decodeInto[models.LivestreamUpdated]},
	eventNamespace + "FollowersUpdated":          {CategoryFollowers, decodeInto[models.FollowersUpdated]},
	eventNamespace + "PinnedMessageCreatedEvent": {CategoryPinnedMessage, decodeInto[models.PinnedMessageCreated]},
	eventNamespace + "PollUpdateEvent":           {CategoryPoll, decodeInto[models.PollUpdate]},
}

// lookupEvent resolves an event name to its registry entry. Names arrive
// either fully namespaced or bare; a bare name resolves against the
// platform namespace.
func lookupEvent(name string) (registryEntry, bool) {
	if e, ok := registry[name]; ok {
		return e, true
	}
	if !strings.ContainsRune(name, '\\') {
		e, ok := registry[eventNamespace+name]
		return e, ok
	}
	return registryEntry{}, false
}
