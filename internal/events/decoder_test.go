package events

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"kicklive/internal/models"
)

func TestDecodeChatMessage(t *testing.T) {
	raw := []byte(`{"event":"ChatMessageEvent","channel":"chatrooms.42","data":"{\"id\":\"abc\",\"content\":\"hi\"}"}`)

	ev, err := NewDecoder("test").Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.Category != CategoryChatMessage {
		t.Fatalf("category = %q, want %q", ev.Category, CategoryChatMessage)
	}
	if ev.Channel != "chatrooms.42" {
		t.Errorf("channel = %q, want chatrooms.42", ev.Channel)
	}

	msg, ok := ev.Payload.(*models.ChatMessage)
	if !ok {
		t.Fatalf("payload type = %T, want *models.ChatMessage", ev.Payload)
	}
	if msg.ID != "abc" || msg.Content != "hi" {
		t.Errorf("payload = %+v, want id=abc content=hi", msg)
	}
}

func TestDecodeNamespacedTag(t *testing.T) {
	raw := []byte(`{"event":"App\\Events\\FollowersUpdated","channel":"channel.5","data":"{\"followersCount\":123,\"channel_id\":5,\"followed\":true}"}`)

	ev, err := NewDecoder("test").Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.Category != CategoryFollowers {
		t.Fatalf("category = %q, want %q", ev.Category, CategoryFollowers)
	}
	fu := ev.Payload.(*models.FollowersUpdated)
	if fu.FollowersCount != 123 || fu.ChannelID != 5 || !fu.Followed {
		t.Errorf("payload = %+v", fu)
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	raw := []byte(`{"event":"SomeFutureEvent","channel":"chatrooms.42","data":"{\"anything\":1}"}`)

	ev, err := NewDecoder("realtime").Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.Category != CategoryUnknown {
		t.Fatalf("category = %q, want %q", ev.Category, CategoryUnknown)
	}

	u := ev.Payload.(*Unknown)
	if u.Name != "SomeFutureEvent" {
		t.Errorf("name = %q, want SomeFutureEvent", u.Name)
	}
	if string(u.Raw) != `{"anything":1}` {
		t.Errorf("raw payload = %q, want verbatim original", u.Raw)
	}
	if u.Source != "realtime" {
		t.Errorf("source = %q, want realtime", u.Source)
	}
}

func TestDecodeShapeMismatchFallsBackToUnknown(t *testing.T) {
	// chatroom_id must be a number; a string payload fails the registered
	// shape but must not fail the decode.
	raw := []byte(`{"event":"ChatMessageEvent","channel":"chatrooms.42","data":"{\"chatroom_id\":\"not-a-number\"}"}`)

	ev, err := NewDecoder("test").Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v, want soft fallback", err)
	}
	if ev.Category != CategoryUnknown {
		t.Fatalf("category = %q, want %q", ev.Category, CategoryUnknown)
	}
	u := ev.Payload.(*Unknown)
	if string(u.Raw) != `{"chatroom_id":"not-a-number"}` {
		t.Errorf("raw payload = %q, want verbatim original", u.Raw)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"missing event name", `{"channel":"chatrooms.42","data":"{}"}`},
		{"missing data", `{"event":"ChatMessageEvent","channel":"chatrooms.42"}`},
		{"nested payload not json", `{"event":"ChatMessageEvent","channel":"chatrooms.42","data":"{{{"}`},
	}

	d := NewDecoder("test")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Decode([]byte(tc.raw))
			if !errors.Is(err, ErrMalformedEnvelope) {
				t.Fatalf("Decode() error = %v, want ErrMalformedEnvelope", err)
			}
		})
	}
}

func TestDecodeAllRegisteredTags(t *testing.T) {
	cases := []struct {
		tag      string
		payload  string
		category Category
	}{
		{"App\\Events\\ChatMessageEvent", `{"id":"m1"}`, CategoryChatMessage},
		{"App\\Events\\ChatMessageSentEvent", `{"id":"m2"}`, CategoryMessageSent},
		{"App\\Events\\MessageDeletedEvent", `{"id":"d1"}`, CategoryMessageDeleted},
		{"App\\Events\\StreamerIsLive", `{"livestream":{"id":1}}`, CategoryStreamStarted},
		{"App\\Events\\StopStreamBroadcast", `{"livestream":{"id":1}}`, CategoryStreamStopped},
		{"App\\Events\\LivestreamUpdated", `{"id":1,"session_title":"t"}`, CategoryStreamUpdated},
		{"App\\Events\\FollowersUpdated", `{"followersCount":1}`, CategoryFollowers},
		{"App\\Events\\PinnedMessageCreatedEvent", `{"duration":"20"}`, CategoryPinnedMessage},
		{"App\\Events\\PollUpdateEvent", `{"poll":{"title":"p"}}`, CategoryPoll},
	}

	d := NewDecoder("test")
	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			raw := mustEnvelope(t, tc.tag, tc.payload)

			ev, err := d.Decode(raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if ev.Category != tc.category {
				t.Errorf("category = %q, want %q", ev.Category, tc.category)
			}
			if _, isUnknown := ev.Payload.(*Unknown); isUnknown {
				t.Errorf("payload degraded to Unknown for registered tag")
			}
		})
	}
}

func TestDecodeIsPure(t *testing.T) {
	raw := []byte(`{"event":"ChatMessageEvent","channel":"chatrooms.42","data":"{\"id\":\"abc\",\"content\":\"hi\"}"}`)
	d := NewDecoder("test")

	first, err := d.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}

	a := first.Payload.(*models.ChatMessage)
	b := second.Payload.(*models.ChatMessage)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical input produced different events: %+v vs %+v", a, b)
	}
}

func mustEnvelope(t *testing.T, tag, payload string) []byte {
	t.Helper()
	env := struct {
		Event   string `json:"event"`
		Channel string `json:"channel"`
		Data    string `json:"data"`
	}{Event: tag, Channel: "chatrooms.1", Data: payload}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}
