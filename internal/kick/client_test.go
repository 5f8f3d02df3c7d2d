package kick

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"kicklive/internal/fingerprint"
	"kicklive/internal/interfaces"
	"kicklive/internal/session"
	"kicklive/internal/transport"
)

// recordingSender captures outbound requests and returns a scripted body.
type recordingSender struct {
	lastMethod string
	lastURL    string
	lastBody   []byte
	respBody   string
}

func (s *recordingSender) SendSpoofed(_ context.Context, req *interfaces.SpoofRequest, _ string) (*http.Response, error) {
	s.lastMethod = req.Method
	s.lastURL = req.URL
	s.lastBody = req.Body
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(s.respBody))),
	}, nil
}

func newTestClient(sender *recordingSender) *Client {
	store := session.NewCredentialStore()
	store.SetSession("bearer", "xsrf")
	fp := fingerprint.New("fp", nil, 1)
	tr := transport.New(store, fp, sender, zerolog.Nop())
	return NewClient(tr)
}

func TestChannelLookup(t *testing.T) {
	sender := &recordingSender{respBody: `{"id":7,"slug":"somestreamer","chatroom":{"id":42,"channel_id":7}}`}
	c := newTestClient(sender)

	ch, err := c.Channel(context.Background(), "somestreamer")
	if err != nil {
		t.Fatalf("Channel() error = %v", err)
	}
	if sender.lastURL != "https://kick.com/api/v2/channels/somestreamer" {
		t.Errorf("url = %q", sender.lastURL)
	}
	if ch.ID != 7 || ch.Chatroom.ID != 42 {
		t.Errorf("channel = %+v", ch)
	}
}

func TestSendMessage(t *testing.T) {
	sender := &recordingSender{respBody: `{"data":{"id":"ack-1","chatroom_id":42,"content":"hello chat"}}`}
	c := newTestClient(sender)

	msg, err := c.SendMessage(context.Background(), 42, "hello chat")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if sender.lastMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", sender.lastMethod)
	}
	if sender.lastURL != "https://kick.com/api/v2/messages/send/42" {
		t.Errorf("url = %q", sender.lastURL)
	}

	var sent map[string]string
	if err := json.Unmarshal(sender.lastBody, &sent); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if sent["content"] != "hello chat" || sent["type"] != "message" {
		t.Errorf("request body = %v", sent)
	}
	if msg.ID != "ack-1" || msg.Content != "hello chat" {
		t.Errorf("acknowledgement = %+v", msg)
	}
}

func TestLivestreamOffline(t *testing.T) {
	sender := &recordingSender{respBody: `{"data":null}`}
	c := newTestClient(sender)

	live, err := c.IsLive(context.Background(), "somestreamer")
	if err != nil {
		t.Fatalf("IsLive() error = %v", err)
	}
	if live {
		t.Errorf("IsLive() = true for offline channel")
	}
}
