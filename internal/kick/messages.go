package kick

import (
	"context"
	"net/http"

	"kicklive/internal/models"
)

type sendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type sendMessageResponse struct {
	Data models.ChatMessage `json:"data"`
}

// SendMessage posts a chat message to a chatroom and returns the server's
// acknowledgement, which mirrors the message as it will appear in chat.
func (c *Client) SendMessage(ctx context.Context, chatroomID int64, content string) (*models.ChatMessage, error) {
	req := sendMessageRequest{Content: content, Type: "message"}
	var out sendMessageResponse
	err := c.tr.DoJSON(ctx, http.MethodPost, c.url("/api/v2/messages/send/%d", chatroomID), req, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}
