package models

import "time"

// ChatMessage is the payload of a chat message pushed to a chatroom
// channel, and of the acknowledgement returned after sending one.
type ChatMessage struct {
	ID         string    `json:"id"`
	ChatroomID int64     `json:"chatroom_id"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	Sender     Sender    `json:"sender"`
}

// Sender describes the author of a chat message.
type Sender struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Slug     string   `json:"slug"`
	Identity Identity `json:"identity"`
}

// Identity carries the sender's chat presentation (name color, badges).
type Identity struct {
	Color  string  `json:"color"`
	Badges []Badge `json:"badges"`
}

// Badge is a single chat badge (moderator, subscriber, OG and so on).
type Badge struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Count int    `json:"count,omitempty"`
}

// MessageDeleted is pushed when a moderator removes a chat message.
type MessageDeleted struct {
	ID      string `json:"id"`
	Message struct {
		ID string `json:"id"`
	} `json:"message"`
}

// LivestreamStarted is pushed on a channel when its broadcast goes live.
type LivestreamStarted struct {
	Livestream LivestreamSummary `json:"livestream"`
}

// LivestreamStopped is pushed when the broadcast ends.
type LivestreamStopped struct {
	Livestream struct {
		ID      int64 `json:"id"`
		Channel struct {
			ID       int64 `json:"id"`
			IsBanned bool  `json:"is_banned"`
		} `json:"channel"`
	} `json:"livestream"`
}

// LivestreamUpdated is pushed when livestream metadata (title, category)
// changes mid-broadcast.
type LivestreamUpdated struct {
	ID           int64      `json:"id"`
	ChannelID    int64      `json:"channel_id"`
	SessionTitle string     `json:"session_title"`
	CreatedAt    time.Time  `json:"created_at"`
	Categories   []Category `json:"categories"`
	IsLive       bool       `json:"is_live"`
}

// LivestreamSummary is the nested livestream object carried by stream
// lifecycle events.
type LivestreamSummary struct {
	ID           int64     `json:"id"`
	ChannelID    int64     `json:"channel_id"`
	SessionTitle string    `json:"session_title"`
	CreatedAt    time.Time `json:"created_at"`
}

// FollowersUpdated is pushed when a user follows or unfollows the channel.
type FollowersUpdated struct {
	FollowersCount int64     `json:"followersCount"`
	ChannelID      int64     `json:"channel_id"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
	Followed       bool      `json:"followed"`
}

// PinnedMessageCreated is pushed when a chat message gets pinned.
type PinnedMessageCreated struct {
	Message  ChatMessage `json:"message"`
	Duration string      `json:"duration"`
}

// PollUpdate carries the current state of a running chat poll.
type PollUpdate struct {
	Poll Poll `json:"poll"`
}

// Poll is a chat poll with its options and remaining runtime in seconds.
type Poll struct {
	Title     string       `json:"title"`
	Options   []PollOption `json:"options"`
	Duration  int          `json:"duration"`
	Remaining int          `json:"remaining"`
}

// PollOption is a single votable poll entry.
type PollOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Votes int64  `json:"votes"`
}
