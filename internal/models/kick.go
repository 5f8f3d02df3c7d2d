package models

import "time"

// Category is a streaming category (top-level or subcategory).
type Category struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Slug    string   `json:"slug"`
	Tags    []string `json:"tags,omitempty"`
	Viewers int64    `json:"viewers,omitempty"`
}

// Channel is a streamer's channel as returned by the channels endpoint.
type Channel struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	Slug           string      `json:"slug"`
	IsBanned       bool        `json:"is_banned"`
	VodEnabled     bool        `json:"vod_enabled"`
	FollowersCount int64       `json:"followers_count"`
	Chatroom       Chatroom    `json:"chatroom"`
	Livestream     *Livestream `json:"livestream"`
	User           User        `json:"user"`
}

// Chatroom identifies a channel's chat and its moderation settings.
type Chatroom struct {
	ID                   int64 `json:"id"`
	ChannelID            int64 `json:"channel_id"`
	SlowMode             bool  `json:"slow_mode"`
	FollowersMode        bool  `json:"followers_mode"`
	SubscribersMode      bool  `json:"subscribers_mode"`
	EmotesMode           bool  `json:"emotes_mode"`
	MessageInterval      int   `json:"message_interval"`
	FollowingMinDuration int   `json:"following_min_duration"`
}

// Livestream is a running or finished broadcast.
type Livestream struct {
	ID           int64      `json:"id"`
	Slug         string     `json:"slug"`
	ChannelID    int64      `json:"channel_id"`
	SessionTitle string     `json:"session_title"`
	IsLive       bool       `json:"is_live"`
	ViewerCount  int64      `json:"viewer_count"`
	Language     string     `json:"language"`
	IsMature     bool       `json:"is_mature"`
	CreatedAt    time.Time  `json:"created_at"`
	Categories   []Category `json:"categories"`
}

// User is a platform account.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Bio        string `json:"bio,omitempty"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// Clip is a short extract of a past broadcast.
type Clip struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ChannelID  int64     `json:"channel_id"`
	CategoryID int64     `json:"category_id"`
	ClipURL    string    `json:"clip_url"`
	Duration   int       `json:"duration"`
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}
