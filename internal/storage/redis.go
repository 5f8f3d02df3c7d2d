package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"kicklive/internal/config"
	"kicklive/internal/models"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Chat archive keys and limits
const (
	chatListKeyPrefix = "chat:history"
	chatMaxListSize   = 10000
	chatDedupPrefix   = "chat:dedup"
	chatDedupTTL      = 5 * time.Minute
	chatListTTL       = 24 * time.Hour
)

func chatListKey(chatroomID int64) string {
	return fmt.Sprintf("%s:%d", chatListKeyPrefix, chatroomID)
}

// StoreChatMessage appends a chat message to its chatroom's recent-history
// ring. Redelivered messages are dropped via a short-lived dedup key.
func (s *RedisStore) StoreChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	dedupKey := fmt.Sprintf("%s:%s", chatDedupPrefix, msg.ID)
	exists, err := s.client.Exists(ctx, dedupKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check dedup: %w", err)
	}
	if exists > 0 {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	key := chatListKey(msg.ChatroomID)
	if err := s.client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to store chat message: %w", err)
	}
	if err := s.client.LTrim(ctx, key, 0, int64(chatMaxListSize-1)).Err(); err != nil {
		return fmt.Errorf("failed to trim chat history: %w", err)
	}
	if err := s.client.Set(ctx, dedupKey, "1", chatDedupTTL).Err(); err != nil {
		return fmt.Errorf("failed to set dedup key: %w", err)
	}
	if err := s.client.Expire(ctx, key, chatListTTL).Err(); err != nil {
		return fmt.Errorf("failed to set history TTL: %w", err)
	}

	return nil
}

// RecentChatMessages retrieves the most recent messages for a chatroom,
// newest first.
func (s *RedisStore) RecentChatMessages(ctx context.Context, chatroomID int64, limit int64) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	results, err := s.client.LRange(ctx, chatListKey(chatroomID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	msgs := make([]models.ChatMessage, 0, len(results))
	for _, result := range results {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(result), &msg); err != nil {
			continue // Skip invalid entries
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}

// ChatMessageCount returns the number of archived messages for a chatroom.
func (s *RedisStore) ChatMessageCount(ctx context.Context, chatroomID int64) (int64, error) {
	return s.client.LLen(ctx, chatListKey(chatroomID)).Result()
}

// ClearChatHistory drops the archive for a chatroom.
func (s *RedisStore) ClearChatHistory(ctx context.Context, chatroomID int64) error {
	return s.client.Del(ctx, chatListKey(chatroomID)).Err()
}
