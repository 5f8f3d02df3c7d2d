package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kicklive/internal/config"
	"kicklive/internal/models"
)

// ChatMessageRecord is the durable form of an archived chat message.
type ChatMessageRecord struct {
	ID         uint   `gorm:"primaryKey"`
	MessageID  string `gorm:"uniqueIndex;size:64"`
	ChatroomID int64  `gorm:"index"`
	SenderID   int64
	Sender     string `gorm:"size:64"`
	Content    string `gorm:"type:text"`
	SentAt     time.Time
	CreatedAt  time.Time
}

func (ChatMessageRecord) TableName() string { return "chat_messages" }

type MySQLStore struct {
	db *gorm.DB
}

func NewMySQLStore(cfg config.MySQLConfig) (*MySQLStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(&ChatMessageRecord{}); err != nil {
		return nil, err
	}

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveChatMessage persists a decoded chat message. Duplicate message ids
// (redelivery after reconnect) are ignored.
func (s *MySQLStore) SaveChatMessage(msg *models.ChatMessage) error {
	rec := ChatMessageRecord{
		MessageID:  msg.ID,
		ChatroomID: msg.ChatroomID,
		SenderID:   msg.Sender.ID,
		Sender:     msg.Sender.Username,
		Content:    msg.Content,
		SentAt:     msg.CreatedAt,
	}
	err := s.db.Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// RecentChatMessages loads the latest persisted messages for a chatroom.
func (s *MySQLStore) RecentChatMessages(chatroomID int64, limit int) ([]ChatMessageRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var recs []ChatMessageRecord
	err := s.db.
		Where("chatroom_id = ?", chatroomID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
