package chat

import (
	"context"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/dbmysql"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *dbmysql.Message) error
	ByID(ctx context.Context, messageID uint64) (*dbmysql.Message, error)
	// ListRecent returns up to limit non-revoked messages, newest first.
	ListRecent(ctx context.Context, roomID uint64, limit int) ([]*dbmysql.Message, error)
	Update(ctx context.Context, msg *dbmysql.Message) error
	DeleteByRoom(ctx context.Context, roomID uint64) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ByID(ctx context.Context, messageID uint64) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).First(&msg, messageID).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ListRecent(ctx context.Context, roomID uint64, limit int) ([]*dbmysql.Message, error) {
	var msgs []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND revoked = ?", roomID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepository) Update(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

func (r *messageRepository) DeleteByRoom(ctx context.Context, roomID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&dbmysql.Message{})
	return res.RowsAffected, res.Error
}
