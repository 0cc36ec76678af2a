package dbmysql

import (
	"time"
)

// Message is an authored post in a room. Revoked messages stay in storage but
// are excluded from every read path.
type Message struct {
	ID          uint64    `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	MessageType string    `gorm:"column:message_type;size:20;default:'text'" json:"message_type"`
	FilePath    string    `gorm:"column:file_path;size:200" json:"file_path"`
	FileName    string    `gorm:"column:file_name;size:100" json:"file_name"`
	Revoked     bool      `gorm:"column:revoked;default:false" json:"revoked"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UserID      uint64    `gorm:"column:user_id;index;not null" json:"user_id"`
	RoomID      uint64    `gorm:"column:room_id;index;not null" json:"room_id"`
}
