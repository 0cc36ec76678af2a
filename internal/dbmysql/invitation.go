package dbmysql

import (
	"time"
)

// Invitation is a pending request for the sender, a room member, to bring the
// receiver into the room. Once resolved it is immutable.
type Invitation struct {
	ID         uint64    `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Status     string    `gorm:"column:status;size:20;default:'pending'" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	SenderID   uint64    `gorm:"column:sender_id;index;not null" json:"sender_id"`
	ReceiverID uint64    `gorm:"column:receiver_id;index;not null" json:"receiver_id"`
	RoomID     uint64    `gorm:"column:room_id;index;not null" json:"room_id"`
}
