package dbmysql

import (
	"time"
)

// RoomMember is the membership relation between a user and a room. The
// composite primary key keeps a (user, room) pair from appearing twice.
type RoomMember struct {
	UserID     uint64     `gorm:"primaryKey;autoIncrement:false;column:user_id" json:"user_id"`
	RoomID     uint64     `gorm:"primaryKey;autoIncrement:false;column:room_id" json:"room_id"`
	JoinedAt   time.Time  `gorm:"column:joined_at" json:"joined_at"`
	IsPinned   bool       `gorm:"column:is_pinned;default:false" json:"is_pinned"`
	LastReadAt *time.Time `gorm:"column:last_read_at" json:"last_read_at"`
}

func (RoomMember) TableName() string {
	return "room_members"
}

// UnreadSince reports whether the room holds messages newer than the member's
// read watermark. A member who has never read sees any message as unread.
func (m *RoomMember) UnreadSince(latest *time.Time) bool {
	if latest == nil {
		return false
	}
	if m.LastReadAt == nil {
		return true
	}
	return latest.After(*m.LastReadAt)
}
