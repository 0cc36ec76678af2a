package dbmysql

import (
	"time"
)

// Room is a named channel. Exactly one row has IsMain set; it has no owner
// and is never renamed or deleted.
type Room struct {
	ID        uint64    `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	IsMain    bool      `gorm:"column:is_main;default:false" json:"is_main"`
	OwnerID   *uint64   `gorm:"column:owner_id" json:"owner_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// OwnedBy reports whether userID is this room's owner. Always false for the
// main room, whose owner field is null.
func (r *Room) OwnedBy(userID uint64) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}
