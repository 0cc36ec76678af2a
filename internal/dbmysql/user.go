package dbmysql

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;size:80;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	IsAdmin      bool      `gorm:"column:is_admin;default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}
