package users

import (
	"strings"
	"time"
)

// User captures a registered account with local credentials.
type User struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string     `gorm:"column:username;size:50;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;size:190;not null"`
	Email        string     `gorm:"column:email;size:320"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// TableName exposes the table backing user accounts.
func (User) TableName() string {
	return "users"
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}
