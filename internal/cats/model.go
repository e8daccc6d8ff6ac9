package cats

import (
	"strings"
	"time"
)

// Cat models a single catalogue record. OwnerID is nullable: legacy rows
// predate ownership and stay mutable by any authenticated account until an
// update claims them.
type Cat struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;size:190;not null"`
	Tag         string    `gorm:"column:tag;size:190;not null;index"`
	Description string    `gorm:"column:description;type:text"`
	Image       string    `gorm:"column:img;size:512"`
	Age         *int      `gorm:"column:age"`
	Origin      string    `gorm:"column:origin;size:190"`
	Gender      string    `gorm:"column:gender;size:20"`
	OwnerID     *uint     `gorm:"column:owner_id;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName provides the explicit table binding for GORM.
func (Cat) TableName() string {
	return "cats"
}

// CreateRequest carries the fields accepted when creating a record.
type CreateRequest struct {
	ActorID     uint
	Name        string
	Tag         string
	Description string
	Image       string
	Age         *int
	Origin      string
	Gender      string
}

// UpdateRequest carries the full-replace payload for an existing record.
// Absent optional fields clear their columns; Image is left unchanged when
// empty and ownership is preserved or claimed by the acting identity.
type UpdateRequest struct {
	ActorID     uint
	Name        string
	Tag         string
	Description string
	Image       string
	Age         *int
	Origin      string
	Gender      string
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}
