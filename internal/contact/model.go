package contact

import "time"

// ContactMessage stores a submission from the public contact form.
type ContactMessage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:190;not null"`
	Email     string    `gorm:"column:email;size:320;not null"`
	Subject   string    `gorm:"column:subject;size:190"`
	Message   string    `gorm:"column:message;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (ContactMessage) TableName() string {
	return "contact_messages"
}
