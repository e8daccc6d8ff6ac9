package adoptions

import "time"

// Adoption links an account to a catalogue record. The composite unique
// index enforces at most one link per (account, cat) pair.
type Adoption struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_adoptions_user_cat,priority:1"`
	CatID     uint      `gorm:"column:cat_id;not null;uniqueIndex:idx_adoptions_user_cat,priority:2;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Adoption) TableName() string {
	return "adoptions"
}

// AdoptedCat is the join projection returned when listing an account's
// adoptions: the cat fields plus the moment the link was created.
type AdoptedCat struct {
	ID          uint      `gorm:"column:id"`
	Name        string    `gorm:"column:name"`
	Tag         string    `gorm:"column:tag"`
	Description string    `gorm:"column:description"`
	Image       string    `gorm:"column:img"`
	Age         *int      `gorm:"column:age"`
	Origin      string    `gorm:"column:origin"`
	Gender      string    `gorm:"column:gender"`
	AdoptedAt   time.Time `gorm:"column:adopted_at"`
}

// Status reports the adoption aggregate for a single cat.
type Status struct {
	Count       int64
	UserAdopted bool
}
