package models

import "time"

// Attendee là membership của một user trong đúng một dinner group.
// uniqueIndex trên user_id là chỗ enforce "mỗi user một group" ở tầng DB,
// không dựa vào lock ở tầng app.
type Attendee struct {
	ID            string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"column:user_id;size:255;not null;uniqueIndex" json:"user_id"`
	DinnerGroupID string    `gorm:"column:dinner_group_id;size:36;not null;index" json:"dinner_group_id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	DinnerGroup *DinnerGroup `gorm:"foreignKey:DinnerGroupID;references:ID" json:"-"`
}

func (Attendee) TableName() string {
	return "attendees"
}
