package models

import "time"

// DinnerGroup chỉ tồn tại khi còn attendee; attendee cuối rời đi là xoá luôn.
type DinnerGroup struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	RestaurantID string    `gorm:"column:restaurant_id;size:255;not null;uniqueIndex" json:"restaurant_id"` // tối đa 1 group / nhà hàng
	Notes        *string   `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;references:ID" json:"restaurant,omitempty"`
	Attendees  []Attendee  `gorm:"foreignKey:DinnerGroupID" json:"-"`
}

func (DinnerGroup) TableName() string {
	return "dinner_groups"
}
