package models

import "time"

// Restaurant là bản ghi catalog lấy từ Google Places, upsert theo place id.
type Restaurant struct {
	ID         string    `gorm:"column:id;primaryKey;size:255" json:"id"` // place id từ provider, không tự sinh
	Name       string    `gorm:"column:name;size:255;not null" json:"name"`
	PriceLevel *int      `gorm:"column:price_level" json:"price_level"` // 1-4, nil = không rõ (không phải 0)
	Rating     *float64  `gorm:"column:rating" json:"rating"`           // 0.0-5.0
	Lat        float64   `gorm:"column:lat;not null" json:"lat"`
	Lng        float64   `gorm:"column:lng;not null" json:"lng"`
	PhotoRef   *string   `gorm:"column:photo_ref;type:text" json:"photo_ref"` // resolve qua /api/photos/:ref, không bao giờ là URL trực tiếp
	MapURL     *string   `gorm:"column:map_url;type:text" json:"map_url"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	DinnerGroups []DinnerGroup `gorm:"foreignKey:RestaurantID" json:"-"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
