package models

import "time"

type Orphanage struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"not null"`
	Latitude       float64 `gorm:"not null"`
	Longitude      float64 `gorm:"not null"`
	About          string  `gorm:"type:text;not null"`
	Instructions   string  `gorm:"type:text;not null"`
	OpeningHours   string  `gorm:"not null"`
	OpenOnWeekends bool    `gorm:"not null;default:false"`
	Accept         bool    `gorm:"not null;default:false"`
	Images         []Image `gorm:"foreignKey:OrphanageID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Orphanage) TableName() string {
	return "orphanages"
}

// Image is the record backing one stored blob. Key identifies the blob in
// the storage backend; URL is where clients fetch it.
type Image struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Size        int64  `gorm:"not null"`
	Key         string `gorm:"not null"`
	URL         string `gorm:"column:url;not null"`
	OrphanageID uint   `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (Image) TableName() string {
	return "images"
}
