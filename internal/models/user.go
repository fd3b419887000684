package models

import "time"

type User struct {
	ID                   uint       `gorm:"primaryKey"`
	Name                 string     `gorm:"not null"`
	Email                string     `gorm:"uniqueIndex;not null"`
	Password             string     `gorm:"not null"`
	PasswordResetToken   *string    `gorm:"index"`
	PasswordResetExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (User) TableName() string {
	return "users"
}
