package models

import "time"

type Guest struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Phone      string    `gorm:"size:50;not null" json:"phone"`
	Email      string    `gorm:"size:100;not null" json:"email"`
	StartDate  time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date" json:"end_date"`
	RoomNumber string    `gorm:"size:20" json:"room_number"`
	HotelID    uint      `gorm:"not null;index" json:"hotel_id"`
	Status     int       `gorm:"not null;default:1" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Hotel *Hotel `gorm:"foreignKey:HotelID;references:ID" json:"-"`
}

func (Guest) TableName() string {
	return "guests"
}
