package models

import "time"

// Trạng thái gửi mail. Chỉ đi một chiều: pending -> sent hoặc
// pending -> failed. Dòng failed không được sửa lại; gửi lại = dòng mới.
const (
	EmailPending = "pending"
	EmailSent    = "sent"
	EmailFailed  = "failed"
)

type EmailLog struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID      uint       `gorm:"not null;index" json:"hotel_id"`
	GuestID      uint       `gorm:"not null;index" json:"guest_id"`
	Recipient    string     `gorm:"size:255;not null" json:"recipient"`
	Subject      string     `gorm:"size:255" json:"subject"`
	Status       string     `gorm:"size:20;not null;default:'pending'" json:"status"` // pending | sent | failed
	SentAt       *time.Time `gorm:"column:sent_at" json:"sent_at"`
	ErrorMessage *string    `gorm:"size:500" json:"error_message"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
