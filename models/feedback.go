package models

import "time"

// Feedback: đánh giá sao của khách, gửi qua link chứa review token.
type Feedback struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Nickname  string    `gorm:"size:100" json:"nickname"`
	GuestID   uint      `gorm:"not null;index" json:"guest_id"`
	Reply     *string   `gorm:"type:text" json:"reply"`
	State     int       `gorm:"not null;default:0" json:"state"`
	Status    int       `gorm:"not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Guest *Guest `gorm:"foreignKey:GuestID;references:ID" json:"-"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
