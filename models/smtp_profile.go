package models

import "time"

// SmtpProfile: thông tin SMTP riêng của từng khách sạn. Mỗi hotel tối đa
// một profile. Password không bao giờ trả về client.
type SmtpProfile struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID   uint      `gorm:"uniqueIndex;not null" json:"hotel_id"`
	Host      string    `gorm:"size:255;not null" json:"host"`
	Port      int       `gorm:"not null" json:"port"`
	UseTLS    bool      `gorm:"column:use_tls;not null;default:false" json:"use_tls"`
	Username  string    `gorm:"size:255;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FromEmail string    `gorm:"size:255;not null" json:"from_email"`
	FromName  string    `gorm:"size:255;not null" json:"from_name"`
	Enabled   bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SmtpProfile) TableName() string {
	return "hotel_smtp_profiles"
}
