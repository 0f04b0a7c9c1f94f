package models

import "time"

// EmailTemplate: template thư mời đánh giá theo hotel. Bản active mới nhất
// (id lớn nhất) thắng; lưu template mới sẽ deactivate các bản cũ.
type EmailTemplate struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID   uint      `gorm:"not null;index" json:"hotel_id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	BodyHTML  string    `gorm:"column:body_html;type:text;not null" json:"body_html"`
	BodyText  string    `gorm:"column:body_text;type:text" json:"body_text"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailTemplate) TableName() string {
	return "hotel_email_templates"
}
